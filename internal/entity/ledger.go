package entity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LedgerEntry é o registro durável de uma operação externa tentada.
// A assinatura é única: uma segunda inserção com a mesma assinatura
// significa "essa operação exata já foi registrada", nunca um erro.
// Entradas nunca são alteradas depois de inseridas.
type LedgerEntry struct {
	ID           string            `json:"id"`
	EntityType   string            `json:"entity_type"`
	EntityID     string            `json:"entity_id"`
	Action       string            `json:"action"`
	Signature    string            `json:"signature"`
	Status       string            `json:"status"`
	Payload      json.RawMessage   `json:"payload"`
	Response     json.RawMessage   `json:"response"`
	ErrorMessage string            `json:"error_message"`
	Metadata     map[string]string `json:"metadata"`
	CreatedAt    time.Time         `json:"created_at"`
}

const (
	LedgerPending = "pending"
	LedgerSuccess = "success"
	LedgerError   = "error"
)

type LedgerInterface interface {
	// IsAlreadySucceeded responde se esta operação exata já foi concluída
	// com sucesso em alguma execução anterior.
	IsAlreadySucceeded(ctx context.Context, entityType, entityID, action string, payload any) (bool, error)

	// Record insere a entrada. Conflito de unicidade na assinatura NÃO é
	// erro (outra execução já registrou a mesma operação). Qualquer outra
	// falha de persistência é logada mas não pode travar o negócio.
	Record(ctx context.Context, entry *LedgerEntry) error
}

// ComputeSignature gera a chave de idempotência determinística de uma
// operação: hash sobre o payload canonicalizado mais os três campos
// discriminadores. Entradas iguais produzem sempre a mesma assinatura,
// independente da ordem dos campos no payload.
func ComputeSignature(entityType, entityID, action string, payload any) string {
	canonical := canonicalJSON(payload)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s", entityType, entityID, action, canonical)
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalJSON serializa com chaves ordenadas. A ida e volta por
// interface{} transforma structs em mapas, e o encoding/json ordena
// chaves de mapa — é isso que garante a independência de ordem.
func canonicalJSON(payload any) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%+v", payload)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return string(raw)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return string(raw)
	}
	return string(canonical)
}

// NewLedgerEntry monta uma entrada pronta para inserção, com a
// assinatura já calculada e o snapshot do payload.
func NewLedgerEntry(entityType, entityID, action string, payload any) *LedgerEntry {
	raw, _ := json.Marshal(payload)

	return &LedgerEntry{
		ID:         uuid.New().String(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Signature:  ComputeSignature(entityType, entityID, action, payload),
		Status:     LedgerPending,
		Payload:    raw,
		Metadata:   map[string]string{},
		CreatedAt:  time.Now(),
	}
}

// MarkSuccess anexa o snapshot da resposta 2xx confirmada.
func (e *LedgerEntry) MarkSuccess(response any) {
	e.Status = LedgerSuccess
	if response != nil {
		e.Response, _ = json.Marshal(response)
	}
}

func (e *LedgerEntry) MarkError(err error) {
	e.Status = LedgerError
	if err != nil {
		e.ErrorMessage = err.Error()
	}
}
