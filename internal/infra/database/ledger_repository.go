package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xavierca1/ligue-crm-sync/internal/entity"
)

// LedgerRepository persiste o ledger de assinaturas em
// crm_sync_ledger. A coluna signature tem constraint UNIQUE: é ela,
// e não lock nenhum da aplicação, que resolve escrita concorrente.
type LedgerRepository struct {
	DB *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// IsAlreadySucceeded responde se a operação identificada pela
// assinatura já tem uma entrada com status success.
func (r *LedgerRepository) IsAlreadySucceeded(ctx context.Context, entityType, entityID, action string, payload any) (bool, error) {
	signature := entity.ComputeSignature(entityType, entityID, action, payload)

	var status string
	query := `SELECT status FROM crm_sync_ledger WHERE signature = $1`
	err := r.DB.QueryRowContext(ctx, query, signature).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return status == entity.LedgerSuccess, nil
}

// Record insere a entrada. Violação da unicidade da assinatura (23505)
// significa que outra execução já registrou essa operação exata — isso
// é sucesso, não erro. Entradas nunca são atualizadas depois.
func (r *LedgerRepository) Record(ctx context.Context, e *entity.LedgerEntry) error {
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		metadata = []byte("{}")
	}

	query := `
		INSERT INTO crm_sync_ledger
			(id, entity_type, entity_id, action, signature, status,
			 payload, response, error_message, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.DB.ExecContext(ctx, query,
		e.ID,
		e.EntityType,
		e.EntityID,
		e.Action,
		e.Signature,
		e.Status,
		nullJSON(e.Payload),
		nullJSON(e.Response),
		e.ErrorMessage,
		metadata,
		e.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			log.Printf("📥 Ledger: assinatura %s já registrada por outra execução", e.Signature[:12])
			return nil
		}
		return err
	}

	return nil
}

func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
