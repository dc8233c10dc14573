package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestComputeSignatureDeterminism - entradas iguais, assinatura igual, sempre
func TestComputeSignatureDeterminism(t *testing.T) {
	payload := map[string]any{
		"name":  "João Silva",
		"phone": "+5511988887777",
		"value": 149.9,
	}

	sigA := ComputeSignature("lead", "cust-1", "create", payload)
	sigB := ComputeSignature("lead", "cust-1", "create", payload)

	assert.Equal(t, sigA, sigB)
	assert.Len(t, sigA, 64) // sha256 em hex
}

// TestComputeSignatureOrderIndependence - a ordem dos campos no payload
// não pode mudar a assinatura: struct e mapa equivalentes colapsam no
// mesmo JSON canônico
func TestComputeSignatureOrderIndependence(t *testing.T) {
	type payloadStruct struct {
		Phone string  `json:"phone"`
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	fromStruct := ComputeSignature("lead", "cust-1", "update", payloadStruct{
		Phone: "+5511988887777",
		Name:  "João Silva",
		Value: 149.9,
	})
	fromMap := ComputeSignature("lead", "cust-1", "update", map[string]any{
		"value": 149.9,
		"name":  "João Silva",
		"phone": "+5511988887777",
	})

	assert.Equal(t, fromStruct, fromMap)
}

// TestComputeSignatureDiscriminators - mudar qualquer discriminador ou o
// payload muda a assinatura
func TestComputeSignatureDiscriminators(t *testing.T) {
	payload := map[string]any{"value": "10.00"}

	base := ComputeSignature("custom_object", "77:order-1", "create", payload)

	assert.NotEqual(t, base, ComputeSignature("opportunity", "77:order-1", "create", payload))
	assert.NotEqual(t, base, ComputeSignature("custom_object", "77:order-2", "create", payload))
	assert.NotEqual(t, base, ComputeSignature("custom_object", "77:order-1", "update", payload))
	assert.NotEqual(t, base, ComputeSignature("custom_object", "77:order-1", "create", map[string]any{"value": "11.00"}))
}

// TestNewLedgerEntry - entrada nasce pending, com assinatura e snapshot
func TestNewLedgerEntry(t *testing.T) {
	payload := map[string]string{"order_id": "order-1"}

	entry := NewLedgerEntry("custom_object", "77:order-1", "create", payload)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "custom_object", entry.EntityType)
	assert.Equal(t, "77:order-1", entry.EntityID)
	assert.Equal(t, LedgerPending, entry.Status)
	assert.Equal(t, ComputeSignature("custom_object", "77:order-1", "create", payload), entry.Signature)

	var snapshot map[string]string
	assert.NoError(t, json.Unmarshal(entry.Payload, &snapshot))
	assert.Equal(t, "order-1", snapshot["order_id"])
}

// TestLedgerEntryMarkSuccess - sucesso só depois de resposta confirmada
func TestLedgerEntryMarkSuccess(t *testing.T) {
	entry := NewLedgerEntry("lead", "cust-1", "create", map[string]string{"name": "Maria"})

	entry.MarkSuccess(map[string]int{"id": 42})

	assert.Equal(t, LedgerSuccess, entry.Status)
	assert.NotEmpty(t, entry.Response)
	assert.Empty(t, entry.ErrorMessage)
}
