package entity

// OrderSyncResult é o desfecho individual de um pedido.
type OrderSyncResult struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"` // synced, skipped, error
	Error   string `json:"error,omitempty"`
}

// ContactSyncResult é o resultado imutável de um contato dentro do lote.
// Sucesso parcial é representável: lead atualizado + oportunidade com
// erro aparecem lado a lado, nunca colapsados num pass/fail único.
type ContactSyncResult struct {
	CustomerID string `json:"customer_id"`

	LeadID     int    `json:"lead_id,omitempty"`
	LeadStatus string `json:"lead_status,omitempty"` // created, updated, updated_and_unarchived

	TagsSynced bool `json:"tags_synced"`

	OpportunityID     int    `json:"opportunity_id,omitempty"`
	OpportunityStatus string `json:"opportunity_status,omitempty"` // created, already-exists

	Orders []OrderSyncResult `json:"orders,omitempty"`

	Errors []string `json:"errors,omitempty"`
}

func (r *ContactSyncResult) AddError(stage string, err error) {
	r.Errors = append(r.Errors, stage+": "+err.Error())
}

func (r ContactSyncResult) Failed() bool {
	return len(r.Errors) > 0
}

// BatchSummary agrega os resultados de um lote. Os contadores são
// derivados dos resultados depois que todo o trabalho concorrente
// termina — nenhum contador global compartilhado entre goroutines.
type BatchSummary struct {
	Total     int                 `json:"total"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Results   []ContactSyncResult `json:"results"`
}

func NewBatchSummary(results []ContactSyncResult) *BatchSummary {
	s := &BatchSummary{
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Failed() {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
}
