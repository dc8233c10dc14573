package entity

// Opportunity é uma entrada de pipeline (negócio) do CRM.
type Opportunity struct {
	ID       int     `json:"id"`
	FunnelID int     `json:"funnel_id"` // pode vir zerado em listagens antigas do CRM
	ColumnID int     `json:"crm_column"`
	LeadID   int     `json:"lead_id"`
	Value    float64 `json:"value"`
	Status   string  `json:"status"`
	Sequence int     `json:"sequence"`

	Fields map[string]string `json:"fields"`
}

const OpportunityStatusOpen = "open"

// Status reportados pela reconciliação de oportunidade.
const (
	OpportunityCreated       = "created"
	OpportunityAlreadyExists = "already-exists"
)

// IsOpenAt diz se esta oportunidade já ocupa o alvo (funil, etapa).
// O funil só entra na comparação quando a listagem do CRM o informa:
// registros antigos vêm sem funnel_id e ainda contam como duplicata.
func (o Opportunity) IsOpenAt(funnelID, stageID int) bool {
	if o.Status != OpportunityStatusOpen {
		return false
	}
	if o.ColumnID != stageID {
		return false
	}
	if o.FunnelID != 0 && o.FunnelID != funnelID {
		return false
	}
	return true
}
