package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm-sync/internal/entity"
	"github.com/xavierca1/ligue-crm-sync/internal/infra/integration/crm"
)

// CRMGateway é o contrato do binding HTTP do CRM (implementado por
// crm.Client). Uma operação por endpoint, dados estruturados dos dois
// lados, nada de estado.
type CRMGateway interface {
	SearchLeads(ctx context.Context, query string) ([]entity.Lead, error)
	GetLead(ctx context.Context, id int) (*entity.Lead, error)
	CreateLead(ctx context.Context, input crm.LeadInput) (int, error)
	UpdateLead(ctx context.Context, id int, input crm.LeadInput) error
	UpdateLeadTags(ctx context.Context, id int, tagIDs []int) error
	ListTags(ctx context.Context) ([]entity.Tag, error)
	ListOpportunities(ctx context.Context, leadID int) ([]entity.Opportunity, error)
	CreateOpportunity(ctx context.Context, funnelID int, input crm.OpportunityInput) (int, error)
	CreateCustomObject(ctx context.Context, definitionID string, fields map[string]any) (string, error)
	LinkCustomObject(ctx context.Context, objectID string, leadID int, amount float64) error
}
