package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm-sync/internal/entity"
)

// LeadResolver encontra o lead existente de um contato via cascata de
// buscas com precedência deliberada: telefone é o sinal único mais
// confiável nesse domínio, email vem depois, texto livre por último.
type LeadResolver struct {
	CRM CRMGateway
}

func NewLeadResolver(crmGateway CRMGateway) *LeadResolver {
	return &LeadResolver{CRM: crmGateway}
}

// Resolve tenta, em ordem: whatsapp, celular, telefone fixo, email e a
// chave genérica de fallback. Retorna o primeiro match ou nil.
func (r *LeadResolver) Resolve(ctx context.Context, contact entity.Contact) (*entity.Lead, error) {
	queries := []string{
		SanitizePhone(contact.Whatsapp),
		SanitizePhone(contact.Mobile),
		SanitizePhone(contact.Phone),
		contact.Email,
		contact.FallbackKey(),
	}

	seen := map[string]bool{}
	for _, query := range queries {
		if query == "" || seen[query] {
			continue
		}
		seen[query] = true

		leads, err := r.CRM.SearchLeads(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("falha na busca por %q: %w", query, err)
		}
		if len(leads) > 0 {
			return &leads[0], nil
		}
	}

	return nil, nil
}
