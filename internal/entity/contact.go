package entity

import (
	"context"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

// Contact é a projeção do cliente vinda do banco de origem (read-only).
// É a única fonte de verdade sobre O QUE sincronizar com o CRM.
type Contact struct {
	CustomerID string `json:"customer_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`

	// Telefones brutos, como estão no banco. Normalização acontece no sync.
	Whatsapp string `json:"whatsapp"`
	Mobile   string `json:"mobile"`
	Phone    string `json:"phone"`

	TaxID string `json:"tax_id"` // CPF/CNPJ

	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`

	// Origens atribuídas ao cliente (campanha, indicação, etc).
	// Viram tags no CRM.
	Sources []string `json:"sources"`

	// ID do lead no CRM, gravado de volta após o primeiro sync.
	CRMLeadID int `json:"crm_lead_id"`

	Orders []Order `json:"orders"`
}

// FallbackKey é a chave de busca genérica usada como último recurso
// na resolução de lead: primeiro campo não vazio entre email, telefone,
// CPF/CNPJ e nome completo.
func (c Contact) FallbackKey() string {
	for _, v := range []string{c.Email, c.Phone, c.TaxID, c.FullName} {
		if v != "" {
			return v
		}
	}
	return ""
}

type CustomerReaderInterface interface {
	FindContactsByIDs(ctx context.Context, ids []string) ([]Contact, error)

	// UpdateCRMLeadID é a única escrita de negócio no banco de origem:
	// guarda o id externo do lead para cruzamento posterior.
	UpdateCRMLeadID(ctx context.Context, customerID string, leadID int) error
}
