package crm

import (
	"strconv"

	"github.com/xavierca1/ligue-crm-sync/internal/entity"
)

// LeadInput é o corpo de criação/atualização de lead.
// Archived é ponteiro de propósito: só vai no JSON quando o chamador
// quer explicitamente desarquivar (archived:false).
type LeadInput struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email,omitempty"`

	Whatsapp string `json:"whatsapp,omitempty"`
	Mobile   string `json:"mobile_phone,omitempty"`
	Phone    string `json:"phone,omitempty"`

	Street   string `json:"street,omitempty"`
	Number   string `json:"number,omitempty"`
	District string `json:"district,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zip_code,omitempty"`

	Archived *bool `json:"archived,omitempty"`
}

// OpportunityInput é o corpo de criação de oportunidade. Value e
// Sequence são strings porque o CRM espera texto nesses campos
// numéricos — mandar número quebra o schema do lado de lá.
type OpportunityInput struct {
	Title    string            `json:"title"`
	Value    string            `json:"value"`
	ColumnID int               `json:"crm_column"`
	LeadID   int               `json:"lead_id"`
	Status   string            `json:"status"`
	Sequence string            `json:"sequence"`
	Fields   map[string]string `json:"fields"`
}

// NewOpportunityInput serializa os campos numéricos no formato texto
// que a API exige.
func NewOpportunityInput(title string, value float64, columnID, leadID, sequence int, fields map[string]string) OpportunityInput {
	if fields == nil {
		fields = map[string]string{}
	}
	return OpportunityInput{
		Title:    title,
		Value:    strconv.FormatFloat(value, 'f', 2, 64),
		ColumnID: columnID,
		LeadID:   leadID,
		Status:   entity.OpportunityStatusOpen,
		Sequence: strconv.Itoa(sequence),
		Fields:   fields,
	}
}

type searchLeadsRequest struct {
	Query  string `json:"query"`
	Search bool   `json:"search"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

type searchLeadsResponse struct {
	Leads []leadRecord `json:"leads"`
	Total int          `json:"total"`
}

type leadRecord struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Whatsapp  string `json:"whatsapp"`
	Mobile    string `json:"mobile_phone"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	Number    string `json:"number"`
	District  string `json:"district"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Archived  bool   `json:"archived"`
}

func (r leadRecord) toEntity() entity.Lead {
	return entity.Lead{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Whatsapp:  r.Whatsapp,
		Mobile:    r.Mobile,
		Phone:     r.Phone,
		Street:    r.Street,
		Number:    r.Number,
		District:  r.District,
		City:      r.City,
		State:     r.State,
		ZipCode:   r.ZipCode,
		Archived:  r.Archived,
	}
}

// opportunityRecord tolera o formato da listagem: value vem como texto
// e registros antigos não trazem funnel_id.
type opportunityRecord struct {
	ID       int               `json:"id"`
	FunnelID int               `json:"funnel_id"`
	ColumnID int               `json:"crm_column"`
	LeadID   int               `json:"lead_id"`
	Value    string            `json:"value"`
	Status   string            `json:"status"`
	Sequence string            `json:"sequence"`
	Fields   map[string]string `json:"fields"`
}

func (r opportunityRecord) toEntity() entity.Opportunity {
	value, _ := strconv.ParseFloat(r.Value, 64)
	sequence, _ := strconv.Atoi(r.Sequence)
	return entity.Opportunity{
		ID:       r.ID,
		FunnelID: r.FunnelID,
		ColumnID: r.ColumnID,
		LeadID:   r.LeadID,
		Value:    value,
		Status:   r.Status,
		Sequence: sequence,
		Fields:   r.Fields,
	}
}

type idResponse struct {
	ID int `json:"id"`
}

type objectResponse struct {
	ID string `json:"id"`
}

type linkObjectRequest struct {
	ObjectID string  `json:"objectId"`
	LinkType string  `json:"linkType"`
	TargetID int     `json:"targetId"`
	Amount   float64 `json:"amount"`
}

type tagRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type updateTagsRequest struct {
	Tags []int `json:"tags"`
}
