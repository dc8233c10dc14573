package entity

// Lead é o contato do lado do CRM. O ID é atribuído pelo CRM e é estável;
// a identidade para fins de resolução é telefone OU email, nunca o ID
// (o chamador normalmente ainda não o conhece).
type Lead struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`

	Whatsapp string `json:"whatsapp"`
	Mobile   string `json:"mobile_phone"`
	Phone    string `json:"phone"`

	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`

	// Lead arquivado fica oculto nas visões normais do CRM.
	// O sync sempre desarquiva antes de tratar como ativo.
	Archived bool `json:"archived"`
}

// Status reportados pela reconciliação de lead.
const (
	LeadCreated           = "created"
	LeadUpdated           = "updated"
	LeadUpdatedUnarchived = "updated_and_unarchived"
)

// Tag é um rótulo do CRM, referenciado por id numérico.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
