package usecase

// SyncConfig é o alvo da sincronização: para onde vão as oportunidades
// e os pedidos de cada contato. FunnelID e StageID são obrigatórios e
// validados antes de qualquer I/O.
type SyncConfig struct {
	FunnelID int `json:"funnel_id"`
	StageID  int `json:"stage_id"`

	// Tag de reserva (marcador de campanha) sempre anexada ao conjunto
	// de tags enviado, além das derivadas das origens do contato.
	ReservationTagID int `json:"reservation_tag_id"`

	// Definição do objeto customizado que representa um pedido.
	OrderDefinitionID string `json:"order_definition_id"`

	// De-para entre campos do pedido e nomes de campo do CRM.
	OrderFieldMap map[string]string `json:"order_field_map"`
}

// SyncBatchInput é o pedido de um lote.
type SyncBatchInput struct {
	CustomerIDs []string   `json:"customer_ids"`
	Config      SyncConfig `json:"config"`

	// Tamanho do chunk concorrente e pausa entre chunks (rate limit
	// contra a API externa). Zerados usam os defaults.
	BatchSize int `json:"batch_size"`
	DelayMs   int `json:"delay_ms"`
}

const (
	DefaultBatchSize = 5
	DefaultDelayMs   = 1000
)
