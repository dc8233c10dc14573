package entity

import "time"

// Order é um pedido ou orçamento do histórico de compras do cliente,
// projetado 1:1 em um objeto customizado no CRM.
type Order struct {
	ID     string    `json:"id"`
	Kind   string    `json:"kind"` // ORDER, QUOTATION
	Date   time.Time `json:"date"`
	Value  float64   `json:"value"`
	Status string    `json:"status"`

	Items []OrderItem `json:"items"`
}

// OrderItem é uma fórmula/linha do pedido.
type OrderItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitValue   float64 `json:"unit_value"`
}

// Status reportados pelo sync de pedidos.
const (
	OrderSynced  = "synced"
	OrderSkipped = "skipped"
	OrderFailed  = "error"
)
