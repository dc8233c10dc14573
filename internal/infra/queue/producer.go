package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SyncJobPayload é um pedido de lote enfileirado: quem sincronizar e
// para onde no CRM.
type SyncJobPayload struct {
	JobID       string   `json:"job_id"`
	CustomerIDs []string `json:"customer_ids"`

	FunnelID          int               `json:"funnel_id"`
	StageID           int               `json:"stage_id"`
	ReservationTagID  int               `json:"reservation_tag_id"`
	OrderDefinitionID string            `json:"order_definition_id"`
	OrderFieldMap     map[string]string `json:"order_field_map"`

	BatchSize int `json:"batch_size"`
	DelayMs   int `json:"delay_ms"`

	// Email opcional para o relatório do lote.
	ReportEmail string `json:"report_email"`
}

type SyncJobProducerInterface interface {
	PublishSyncJob(ctx context.Context, payload SyncJobPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}


func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishSyncJob(ctx context.Context, payload SyncJobPayload) error {

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.crmsync
		RoutingKey,   // k.sync_job
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco (segurança!)
		},
	)

	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
