package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/ligue-crm-sync/internal/entity"
	"github.com/xavierca1/ligue-crm-sync/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm-sync/internal/usecase"
)

// BatchRunner é o contrato do orquestrador de lotes visto pelo worker.
type BatchRunner interface {
	Execute(ctx context.Context, input usecase.SyncBatchInput) (*entity.BatchSummary, error)
}

// ReportSender envia o relatório do lote quando o job pede.
type ReportSender interface {
	SendSyncReport(to, jobID string, summary *entity.BatchSummary) error
}

type Worker struct {
	Channel *amqp.Channel
	Runner  BatchRunner
	Mail    ReportSender
}

func NewWorker(ch *amqp.Channel, runner BatchRunner, mail ReportSender) *Worker {
	return &Worker{
		Channel: ch,
		Runner:  runner,
		Mail:    mail,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			log.Printf("📥 [WORKER] Job de sync recebido do RabbitMQ")

			var payload SyncJobPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("⚙️ [WORKER] Processando job %s: %d clientes para o funil %d",
				payload.JobID, len(payload.CustomerIDs), payload.FunnelID)

			summary, err := w.processJob(context.Background(), payload)
			if err != nil {
				log.Printf("❌ [WORKER] Erro no job %s: %s", payload.JobID, err)
				// Erro de configuração/banco: vai para a DLQ, reprocessar
				// a mesma mensagem daria no mesmo.
				d.Nack(false, false)
				continue
			}

			log.Printf("✅ [WORKER] Job %s concluído: %d ok, %d com erro",
				payload.JobID, summary.Succeeded, summary.Failed)
			d.Ack(false)
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processJob(ctx context.Context, payload SyncJobPayload) (*entity.BatchSummary, error) {
	input := usecase.SyncBatchInput{
		CustomerIDs: payload.CustomerIDs,
		Config: usecase.SyncConfig{
			FunnelID:          payload.FunnelID,
			StageID:           payload.StageID,
			ReservationTagID:  payload.ReservationTagID,
			OrderDefinitionID: payload.OrderDefinitionID,
			OrderFieldMap:     payload.OrderFieldMap,
		},
		BatchSize: payload.BatchSize,
		DelayMs:   payload.DelayMs,
	}

	summary, err := w.Runner.Execute(ctx, input)
	if err != nil {
		return nil, err
	}
	middleware.RecordSyncSummary(summary)

	// Relatório é cortesia: falha no email não reprocessa o lote.
	if w.Mail != nil && payload.ReportEmail != "" {
		if err := w.Mail.SendSyncReport(payload.ReportEmail, payload.JobID, summary); err != nil {
			log.Printf("⚠️ [WORKER] Falha ao enviar relatório do job %s: %v", payload.JobID, err)
		}
	}

	return summary, nil
}
