package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/xavierca1/ligue-crm-sync/internal/entity"
)

// ContactSyncer é o que o orquestrador sabe sobre o pipeline de um
// contato. Interface separada para os testes injetarem um sincronizador
// falso.
type ContactSyncer interface {
	Execute(ctx context.Context, contact entity.Contact, cfg SyncConfig) entity.ContactSyncResult
}

// SyncBatchUseCase particiona a lista de clientes em chunks de tamanho
// fixo, processa cada chunk de forma concorrente e pausa entre chunks
// para não afogar a API do CRM. Cada item produz um resultado imutável;
// os contadores são derivados no final, depois que toda goroutine
// terminou — nada de tally global compartilhado.
type SyncBatchUseCase struct {
	Customers entity.CustomerReaderInterface
	Syncer    ContactSyncer
}

func NewSyncBatchUseCase(customers entity.CustomerReaderInterface, syncer ContactSyncer) *SyncBatchUseCase {
	return &SyncBatchUseCase{
		Customers: customers,
		Syncer:    syncer,
	}
}

func (uc *SyncBatchUseCase) Execute(ctx context.Context, input SyncBatchInput) (*entity.BatchSummary, error) {
	validationErrors := ValidateSyncBatchInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: errMsg,
		}
	}

	batchSize := input.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	delay := time.Duration(input.DelayMs) * time.Millisecond
	if input.DelayMs <= 0 {
		delay = DefaultDelayMs * time.Millisecond
	}

	contacts, err := uc.Customers.FindContactsByIDs(ctx, input.CustomerIDs)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "falha ao carregar contatos da base de origem: " + err.Error(),
		}
	}

	// Ids pedidos que não existem na base viram resultado de erro, não
	// abortam o lote.
	found := make(map[string]bool, len(contacts))
	for _, c := range contacts {
		found[c.CustomerID] = true
	}
	var results []entity.ContactSyncResult
	for _, id := range input.CustomerIDs {
		if !found[id] {
			results = append(results, entity.ContactSyncResult{
				CustomerID: id,
				Errors:     []string{"contact: cliente não encontrado na base de origem"},
			})
		}
	}

	log.Printf("🔄 Lote iniciado: %d contatos, chunks de %d, pausa de %s", len(contacts), batchSize, delay)

	for start := 0; start < len(contacts); start += batchSize {
		end := start + batchSize
		if end > len(contacts) {
			end = len(contacts)
		}
		chunk := contacts[start:end]

		// Dentro do chunk tudo roda concorrente; cada goroutine escreve
		// só na própria posição do slice.
		chunkResults := make([]entity.ContactSyncResult, len(chunk))
		var wg sync.WaitGroup
		for i := range chunk {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				chunkResults[i] = uc.Syncer.Execute(ctx, chunk[i], input.Config)
			}(i)
		}
		wg.Wait()
		results = append(results, chunkResults...)

		// Pausa de rate-limit antes do próximo chunk. Cancelamento do
		// contexto só para de agendar chunks novos: o que já foi
		// despachado acima correu até o fim.
		if end < len(contacts) {
			select {
			case <-ctx.Done():
				log.Printf("⚠️ Lote interrompido pelo chamador após %d contatos", end)
				return entity.NewBatchSummary(results), nil
			case <-time.After(delay):
			}
		}
	}

	summary := entity.NewBatchSummary(results)
	log.Printf("✅ Lote concluído: %d ok, %d com erro de %d", summary.Succeeded, summary.Failed, summary.Total)
	return summary, nil
}
