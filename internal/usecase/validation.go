package usecase

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSyncBatchInput valida o pedido de lote ANTES de qualquer
// chamada de rede ou leitura de banco. Funil e etapa ausentes são erro
// de configuração fatal, nunca descobertos no meio do lote.
func ValidateSyncBatchInput(input SyncBatchInput) []ValidationError {
	var errors []ValidationError

	if len(input.CustomerIDs) == 0 {
		errors = append(errors, ValidationError{"customer_ids", "is required"})
	}
	for _, id := range input.CustomerIDs {
		if strings.TrimSpace(id) == "" {
			errors = append(errors, ValidationError{"customer_ids", "must not contain empty ids"})
			break
		}
	}

	if input.Config.FunnelID <= 0 {
		errors = append(errors, ValidationError{"funnel_id", "is required"})
	}
	if input.Config.StageID <= 0 {
		errors = append(errors, ValidationError{"stage_id", "is required"})
	}

	if input.BatchSize < 0 {
		errors = append(errors, ValidationError{"batch_size", "must not be negative"})
	}
	if input.DelayMs < 0 {
		errors = append(errors, ValidationError{"delay_ms", "must not be negative"})
	}

	return errors
}
