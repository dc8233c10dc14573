package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-crm-sync/internal/entity"
	"github.com/xavierca1/ligue-crm-sync/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm-sync/internal/infra/queue"
	"github.com/xavierca1/ligue-crm-sync/internal/usecase"
)

// SyncBatchRunner é o orquestrador visto pelo handler.
type SyncBatchRunner interface {
	Execute(ctx context.Context, input usecase.SyncBatchInput) (*entity.BatchSummary, error)
}

type SyncHandler struct {
	Runner      SyncBatchRunner
	Producer    queue.SyncJobProducerInterface
	rateLimiter *RateLimiter
}

func NewSyncHandler(runner SyncBatchRunner, producer queue.SyncJobProducerInterface) *SyncHandler {
	return &SyncHandler{
		Runner:      runner,
		Producer:    producer,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min por IP
	}
}

type SyncRequest struct {
	CustomerIDs       []string          `json:"customer_ids"`
	FunnelID          int               `json:"funnel_id"`
	StageID           int               `json:"stage_id"`
	ReservationTagID  int               `json:"reservation_tag_id"`
	OrderDefinitionID string            `json:"order_definition_id"`
	OrderFieldMap     map[string]string `json:"order_field_map"`
	BatchSize         int               `json:"batch_size"`
	DelayMs           int               `json:"delay_ms"`

	// Só usado no caminho assíncrono.
	ReportEmail string `json:"report_email,omitempty"`
}

func (r SyncRequest) toInput() usecase.SyncBatchInput {
	return usecase.SyncBatchInput{
		CustomerIDs: r.CustomerIDs,
		Config: usecase.SyncConfig{
			FunnelID:          r.FunnelID,
			StageID:           r.StageID,
			ReservationTagID:  r.ReservationTagID,
			OrderDefinitionID: r.OrderDefinitionID,
			OrderFieldMap:     r.OrderFieldMap,
		},
		BatchSize: r.BatchSize,
		DelayMs:   r.DelayMs,
	}
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type EnqueueResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
}

// HandleRun roda o lote de forma síncrona e devolve o resumo completo,
// com o desfecho de cada item.
func (h *SyncHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SyncRequest
	if !h.decode(w, r, &req) {
		return
	}

	summary, err := h.Runner.Execute(ctx, req.toInput())
	if err != nil {
		status := http.StatusInternalServerError
		if usecase.IsDomainError(err) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	middleware.RecordSyncSummary(summary)
	writeJSON(w, http.StatusOK, summary)
}

// HandleEnqueue valida e publica o job na fila; o worker faz o resto.
func (h *SyncHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SyncRequest
	if !h.decode(w, r, &req) {
		return
	}

	if validationErrors := usecase.ValidateSyncBatchInput(req.toInput()); len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Success: false,
			Message: validationErrors[0].Error(),
		})
		return
	}

	payload := queue.SyncJobPayload{
		JobID:             uuid.New().String(),
		CustomerIDs:       req.CustomerIDs,
		FunnelID:          req.FunnelID,
		StageID:           req.StageID,
		ReservationTagID:  req.ReservationTagID,
		OrderDefinitionID: req.OrderDefinitionID,
		OrderFieldMap:     req.OrderFieldMap,
		BatchSize:         req.BatchSize,
		DelayMs:           req.DelayMs,
		ReportEmail:       req.ReportEmail,
	}

	if err := h.Producer.PublishSyncJob(ctx, payload); err != nil {
		middleware.RecordIntegrationError("rabbitmq")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: "Falha ao enfileirar o job de sincronização",
		})
		return
	}

	writeJSON(w, http.StatusAccepted, EnqueueResponse{Success: true, JobID: payload.JobID})
}

func (h *SyncHandler) decode(w http.ResponseWriter, r *http.Request, req *SyncRequest) bool {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getClientIP(r *http.Request) string {

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}


type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}


func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}


func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}


func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
