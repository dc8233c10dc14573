package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xavierca1/ligue-crm-sync/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsSynced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_leads_synced_total",
			Help: "Total number of leads reconciled, by outcome",
		},
		[]string{"status"},
	)

	opportunitiesReconciled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_opportunities_reconciled_total",
			Help: "Total number of opportunity reconciliations, by outcome",
		},
		[]string{"status"},
	)

	ordersSynced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_orders_synced_total",
			Help: "Total number of order custom objects processed, by outcome",
		},
		[]string{"status"},
	)

	contactsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_contacts_failed_total",
			Help: "Total number of contacts that finished a sync with errors",
		},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

// RecordSyncSummary despeja os desfechos de um lote nos contadores.
func RecordSyncSummary(summary *entity.BatchSummary) {
	if summary == nil {
		return
	}
	for _, r := range summary.Results {
		if r.LeadStatus != "" {
			leadsSynced.WithLabelValues(r.LeadStatus).Inc()
		}
		if r.OpportunityStatus != "" {
			opportunitiesReconciled.WithLabelValues(r.OpportunityStatus).Inc()
		}
		for _, o := range r.Orders {
			ordersSynced.WithLabelValues(o.Status).Inc()
		}
		if r.Failed() {
			contactsFailed.Inc()
		}
	}
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
