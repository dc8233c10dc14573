package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm-sync/internal/infra/database"
	"github.com/xavierca1/ligue-crm-sync/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm-sync/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm-sync/internal/infra/integration/crm"
	"github.com/xavierca1/ligue-crm-sync/internal/infra/mail"
	"github.com/xavierca1/ligue-crm-sync/internal/infra/queue"
	"github.com/xavierca1/ligue-crm-sync/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		os.Getenv("RABBIT_USER"), os.Getenv("RABBIT_PASS"),
		os.Getenv("RABBIT_HOST"), os.Getenv("RABBIT_PORT"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	customerRepo := database.NewCustomerRepository(db)
	ledgerRepo := database.NewLedgerRepository(db)

	// 2. Gateways e Adapters
	crmClient := crm.NewClient(
		os.Getenv("CRM_BASE_URL"),
		os.Getenv("CRM_API_TOKEN"),
		os.Getenv("CRM_INSTANCE_ID"),
	)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), mailPort(), os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)

	// 3. UseCases
	syncContactUC := usecase.NewSyncContactUseCase(crmClient, ledgerRepo, customerRepo)
	syncBatchUC := usecase.NewSyncBatchUseCase(customerRepo, syncContactUC)

	// 4. Worker (consome a fila e roda os lotes)
	worker := queue.NewWorker(rabbitMQ.Ch, syncBatchUC, mailSender)
	go worker.Start(queue.QueueName)

	// 5. Handlers
	syncHandler := handlers.NewSyncHandler(syncBatchUC, producer)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/sync", syncHandler.HandleRun)
	r.Post("/sync/async", syncHandler.HandleEnqueue)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		port = ":" + p
	}
	log.Printf("🔥 CRM Sync rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func mailPort() int {
	port, err := strconv.Atoi(os.Getenv("MAIL_PORT"))
	if err != nil || port == 0 {
		return 587
	}
	return port
}
