package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segyhp/dues-engine/internal/cache"
	"github.com/segyhp/dues-engine/internal/config"
	"github.com/segyhp/dues-engine/internal/handler"
	"github.com/segyhp/dues-engine/internal/logger"
	"github.com/segyhp/dues-engine/internal/notify"
	"github.com/segyhp/dues-engine/internal/repository"
	"github.com/segyhp/dues-engine/internal/service"
	"github.com/segyhp/dues-engine/pkg/response"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.Init(cfg)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	associationRepo := repository.NewAssociationRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	dueRepo := repository.NewDueRepository(db)
	incomeRepo := repository.NewIncomeRepository(db)

	// Initialize service
	duesService := service.NewDuesService(
		associationRepo,
		memberRepo,
		dueRepo,
		service.NewIncomeLedger(incomeRepo),
		initNotifier(cfg, memberRepo, log),
		cache.NewRedisLocker(redisClient, "dues"),
		cfg,
		log,
	)
	duesHandler := handler.NewDuesHandler(duesService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout, log)

	// Setup routes
	router := setupRoutes(cfg, log, duesHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func initNotifier(cfg *config.Config, members repository.MemberRepository, log *logrus.Logger) notify.Notifier {
	notifiers := notify.Multi{notify.NewLogNotifier(log)}
	if cfg.SMTP.Enabled() {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg.SMTP, members, log))
	}
	return notifiers
}

func setupRoutes(cfg *config.Config, log *logrus.Logger, duesHandler *handler.DuesHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(log))
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// Gateway callbacks carry a signature instead of a user token
	webhooks := router.PathPrefix("/api/v1/webhooks").Subrouter()
	webhooks.Use(handler.WebhookSignatureMiddleware(cfg.Payments.WebhookSecret))
	webhooks.HandleFunc("/payments", duesHandler.PaymentWebhook).Methods("POST")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(handler.AuthMiddleware(cfg.Auth.JWTSecret))

	api.HandleFunc("/associations/{associationId}/dues", duesHandler.ListDues).Methods("GET")
	api.HandleFunc("/associations/{associationId}/dues/generate", duesHandler.GenerateDues).Methods("POST")
	api.HandleFunc("/dues/{dueId}/pay", duesHandler.MarkPaid).Methods("POST")
	api.HandleFunc("/dues/{dueId}/ledger/retry", duesHandler.RetryLedger).Methods("POST")
	api.HandleFunc("/members/{memberId}/dues", duesHandler.MemberDues).Methods("GET")
	api.HandleFunc("/associations/{associationId}/members/{memberId}/dues/remind", duesHandler.SendReminder).Methods("POST")

	return router
}
