package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segyhp/dues-engine/internal/cache"
	"github.com/segyhp/dues-engine/internal/config"
	"github.com/segyhp/dues-engine/internal/logger"
	"github.com/segyhp/dues-engine/internal/notify"
	"github.com/segyhp/dues-engine/internal/repository"
	"github.com/segyhp/dues-engine/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.Init(cfg)
	log.Info("Starting dues scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	memberRepo := repository.NewMemberRepository(db)
	notifiers := notify.Multi{notify.NewLogNotifier(log)}
	if cfg.SMTP.Enabled() {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg.SMTP, memberRepo, log))
	}

	duesService := service.NewDuesService(
		repository.NewAssociationRepository(db),
		memberRepo,
		repository.NewDueRepository(db),
		service.NewIncomeLedger(repository.NewIncomeRepository(db)),
		notifiers,
		cache.NewRedisLocker(redisClient, "dues"),
		cfg,
		log,
	)

	// Initialize cron scheduler in the business time zone
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	if err := setupCronJobs(c, cfg, duesService, log); err != nil {
		log.Fatalf("Error scheduling dues jobs: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, duesService *service.DuesService, log logrus.FieldLogger) error {
	// Daily reconcile and overdue sweep for every association with dues enabled
	_, err := c.AddFunc(cfg.Scheduler.ReconcileCron, func() {
		runDuesPass(duesService, cfg.Scheduler.JobTimeout, log)
	})
	if err != nil {
		return err
	}

	log.WithField("schedule", cfg.Scheduler.ReconcileCron).Info("Cron jobs scheduled successfully")
	return nil
}

func runDuesPass(duesService *service.DuesService, timeout time.Duration, log logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	log.Info("Running scheduled dues pass...")

	if err := duesService.RunScheduledPass(ctx); err != nil {
		log.WithError(err).Error("Scheduled dues pass finished with errors")
		return
	}

	log.WithField("duration", time.Since(start).String()).Info("Scheduled dues pass finished")
}
