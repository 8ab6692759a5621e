package main

import (
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cenkalti/backoff/v4"
	"github.com/talentlane/crm/internal/crm/auth"
	"github.com/talentlane/crm/internal/crm/config"
	"github.com/talentlane/crm/internal/crm/controller"
	"github.com/talentlane/crm/internal/crm/db"
	"github.com/talentlane/crm/internal/crm/events"
	"github.com/talentlane/crm/internal/crm/handlers"
	"github.com/talentlane/crm/internal/crm/storage"
	"go.uber.org/zap"
)

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := config.Load(configPath())
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	producer, err := initProducer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	store, err := storage.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Fatal("failed to initialize file store", zap.Error(err))
	}
	resumes := storage.NewResumeService(store, storage.DocconvExtractor{}, logger)

	memberSvc := controller.NewMemberService(repo, resumes, producer, logger, controller.DeletePolicy(cfg.CVDeletePolicy))
	stageSvc := controller.NewStageService(repo, producer, logger)
	referralSvc := controller.NewReferralService(repo, producer, logger)
	authSvc := auth.NewService(repo, cfg.JWTSecret, logger)

	api := handlers.NewAPI(memberSvc, stageSvc, referralSvc, resumes, authSvc, logger)

	mux := http.NewServeMux()
	mux.Handle("/api/", auth.HTTPMiddleware(api.Routes(), cfg.JWTSecret))
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	server := handlers.NewServer(cfg.HTTPPort, logger)
	server.RegisterHandler(mux)
	if err := server.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join("internal", "crm", "config", "config.yaml")
}

// initDatabase connects with retries so the service survives the
// database coming up after it.
func initDatabase(cfg *config.Config) (*db.Repository, error) {
	dbConf := &db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}

	var repo *db.Repository
	err := backoff.Retry(func() error {
		var err error
		repo, err = db.NewRepository(dbConf)
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10))
	return repo, err
}

func initProducer(cfg *config.Config, logger *zap.Logger) (*events.Producer, error) {
	var producer *events.Producer
	err := backoff.Retry(func() error {
		var err error
		producer, err = events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10))
	return producer, err
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down servers.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Servers stopped properly")
}
