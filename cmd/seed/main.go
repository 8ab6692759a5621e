// Command seed provisions a fresh database with the default pipeline
// stages and an initial staff account.
package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/talentlane/crm/internal/crm/auth"
	"github.com/talentlane/crm/internal/crm/config"
	"github.com/talentlane/crm/internal/crm/db"
	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/models"
	"go.uber.org/zap"
)

var defaultStages = []string{"Intake", "Qualified", "Referred", "Hired"}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load(configPath())
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(&db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	ctx := context.Background()
	seedStages(ctx, repo, logger)
	seedAdmin(ctx, repo, logger)
	logger.Info("seed complete")
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join("internal", "crm", "config", "config.yaml")
}

func seedStages(ctx context.Context, repo *db.Repository, logger *zap.Logger) {
	for i, name := range defaultStages {
		stage := &models.Stage{
			ID:    models.Slugify(name),
			Name:  name,
			Order: i + 1,
		}
		err := repo.CreateStage(ctx, stage)
		switch {
		case errors.Is(err, e.ErrDuplicateStage):
			logger.Info("stage already present", zap.String("stage", stage.ID))
		case err != nil:
			logger.Fatal("failed to create stage", zap.String("stage", stage.ID), zap.Error(err))
		default:
			logger.Info("stage created", zap.String("stage", stage.ID))
		}
	}
}

func seedAdmin(ctx context.Context, repo *db.Repository, logger *zap.Logger) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin user")
		return
	}

	if _, err := repo.GetUserByEmail(ctx, email); err == nil {
		logger.Info("admin user already present", zap.String("email", email))
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Fatal("failed to hash password", zap.Error(err))
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Admin",
		PasswordHash: hash,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		logger.Fatal("failed to create admin user", zap.Error(err))
	}
	logger.Info("admin user created", zap.String("email", email))
}
