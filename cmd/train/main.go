// Command train builds the moderation model offline and stores it where the
// server will find it: the local model file, or the registry (registered and
// promoted to Production) when USE_MODEL_REGISTRY is set.
package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/itemguard/moderation-api/internal/classifier"
	"github.com/itemguard/moderation-api/internal/database"
	"github.com/itemguard/moderation-api/internal/logger"
	"github.com/itemguard/moderation-api/internal/repository"
	"github.com/itemguard/moderation-api/pkg/config"
)

func main() {
	log := logger.NewStdLogger()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}

	cfg := config.New()

	model := classifier.TrainSynthetic()
	log.Info("Model trained on synthetic data")

	if !cfg.UseModelRegistry {
		if err := classifier.SaveFile(model, cfg.ModelPath); err != nil {
			log.Fatal("Failed to save model", err)
		}
		log.Info("Model saved", "path", cfg.ModelPath)
		return
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to run migrations", err)
	}

	blob, err := classifier.Encode(model)
	if err != nil {
		log.Fatal("Failed to encode model", err)
	}

	ctx := context.Background()
	registry := repository.NewModelRegistryRepository(db.DB)

	version, err := registry.CreateVersion(ctx, cfg.ModelName, blob)
	if err != nil {
		log.Fatal("Failed to register model version", err)
	}

	if err := registry.TransitionStage(ctx, cfg.ModelName, version.Version, repository.StageProduction); err != nil {
		log.Fatal("Failed to promote model version", err)
	}

	log.Info("Model registered and promoted to production",
		"model", cfg.ModelName, "version", version.Version)
}
