// Package modelstore loads the trained moderation artifact from one of two
// backends: a local gob file or the Postgres model registry. The backend is
// chosen once at startup; registry failures degrade to local-file behavior.
package modelstore

import (
	"context"

	"github.com/itemguard/moderation-api/internal/classifier"
	"github.com/itemguard/moderation-api/internal/logger"
	"github.com/itemguard/moderation-api/internal/repository"
	"github.com/itemguard/moderation-api/pkg/config"
)

// Store obtains a ready-to-serve scoring artifact, training one on demand
// when no stored artifact exists
type Store interface {
	Obtain(ctx context.Context) (classifier.Artifact, error)
}

// New selects the store backend from configuration
func New(cfg *config.Config, registry repository.ModelRegistryRepository, log logger.Logger) Store {
	local := &localStore{path: cfg.ModelPath, log: log}

	if cfg.UseModelRegistry {
		log.Info("Using model registry", "model", cfg.ModelName)
		return &registryStore{
			registry:  registry,
			modelName: cfg.ModelName,
			fallback:  local,
			log:       log,
		}
	}

	log.Info("Using local model storage", "path", cfg.ModelPath)
	return local
}
