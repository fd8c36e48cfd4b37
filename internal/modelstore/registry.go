package modelstore

import (
	"context"
	"fmt"

	"github.com/itemguard/moderation-api/internal/classifier"
	"github.com/itemguard/moderation-api/internal/logger"
	"github.com/itemguard/moderation-api/internal/repository"
)

// registryStore loads the Production artifact from the model registry.
// When the registry has no Production version it trains, registers and
// promotes one, then re-reads through the registry so the served artifact
// always came from the registry read path. Registry errors fall back to
// the local store.
type registryStore struct {
	registry  repository.ModelRegistryRepository
	modelName string
	fallback  *localStore
	log       logger.Logger
}

func (s *registryStore) Obtain(ctx context.Context) (classifier.Artifact, error) {
	model, err := s.loadProduction(ctx)
	if err != nil {
		s.log.Error("Model registry unavailable, falling back to local storage", err)
		return s.fallback.Obtain(ctx)
	}
	if model != nil {
		s.log.Info("Model loaded from registry", "model", s.modelName)
		return model, nil
	}

	s.log.Info("No production model in registry, training and registering new one", "model", s.modelName)

	trained := classifier.TrainSynthetic()
	blob, err := classifier.Encode(trained)
	if err != nil {
		return nil, err
	}

	version, err := s.registry.CreateVersion(ctx, s.modelName, blob)
	if err != nil {
		s.log.Error("Failed to register trained model, falling back to local storage", err)
		return s.fallback.Obtain(ctx)
	}

	if err := s.registry.TransitionStage(ctx, s.modelName, version.Version, repository.StageProduction); err != nil {
		s.log.Error("Failed to promote trained model, falling back to local storage", err)
		return s.fallback.Obtain(ctx)
	}
	s.log.Info("Model version promoted to production", "model", s.modelName, "version", version.Version)

	model, err = s.loadProduction(ctx)
	if err != nil {
		s.log.Error("Registry re-read after promotion failed, falling back to local storage", err)
		return s.fallback.Obtain(ctx)
	}
	if model == nil {
		return nil, fmt.Errorf("promoted version %d of model %s is not visible in registry", version.Version, s.modelName)
	}

	return model, nil
}

// loadProduction reads the current Production artifact. (nil, nil) means
// no Production version exists.
func (s *registryStore) loadProduction(ctx context.Context) (*classifier.LogisticRegression, error) {
	mv, err := s.registry.GetLatestVersion(ctx, s.modelName, repository.StageProduction)
	if err != nil {
		return nil, err
	}
	if mv == nil {
		return nil, nil
	}
	return classifier.Decode(mv.Artifact)
}
