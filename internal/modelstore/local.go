package modelstore

import (
	"context"
	"errors"
	"os"

	"github.com/itemguard/moderation-api/internal/classifier"
	"github.com/itemguard/moderation-api/internal/logger"
)

// localStore loads the artifact from a single gob file. A missing or
// unreadable file is not an error: it triggers deterministic training.
type localStore struct {
	path string
	log  logger.Logger
}

func (s *localStore) Obtain(_ context.Context) (classifier.Artifact, error) {
	model, err := classifier.LoadFile(s.path)
	if err == nil {
		s.log.Info("Model loaded from local file", "path", s.path)
		return model, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		s.log.Info("Local model file not found, training new model", "path", s.path)
	} else {
		s.log.Warn("Local model file unreadable, training new model", "path", s.path, "error", err)
	}

	model = classifier.TrainSynthetic()

	if err := classifier.SaveFile(model, s.path); err != nil {
		// The freshly trained model is still usable; the next process
		// will just retrain.
		s.log.Warn("Failed to persist trained model", "path", s.path, "error", err)
	} else {
		s.log.Info("Trained model saved", "path", s.path)
	}

	return model, nil
}
