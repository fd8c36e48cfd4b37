package services

import (
	"github.com/itemguard/moderation-api/internal/classifier"
	"github.com/itemguard/moderation-api/internal/errors"
	"github.com/itemguard/moderation-api/internal/models"
)

// predictionService implements PredictionService around a loaded artifact.
// The artifact is read-only after construction, so concurrent Predict calls
// need no synchronization.
type predictionService struct {
	artifact classifier.Artifact
}

// newPredictionService creates a new prediction service implementation
func newPredictionService(artifact classifier.Artifact) PredictionService {
	return &predictionService{
		artifact: artifact,
	}
}

// Available reports whether a scoring artifact is loaded
func (s *predictionService) Available() bool {
	return s.artifact != nil
}

// Predict converts a listing into the fixed feature vector and runs the
// artifact's decision function. Inference errors propagate unchanged; the
// caller owns their translation into an HTTP outcome.
func (s *predictionService) Predict(listing models.Listing) (models.Decision, error) {
	if s.artifact == nil {
		return models.Decision{}, errors.ServiceUnavailable("model is not loaded", nil).WithOperation("Predict")
	}

	features := classifier.FeatureVector(listing)

	label, probability, err := s.artifact.Decide(features)
	if err != nil {
		return models.Decision{}, err
	}

	return models.Decision{
		IsViolation: label == 1,
		Probability: probability,
	}, nil
}
