package services

import (
	"context"

	"github.com/itemguard/moderation-api/internal/classifier"
	"github.com/itemguard/moderation-api/internal/logger"
	"github.com/itemguard/moderation-api/internal/models"
	"github.com/itemguard/moderation-api/internal/repository"
)

// Services contains all application services
type Services struct {
	Prediction PredictionService
	Approval   ApprovalService
	Lookup     ItemLookupService
}

// PredictionService defines the interface for classifier-backed moderation
type PredictionService interface {
	// Available reports whether a scoring artifact is loaded. Callers
	// must check this before Predict; invoking without an artifact is a
	// programming error, not a recoverable input error.
	Available() bool
	Predict(listing models.Listing) (models.Decision, error)
}

// ApprovalService defines the interface for the legacy rule-based check
type ApprovalService interface {
	Approve(listing models.Listing) bool
}

// ItemLookupService defines the interface for resolving listings by id
type ItemLookupService interface {
	// Resolve returns (nil, nil) when the item does not exist.
	Resolve(ctx context.Context, itemID int64) (*models.Listing, error)
}

// New creates a new Services instance with all dependencies. A nil artifact
// is valid: the prediction service reports unavailable until the process is
// restarted with a loadable model.
func New(repos *repository.Repositories, artifact classifier.Artifact, log logger.Logger) *Services {
	return &Services{
		Prediction: newPredictionService(artifact),
		Approval:   newApprovalService(),
		Lookup:     newLookupService(repos.Items, log),
	}
}
