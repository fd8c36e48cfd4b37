package services

import (
	"context"

	"github.com/itemguard/moderation-api/internal/errors"
	"github.com/itemguard/moderation-api/internal/logger"
	"github.com/itemguard/moderation-api/internal/models"
	"github.com/itemguard/moderation-api/internal/repository"
)

// lookupService implements ItemLookupService over the item repository
type lookupService struct {
	items  repository.ItemRepository
	logger logger.Logger
}

func newLookupService(items repository.ItemRepository, log logger.Logger) ItemLookupService {
	return &lookupService{
		items:  items,
		logger: log,
	}
}

// Resolve materializes a listing from the persistent store. Absence is not
// an error; store failures are logged here with the item id and surface as
// DATABASE_ERROR.
func (s *lookupService) Resolve(ctx context.Context, itemID int64) (*models.Listing, error) {
	listing, err := s.items.GetItemWithSeller(ctx, itemID)
	if err != nil {
		s.logger.Error("Item lookup failed", err, "item_id", itemID)
		return nil, errors.DatabaseError("item lookup failed", err).WithOperation("Resolve")
	}
	return listing, nil
}
