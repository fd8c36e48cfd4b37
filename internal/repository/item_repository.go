package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/itemguard/moderation-api/internal/models"
)

// psql builds Postgres-flavored ($1, $2, ...) queries
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// itemRepository implements ItemRepository
type itemRepository struct {
	db dbExecutor
}

// NewItemRepository creates a new item repository
func NewItemRepository(db dbExecutor) ItemRepository {
	return &itemRepository{db: db}
}

// GetItemWithSeller retrieves an item and its seller's verification status
func (r *itemRepository) GetItemWithSeller(ctx context.Context, itemID int64) (*models.Listing, error) {
	query, args, err := psql.
		Select(
			"i.id", "i.name", "i.description", "i.category", "i.images_qty",
			"u.id", "u.is_verified_seller",
		).
		From("items i").
		Join("users u ON i.seller_id = u.id").
		Where(sq.Eq{"i.id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item query: %w", err)
	}

	var (
		listing     models.Listing
		description sql.NullString
		category    sql.NullInt64
		imagesQty   sql.NullInt64
	)

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&listing.ItemID, &listing.Name, &description, &category, &imagesQty,
		&listing.SellerID, &listing.IsVerifiedSeller,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item %d: %w", itemID, err)
	}

	listing.Description = description.String
	listing.Category = category.Int64
	listing.ImagesQty = imagesQty.Int64

	return &listing, nil
}
