package classifier

import "github.com/itemguard/moderation-api/internal/models"

// Approved applies the original rule-based moderation check that predates
// the trained model: verified sellers are always approved, everyone else
// needs at least one image.
func Approved(l models.Listing) bool {
	if l.IsVerifiedSeller {
		return true
	}
	return l.ImagesQty > 0
}
