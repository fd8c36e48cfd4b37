package models

// Listing represents a candidate item submitted for moderation. All field
// constraints are enforced at the API boundary; a Listing value inside the
// pipeline is always valid.
type Listing struct {
	SellerID         int64  `json:"seller_id"`
	IsVerifiedSeller bool   `json:"is_verified_seller"`
	ItemID           int64  `json:"item_id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Category         int64  `json:"category"`
	ImagesQty        int64  `json:"images_qty"`
}

// Decision is the result of scoring a listing. Probability is the likelihood
// of the positive (violation) class.
type Decision struct {
	IsViolation bool    `json:"is_violation"`
	Probability float64 `json:"probability"`
}

// FieldError describes a single validation failure in a request body or
// query string. Loc is the path to the offending field, Type a symbolic
// constraint kind clients can branch on.
type FieldError struct {
	Loc  []string `json:"loc"`
	Type string   `json:"type"`
}
