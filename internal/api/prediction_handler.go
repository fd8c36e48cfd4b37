package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/itemguard/moderation-api/internal/errors"
	"github.com/itemguard/moderation-api/internal/logger"
	"github.com/itemguard/moderation-api/internal/models"
	"github.com/itemguard/moderation-api/internal/services"
)

const (
	detailModelUnavailable = "Model is not currently loaded."
	detailInternalError    = "Internal server error."
)

// HealthChecker reports whether the persistent store is reachable
type HealthChecker interface {
	HealthCheck() error
}

// listingRequest is the wire form of a listing. Pointer fields distinguish
// "missing" from zero values so validation can report the right kind.
type listingRequest struct {
	SellerID         *int64  `json:"seller_id" binding:"required,gt=0"`
	IsVerifiedSeller *bool   `json:"is_verified_seller" binding:"required"`
	ItemID           *int64  `json:"item_id" binding:"required,gt=0"`
	Name             *string `json:"name" binding:"required,min=1,max=100"`
	Description      *string `json:"description" binding:"required,max=1000"`
	Category         *int64  `json:"category" binding:"required,gt=0"`
	ImagesQty        *int64  `json:"images_qty" binding:"required,gte=0"`
}

// toListing converts a validated request into the immutable pipeline record
func (r *listingRequest) toListing() models.Listing {
	return models.Listing{
		SellerID:         *r.SellerID,
		IsVerifiedSeller: *r.IsVerifiedSeller,
		ItemID:           *r.ItemID,
		Name:             *r.Name,
		Description:      *r.Description,
		Category:         *r.Category,
		ImagesQty:        *r.ImagesQty,
	}
}

// PredictionHandler handles moderation requests
type PredictionHandler struct {
	services *services.Services
	db       HealthChecker
	logger   logger.Logger
}

// NewPredictionHandler creates a new prediction handler with service injection
func NewPredictionHandler(svcs *services.Services, db HealthChecker, log logger.Logger) *PredictionHandler {
	return &PredictionHandler{
		services: svcs,
		db:       db,
		logger:   log,
	}
}

// Root returns the service greeting
func (h *PredictionHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
}

// Health reports readiness of the model and the database
func (h *PredictionHandler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"

	if h.db == nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	} else if err := h.db.HealthCheck(); err != nil {
		h.logger.Error("Database health check failed", err)
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":       statusWord(status),
		"model_loaded": h.services.Prediction.Available(),
		"database":     dbStatus,
	})
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "ok"
	}
	return "degraded"
}

// Predict scores a listing supplied in the request body
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": translateBindingError(err)})
		return
	}

	h.predictListing(c, req.toListing())
}

// SimplePredict resolves a listing by id and scores it. The availability
// check runs before the lookup so an unloaded model fails fast without a
// database round trip.
func (h *PredictionHandler) SimplePredict(c *gin.Context) {
	itemID, fieldErr := parseItemID(c.Query("item_id"))
	if fieldErr != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []models.FieldError{*fieldErr}})
		return
	}

	if !h.services.Prediction.Available() {
		h.logger.Error("Model is not available", nil, "path", c.FullPath(), "item_id", itemID)
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": detailModelUnavailable})
		return
	}

	listing, err := h.services.Lookup.Resolve(c.Request.Context(), itemID)
	if err != nil {
		// The lookup service already logged the store failure with the
		// item id; translate it into the opaque 500 contract.
		c.JSON(apperrors.HTTPStatus(err), gin.H{"detail": detailInternalError})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Item %d not found.", itemID)})
		return
	}

	h.predictListing(c, *listing)
}

// Approve applies the legacy rule-based check to a listing body
func (h *PredictionHandler) Approve(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": translateBindingError(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": h.services.Approval.Approve(req.toListing())})
}

// predictListing runs the shared availability-check/predict/respond tail of
// both scoring paths
func (h *PredictionHandler) predictListing(c *gin.Context, listing models.Listing) {
	if !h.services.Prediction.Available() {
		h.logger.Error("Model is not available", nil, "path", c.FullPath(), "item_id", listing.ItemID)
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": detailModelUnavailable})
		return
	}

	decision, err := h.services.Prediction.Predict(listing)
	if err != nil {
		h.logger.Error("Prediction failed", err,
			"path", c.FullPath(), "seller_id", listing.SellerID, "item_id", listing.ItemID)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": detailInternalError})
		return
	}

	c.JSON(http.StatusOK, decision)
}
