package api

import (
	"github.com/gin-gonic/gin"

	"github.com/itemguard/moderation-api/internal/logger"
	"github.com/itemguard/moderation-api/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, svcs *services.Services, db HealthChecker, log logger.Logger) {
	registerValidatorTagNames()

	handler := NewPredictionHandler(svcs, db, log)

	r.GET("/", handler.Root)
	r.GET("/health", handler.Health)
	r.POST("/predict", handler.Predict)
	r.POST("/simple_predict", handler.SimplePredict)
	r.POST("/approve", handler.Approve)
}
