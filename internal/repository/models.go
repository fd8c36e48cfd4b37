package repository

import (
	"time"

	"github.com/google/uuid"
)

// Model lifecycle stages. Exactly one version per model name may hold
// StageProduction at a time.
const (
	StageNone       = "None"
	StageProduction = "Production"
)

// ModelVersion is one registered artifact in the model registry
type ModelVersion struct {
	ID        uuid.UUID `json:"id"`
	ModelName string    `json:"model_name"`
	Version   int       `json:"version"`
	Stage     string    `json:"stage"`
	Artifact  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
