package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// modelRegistryRepository implements ModelRegistryRepository on Postgres.
// Stage transitions use a transaction so the single-Production invariant
// holds even under concurrent registration.
type modelRegistryRepository struct {
	db *sql.DB
}

// NewModelRegistryRepository creates a new model registry repository
func NewModelRegistryRepository(db *sql.DB) ModelRegistryRepository {
	return &modelRegistryRepository{db: db}
}

// GetLatestVersion retrieves the newest version of a model in a stage
func (r *modelRegistryRepository) GetLatestVersion(ctx context.Context, modelName, stage string) (*ModelVersion, error) {
	query, args, err := psql.
		Select("id", "model_name", "version", "stage", "artifact", "created_at").
		From("model_versions").
		Where(sq.Eq{"model_name": modelName, "stage": stage}).
		OrderBy("version DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build registry query: %w", err)
	}

	mv := &ModelVersion{}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&mv.ID, &mv.ModelName, &mv.Version, &mv.Stage, &mv.Artifact, &mv.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s version of model %s: %w", stage, modelName, err)
	}

	return mv, nil
}

// CreateVersion registers a new artifact under the next version number
func (r *modelRegistryRepository) CreateVersion(ctx context.Context, modelName string, artifact []byte) (*ModelVersion, error) {
	mv := &ModelVersion{
		ID:        uuid.New(),
		ModelName: modelName,
		Stage:     StageNone,
		Artifact:  artifact,
		CreatedAt: time.Now(),
	}

	// The subselect assigns the next version number atomically with the insert
	query := `
		INSERT INTO model_versions (id, model_name, version, stage, artifact, created_at)
		SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3, $4, $5
		FROM model_versions WHERE model_name = $2
		RETURNING version
	`

	err := r.db.QueryRowContext(ctx, query,
		mv.ID, mv.ModelName, mv.Stage, mv.Artifact, mv.CreatedAt,
	).Scan(&mv.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to register version of model %s: %w", modelName, err)
	}

	return mv, nil
}

// TransitionStage moves a version into a stage, demoting the current
// Production version when promoting
func (r *modelRegistryRepository) TransitionStage(ctx context.Context, modelName string, version int, stage string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if stage == StageProduction {
		demote, args, err := psql.
			Update("model_versions").
			Set("stage", StageNone).
			Where(sq.Eq{"model_name": modelName, "stage": StageProduction}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build demote query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, demote, args...); err != nil {
			return fmt.Errorf("failed to demote current production version: %w", err)
		}
	}

	promote, args, err := psql.
		Update("model_versions").
		Set("stage", stage).
		Where(sq.Eq{"model_name": modelName, "version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build promote query: %w", err)
	}

	result, err := tx.ExecContext(ctx, promote, args...)
	if err != nil {
		return fmt.Errorf("failed to transition model %s version %d to %s: %w", modelName, version, stage, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check transition result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("model %s version %d not found", modelName, version)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stage transition: %w", err)
	}

	return nil
}
