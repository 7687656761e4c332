package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoadRepository implements the repositories.LoadRepository interface
type LoadRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewLoadRepository creates a new load repository
func NewLoadRepository(db *DB, logger *zap.Logger) repositories.LoadRepository {
	return &LoadRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends a new load event
func (r *LoadRepository) Insert(ctx context.Context, load *models.Load) error {
	query := `
		INSERT INTO loads (id, taxi_id, rank_id, recorded_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		load.ID,
		load.TaxiID,
		load.RankID,
		load.RecordedBy,
		load.RecordedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert load: %w", err)
	}

	r.logger.Debug("load recorded",
		zap.String("id", load.ID.String()),
		zap.String("taxi_id", load.TaxiID.String()))
	return nil
}

// List retrieves load events visible within the scope, newest first
func (r *LoadRepository) List(ctx context.Context, scope authz.Scope, limit, offset int) ([]*models.Load, error) {
	if scope.Kind == authz.ScopeNone {
		return []*models.Load{}, nil
	}
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, taxi_id, rank_id, recorded_by, recorded_at FROM loads`
	args := []interface{}{}
	if scope.Kind == authz.ScopeRank {
		query += ` WHERE rank_id = $1`
		args = append(args, scope.RankID)
	}
	query += fmt.Sprintf(` ORDER BY recorded_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query loads: %w", err)
	}
	defer rows.Close()

	var loads []*models.Load
	for rows.Next() {
		load := &models.Load{}
		err := rows.Scan(
			&load.ID,
			&load.TaxiID,
			&load.RankID,
			&load.RecordedBy,
			&load.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load: %w", err)
		}
		loads = append(loads, load)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating load rows: %w", err)
	}

	return loads, nil
}

// CountSince counts loads for a rank recorded at or after the given time
func (r *LoadRepository) CountSince(ctx context.Context, rankID *uuid.UUID, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM loads WHERE recorded_at >= $1`
	args := []interface{}{since}
	if rankID != nil {
		query += ` AND rank_id = $2`
		args = append(args, *rankID)
	}

	executor := GetExecutor(ctx, r.db)
	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count loads: %w", err)
	}
	return count, nil
}
