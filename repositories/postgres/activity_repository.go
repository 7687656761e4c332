package postgres

import (
	"context"
	"fmt"

	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
	"go.uber.org/zap"
)

// ActivityRepository implements the repositories.ActivityRepository interface
type ActivityRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewActivityRepository creates a new activity log repository
func NewActivityRepository(db *DB, logger *zap.Logger) repositories.ActivityRepository {
	return &ActivityRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends a new activity log entry
func (r *ActivityRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, actor_id, action, target_type, target_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.Action,
		entry.TargetType,
		entry.TargetID,
		entry.Details,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}

	r.logger.Debug("activity logged",
		zap.String("action", string(entry.Action)),
		zap.String("actor_id", entry.ActorID.String()))
	return nil
}

// List retrieves activity log entries, newest first
func (r *ActivityRepository) List(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, actor_id, action, target_type, target_id, details, created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.ActivityLog
	for rows.Next() {
		entry := &models.ActivityLog{}
		err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.TargetType,
			&entry.TargetID,
			&entry.Details,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity log rows: %w", err)
	}

	return entries, nil
}
