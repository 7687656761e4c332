package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MeetingRepository implements the repositories.MeetingRepository interface
type MeetingRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *DB, logger *zap.Logger) repositories.MeetingRepository {
	return &MeetingRepository{
		db:     db,
		logger: logger,
	}
}

const meetingColumns = `id, rank_id, title, agenda, scheduled_for, created_by, created_at, updated_at`

func scanMeeting(row interface{ Scan(...interface{}) error }) (*models.Meeting, error) {
	meeting := &models.Meeting{}
	err := row.Scan(
		&meeting.ID,
		&meeting.RankID,
		&meeting.Title,
		&meeting.Agenda,
		&meeting.ScheduledFor,
		&meeting.CreatedBy,
		&meeting.CreatedAt,
		&meeting.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

// Create creates a new meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	query := `
		INSERT INTO meetings (` + meetingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		meeting.ID,
		meeting.RankID,
		meeting.Title,
		meeting.Agenda,
		meeting.ScheduledFor,
		meeting.CreatedBy,
		meeting.CreatedAt,
		meeting.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}

	r.logger.Debug("meeting created", zap.String("id", meeting.ID.String()))
	return nil
}

// GetByID retrieves a meeting by ID
func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	meeting, err := scanMeeting(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("meeting %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}

	return meeting, nil
}

// List retrieves meetings visible within the scope
func (r *MeetingRepository) List(ctx context.Context, scope authz.Scope) ([]*models.Meeting, error) {
	if scope.Kind == authz.ScopeNone {
		return []*models.Meeting{}, nil
	}

	query := `SELECT ` + meetingColumns + ` FROM meetings`
	var args []interface{}
	if scope.Kind == authz.ScopeRank {
		query += ` WHERE rank_id = $1`
		args = append(args, scope.RankID)
	}
	query += ` ORDER BY scheduled_for ASC`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*models.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, meeting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meeting rows: %w", err)
	}

	return meetings, nil
}

// Update updates a meeting
func (r *MeetingRepository) Update(ctx context.Context, meeting *models.Meeting) error {
	query := `
		UPDATE meetings
		SET title = $2,
		    agenda = $3,
		    scheduled_for = $4,
		    updated_at = $5
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		meeting.ID,
		meeting.Title,
		meeting.Agenda,
		meeting.ScheduledFor,
		meeting.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("meeting %s: %w", meeting.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("meeting updated", zap.String("id", meeting.ID.String()))
	return nil
}

// Delete deletes a meeting
func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM meetings WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("meeting %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("meeting deleted", zap.String("id", id.String()))
	return nil
}
