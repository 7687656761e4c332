package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MarshalRepository implements the repositories.MarshalRepository interface
type MarshalRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMarshalRepository creates a new marshal profile repository
func NewMarshalRepository(db *DB, logger *zap.Logger) repositories.MarshalRepository {
	return &MarshalRepository{
		db:     db,
		logger: logger,
	}
}

const marshalColumns = `id, email, name, phone, role, rank_id, approved, suspended, login_count, last_login_at, created_at, updated_at`

func scanMarshal(row interface{ Scan(...interface{}) error }) (*models.Marshal, error) {
	m := &models.Marshal{}
	err := row.Scan(
		&m.ID,
		&m.Email,
		&m.Name,
		&m.Phone,
		&m.Role,
		&m.RankID,
		&m.Approved,
		&m.Suspended,
		&m.LoginCount,
		&m.LastLoginAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create creates a new profile
func (r *MarshalRepository) Create(ctx context.Context, m *models.Marshal) error {
	query := `
		INSERT INTO marshals (` + marshalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		m.ID,
		m.Email,
		m.Name,
		m.Phone,
		m.Role,
		m.RankID,
		m.Approved,
		m.Suspended,
		m.LoginCount,
		m.LastLoginAt,
		m.CreatedAt,
		m.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create marshal profile: %w", err)
	}

	r.logger.Debug("marshal profile created", zap.String("id", m.ID.String()), zap.String("email", m.Email))
	return nil
}

// GetByID retrieves a profile by ID
func (r *MarshalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Marshal, error) {
	query := `SELECT ` + marshalColumns + ` FROM marshals WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	m, err := scanMarshal(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("marshal profile %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get marshal profile: %w", err)
	}

	return m, nil
}

// GetByEmail retrieves a profile by email
func (r *MarshalRepository) GetByEmail(ctx context.Context, email string) (*models.Marshal, error) {
	query := `SELECT ` + marshalColumns + ` FROM marshals WHERE email = $1`

	executor := GetExecutor(ctx, r.db)
	m, err := scanMarshal(executor.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("marshal profile for %s: %w", email, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get marshal profile: %w", err)
	}

	return m, nil
}

// List retrieves approved profiles visible within the scope
func (r *MarshalRepository) List(ctx context.Context, scope authz.Scope) ([]*models.Marshal, error) {
	if scope.Kind == authz.ScopeNone {
		return []*models.Marshal{}, nil
	}

	query := `SELECT ` + marshalColumns + ` FROM marshals WHERE approved = true`
	var args []interface{}
	if scope.Kind == authz.ScopeRank {
		query += ` AND rank_id = $1`
		args = append(args, scope.RankID)
	}
	query += ` ORDER BY created_at DESC`

	return r.queryMarshals(ctx, query, args...)
}

// ListPending retrieves profiles awaiting approval
func (r *MarshalRepository) ListPending(ctx context.Context) ([]*models.Marshal, error) {
	query := `SELECT ` + marshalColumns + ` FROM marshals WHERE approved = false ORDER BY created_at ASC`
	return r.queryMarshals(ctx, query)
}

func (r *MarshalRepository) queryMarshals(ctx context.Context, query string, args ...interface{}) ([]*models.Marshal, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query marshal profiles: %w", err)
	}
	defer rows.Close()

	var marshals []*models.Marshal
	for rows.Next() {
		m, err := scanMarshal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan marshal profile: %w", err)
		}
		marshals = append(marshals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating marshal rows: %w", err)
	}

	return marshals, nil
}

// Update updates a profile
func (r *MarshalRepository) Update(ctx context.Context, m *models.Marshal) error {
	query := `
		UPDATE marshals
		SET name = $2,
		    phone = $3,
		    role = $4,
		    rank_id = $5,
		    approved = $6,
		    suspended = $7,
		    updated_at = $8
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		m.ID,
		m.Name,
		m.Phone,
		m.Role,
		m.RankID,
		m.Approved,
		m.Suspended,
		m.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update marshal profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("marshal profile %s: %w", m.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("marshal profile updated", zap.String("id", m.ID.String()))
	return nil
}

// Delete deletes a profile
func (r *MarshalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM marshals WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete marshal profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("marshal profile %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("marshal profile deleted", zap.String("id", id.String()))
	return nil
}

// CountActiveAdmins counts approved, unsuspended admin profiles
func (r *MarshalRepository) CountActiveAdmins(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM marshals WHERE role = $1 AND approved = true AND suspended = false`

	executor := GetExecutor(ctx, r.db)
	var count int
	if err := executor.QueryRowContext(ctx, query, models.RoleAdmin).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

// RecordLogin bumps the login counter and last-login timestamp
func (r *MarshalRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE marshals
		SET login_count = login_count + 1,
		    last_login_at = $2
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}
