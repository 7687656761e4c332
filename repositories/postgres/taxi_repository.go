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

// TaxiRepository implements the repositories.TaxiRepository interface
type TaxiRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTaxiRepository creates a new taxi repository
func NewTaxiRepository(db *DB, logger *zap.Logger) repositories.TaxiRepository {
	return &TaxiRepository{
		db:     db,
		logger: logger,
	}
}

const taxiColumns = `id, registration, driver_name, driver_phone, rank_id, aisle_number, paid_until, total_loads, created_at, updated_at`

func scanTaxi(row interface{ Scan(...interface{}) error }) (*models.Taxi, error) {
	taxi := &models.Taxi{}
	err := row.Scan(
		&taxi.ID,
		&taxi.Registration,
		&taxi.DriverName,
		&taxi.DriverPhone,
		&taxi.RankID,
		&taxi.AisleNumber,
		&taxi.PaidUntil,
		&taxi.TotalLoads,
		&taxi.CreatedAt,
		&taxi.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return taxi, nil
}

// Create creates a new taxi
func (r *TaxiRepository) Create(ctx context.Context, taxi *models.Taxi) error {
	query := `
		INSERT INTO taxis (` + taxiColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		taxi.ID,
		taxi.Registration,
		taxi.DriverName,
		taxi.DriverPhone,
		taxi.RankID,
		taxi.AisleNumber,
		taxi.PaidUntil,
		taxi.TotalLoads,
		taxi.CreatedAt,
		taxi.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create taxi: %w", err)
	}

	r.logger.Debug("taxi created", zap.String("id", taxi.ID.String()), zap.String("registration", taxi.Registration))
	return nil
}

// GetByID retrieves a taxi by ID
func (r *TaxiRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Taxi, error) {
	query := `SELECT ` + taxiColumns + ` FROM taxis WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	taxi, err := scanTaxi(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("taxi %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get taxi: %w", err)
	}

	return taxi, nil
}

// GetByRegistration retrieves a taxi by registration plate
func (r *TaxiRepository) GetByRegistration(ctx context.Context, registration string) (*models.Taxi, error) {
	query := `SELECT ` + taxiColumns + ` FROM taxis WHERE registration = $1`

	executor := GetExecutor(ctx, r.db)
	taxi, err := scanTaxi(executor.QueryRowContext(ctx, query, registration))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("taxi %q: %w", registration, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get taxi: %w", err)
	}

	return taxi, nil
}

// List retrieves taxis visible within the scope
func (r *TaxiRepository) List(ctx context.Context, scope authz.Scope) ([]*models.Taxi, error) {
	if scope.Kind == authz.ScopeNone {
		return []*models.Taxi{}, nil
	}

	query := `SELECT ` + taxiColumns + ` FROM taxis`
	var args []interface{}
	if scope.Kind == authz.ScopeRank {
		query += ` WHERE rank_id = $1`
		args = append(args, scope.RankID)
	}
	query += ` ORDER BY registration ASC`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query taxis: %w", err)
	}
	defer rows.Close()

	var taxis []*models.Taxi
	for rows.Next() {
		taxi, err := scanTaxi(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan taxi: %w", err)
		}
		taxis = append(taxis, taxi)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating taxi rows: %w", err)
	}

	return taxis, nil
}

// Update updates a taxi
func (r *TaxiRepository) Update(ctx context.Context, taxi *models.Taxi) error {
	query := `
		UPDATE taxis
		SET registration = $2,
		    driver_name = $3,
		    driver_phone = $4,
		    rank_id = $5,
		    aisle_number = $6,
		    updated_at = $7
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		taxi.ID,
		taxi.Registration,
		taxi.DriverName,
		taxi.DriverPhone,
		taxi.RankID,
		taxi.AisleNumber,
		taxi.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update taxi: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("taxi %s: %w", taxi.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("taxi updated", zap.String("id", taxi.ID.String()))
	return nil
}

// Delete deletes a taxi
func (r *TaxiRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM taxis WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete taxi: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("taxi %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("taxi deleted", zap.String("id", id.String()))
	return nil
}

// IncrementLoads atomically bumps the taxi's load counter in the database.
// Concurrent increments never lose updates because the arithmetic happens
// inside the UPDATE rather than on a stale client-side read.
func (r *TaxiRepository) IncrementLoads(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE taxis
		SET total_loads = total_loads + 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment loads: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("taxi %s: %w", id, repositories.ErrNotFound)
	}

	return nil
}

// AdvancePaidUntil moves the paid-until projection forward to the given month
// start. A payment for an already-covered month leaves the projection alone.
func (r *TaxiRepository) AdvancePaidUntil(ctx context.Context, id uuid.UUID, monthStart time.Time) error {
	query := `
		UPDATE taxis
		SET paid_until = GREATEST(COALESCE(paid_until, $2), $2),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, monthStart)
	if err != nil {
		return fmt.Errorf("failed to advance paid-until: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("taxi %s: %w", id, repositories.ErrNotFound)
	}

	return nil
}
