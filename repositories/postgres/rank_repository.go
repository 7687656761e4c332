package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RankRepository implements the repositories.RankRepository interface
type RankRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewRankRepository creates a new taxi rank repository
func NewRankRepository(db *DB, logger *zap.Logger) repositories.RankRepository {
	return &RankRepository{
		db:     db,
		logger: logger,
	}
}

const rankColumns = `id, name, address, latitude, longitude, capacity, aisles, fares, created_at, updated_at`

func scanRank(row interface{ Scan(...interface{}) error }) (*models.TaxiRank, error) {
	rank := &models.TaxiRank{}
	err := row.Scan(
		&rank.ID,
		&rank.Name,
		&rank.Address,
		&rank.Latitude,
		&rank.Longitude,
		&rank.Capacity,
		&rank.Aisles,
		&rank.Fares,
		&rank.CreatedAt,
		&rank.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rank, nil
}

// Create creates a new rank
func (r *RankRepository) Create(ctx context.Context, rank *models.TaxiRank) error {
	query := `
		INSERT INTO taxi_ranks (` + rankColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		rank.ID,
		rank.Name,
		rank.Address,
		rank.Latitude,
		rank.Longitude,
		rank.Capacity,
		rank.Aisles,
		rank.Fares,
		rank.CreatedAt,
		rank.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create taxi rank: %w", err)
	}

	r.logger.Debug("taxi rank created", zap.String("id", rank.ID.String()), zap.String("name", rank.Name))
	return nil
}

// GetByID retrieves a rank by ID
func (r *RankRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TaxiRank, error) {
	query := `SELECT ` + rankColumns + ` FROM taxi_ranks WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	rank, err := scanRank(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("taxi rank %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get taxi rank: %w", err)
	}

	return rank, nil
}

// GetByName retrieves a rank by its display name
func (r *RankRepository) GetByName(ctx context.Context, name string) (*models.TaxiRank, error) {
	query := `SELECT ` + rankColumns + ` FROM taxi_ranks WHERE name = $1`

	executor := GetExecutor(ctx, r.db)
	rank, err := scanRank(executor.QueryRowContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("taxi rank %q: %w", name, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get taxi rank: %w", err)
	}

	return rank, nil
}

// List retrieves all ranks, optionally filtered by a search term matching
// the name or address
func (r *RankRepository) List(ctx context.Context, search string) ([]*models.TaxiRank, error) {
	query := `SELECT ` + rankColumns + ` FROM taxi_ranks`
	var args []interface{}
	if search != "" {
		query += ` WHERE name ILIKE $1 OR address ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name ASC`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query taxi ranks: %w", err)
	}
	defer rows.Close()

	var ranks []*models.TaxiRank
	for rows.Next() {
		rank, err := scanRank(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan taxi rank: %w", err)
		}
		ranks = append(ranks, rank)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating taxi rank rows: %w", err)
	}

	return ranks, nil
}

// Update updates a rank
func (r *RankRepository) Update(ctx context.Context, rank *models.TaxiRank) error {
	query := `
		UPDATE taxi_ranks
		SET name = $2,
		    address = $3,
		    latitude = $4,
		    longitude = $5,
		    capacity = $6,
		    aisles = $7,
		    fares = $8,
		    updated_at = $9
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		rank.ID,
		rank.Name,
		rank.Address,
		rank.Latitude,
		rank.Longitude,
		rank.Capacity,
		rank.Aisles,
		rank.Fares,
		rank.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update taxi rank: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("taxi rank %s: %w", rank.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("taxi rank updated", zap.String("id", rank.ID.String()))
	return nil
}

// Delete deletes a rank
func (r *RankRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM taxi_ranks WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete taxi rank: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("taxi rank %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("taxi rank deleted", zap.String("id", id.String()))
	return nil
}
