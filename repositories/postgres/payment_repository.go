package postgres

import (
	"context"
	"fmt"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentRepository implements the repositories.PaymentRepository interface
type PaymentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *DB, logger *zap.Logger) repositories.PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends a new payment event
func (r *PaymentRepository) Insert(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, taxi_id, amount, month, year, method, recorded_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		payment.ID,
		payment.TaxiID,
		payment.Amount,
		payment.Month,
		payment.Year,
		payment.Method,
		payment.RecordedBy,
		payment.RecordedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	r.logger.Debug("payment recorded",
		zap.String("id", payment.ID.String()),
		zap.String("taxi_id", payment.TaxiID.String()),
		zap.Float64("amount", payment.Amount))
	return nil
}

// List retrieves payment events visible within the scope, newest first.
// The scope restriction joins through the taxi's rank assignment.
func (r *PaymentRepository) List(ctx context.Context, scope authz.Scope, limit, offset int) ([]*models.Payment, error) {
	if scope.Kind == authz.ScopeNone {
		return []*models.Payment{}, nil
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT p.id, p.taxi_id, p.amount, p.month, p.year, p.method, p.recorded_by, p.recorded_at
		FROM payments p
	`
	args := []interface{}{}
	if scope.Kind == authz.ScopeRank {
		query += ` JOIN taxis t ON t.id = p.taxi_id WHERE t.rank_id = $1`
		args = append(args, scope.RankID)
	}
	query += fmt.Sprintf(` ORDER BY p.recorded_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		err := rows.Scan(
			&payment.ID,
			&payment.TaxiID,
			&payment.Amount,
			&payment.Month,
			&payment.Year,
			&payment.Method,
			&payment.RecordedBy,
			&payment.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}

	return payments, nil
}

// SumForMonth totals payment amounts for a covered month
func (r *PaymentRepository) SumForMonth(ctx context.Context, rankID *uuid.UUID, month, year int) (float64, error) {
	query := `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		WHERE p.month = $1 AND p.year = $2
	`
	args := []interface{}{month, year}
	if rankID != nil {
		query = `
			SELECT COALESCE(SUM(p.amount), 0)
			FROM payments p
			JOIN taxis t ON t.id = p.taxi_id
			WHERE p.month = $1 AND p.year = $2 AND t.rank_id = $3
		`
		args = append(args, *rankID)
	}

	executor := GetExecutor(ctx, r.db)
	var total float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}
