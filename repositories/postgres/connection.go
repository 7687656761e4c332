package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GiftHanong/taxihub/config"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Taxi ranks table
		CREATE TABLE IF NOT EXISTS taxi_ranks (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			address TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			capacity INTEGER,
			aisles JSONB NOT NULL DEFAULT '[]',
			fares JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Credentials table
		CREATE TABLE IF NOT EXISTS credentials (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Marshal profiles table
		CREATE TABLE IF NOT EXISTS marshals (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT '',
			rank_id UUID REFERENCES taxi_ranks(id) ON DELETE SET NULL,
			approved BOOLEAN NOT NULL DEFAULT false,
			suspended BOOLEAN NOT NULL DEFAULT false,
			login_count INTEGER NOT NULL DEFAULT 0,
			last_login_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Taxis table
		CREATE TABLE IF NOT EXISTS taxis (
			id UUID PRIMARY KEY,
			registration VARCHAR(50) NOT NULL UNIQUE,
			driver_name VARCHAR(255) NOT NULL,
			driver_phone VARCHAR(50) NOT NULL,
			rank_id UUID REFERENCES taxi_ranks(id) ON DELETE SET NULL,
			aisle_number INTEGER,
			paid_until TIMESTAMP,
			total_loads INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Loads table (append-only)
		CREATE TABLE IF NOT EXISTS loads (
			id UUID PRIMARY KEY,
			taxi_id UUID NOT NULL REFERENCES taxis(id) ON DELETE CASCADE,
			rank_id UUID NOT NULL REFERENCES taxi_ranks(id) ON DELETE CASCADE,
			recorded_by UUID NOT NULL REFERENCES marshals(id) ON DELETE CASCADE,
			recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Payments table (append-only)
		CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			taxi_id UUID NOT NULL REFERENCES taxis(id) ON DELETE CASCADE,
			amount DECIMAL(10, 2) NOT NULL,
			month INTEGER NOT NULL,
			year INTEGER NOT NULL,
			method VARCHAR(50) NOT NULL,
			recorded_by UUID NOT NULL REFERENCES marshals(id) ON DELETE CASCADE,
			recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Activity logs table (append-only)
		CREATE TABLE IF NOT EXISTS activity_logs (
			id UUID PRIMARY KEY,
			actor_id UUID NOT NULL,
			action VARCHAR(100) NOT NULL,
			target_type VARCHAR(100) NOT NULL,
			target_id UUID,
			details JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Meetings table
		CREATE TABLE IF NOT EXISTS meetings (
			id UUID PRIMARY KEY,
			rank_id UUID NOT NULL REFERENCES taxi_ranks(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			agenda TEXT NOT NULL DEFAULT '',
			scheduled_for TIMESTAMP NOT NULL,
			created_by UUID NOT NULL REFERENCES marshals(id) ON DELETE CASCADE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_marshals_rank_id ON marshals(rank_id);
		CREATE INDEX IF NOT EXISTS idx_marshals_approved ON marshals(approved);

		CREATE INDEX IF NOT EXISTS idx_taxis_rank_id ON taxis(rank_id);
		CREATE INDEX IF NOT EXISTS idx_taxis_registration ON taxis(registration);

		CREATE INDEX IF NOT EXISTS idx_loads_taxi_id ON loads(taxi_id);
		CREATE INDEX IF NOT EXISTS idx_loads_rank_id ON loads(rank_id);
		CREATE INDEX IF NOT EXISTS idx_loads_recorded_at ON loads(recorded_at);

		CREATE INDEX IF NOT EXISTS idx_payments_taxi_id ON payments(taxi_id);
		CREATE INDEX IF NOT EXISTS idx_payments_month_year ON payments(year, month);

		CREATE INDEX IF NOT EXISTS idx_activity_logs_actor_id ON activity_logs(actor_id);
		CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at ON activity_logs(created_at);

		CREATE INDEX IF NOT EXISTS idx_meetings_rank_id ON meetings(rank_id);
		CREATE INDEX IF NOT EXISTS idx_meetings_scheduled_for ON meetings(scheduled_for);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}
