package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
	"go.uber.org/zap"
)

// CredentialRepository implements the repositories.CredentialRepository interface
type CredentialRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *DB, logger *zap.Logger) repositories.CredentialRepository {
	return &CredentialRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new credential
func (r *CredentialRepository) Create(ctx context.Context, cred *models.Credential) error {
	query := `
		INSERT INTO credentials (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		cred.ID,
		cred.Email,
		cred.PasswordHash,
		cred.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}

	r.logger.Debug("credential created", zap.String("email", cred.Email))
	return nil
}

// GetByEmail retrieves a credential by email
func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM credentials
		WHERE email = $1
	`

	executor := GetExecutor(ctx, r.db)
	cred := &models.Credential{}

	err := executor.QueryRowContext(ctx, query, email).Scan(
		&cred.ID,
		&cred.Email,
		&cred.PasswordHash,
		&cred.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("credential for %s: %w", email, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return cred, nil
}

// DeleteByEmail removes the credential for an email
func (r *CredentialRepository) DeleteByEmail(ctx context.Context, email string) error {
	query := `DELETE FROM credentials WHERE email = $1`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	r.logger.Debug("credential deleted", zap.String("email", email))
	return nil
}
