package postgres

import (
	"github.com/GiftHanong/taxihub/config"
	"github.com/GiftHanong/taxihub/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory creates and manages all repositories
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return &RepositoryFactory{db: db, logger: logger}, nil
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Credentials: NewCredentialRepository(f.db, f.logger),
		Marshals:    NewMarshalRepository(f.db, f.logger),
		Ranks:       NewRankRepository(f.db, f.logger),
		Taxis:       NewTaxiRepository(f.db, f.logger),
		Loads:       NewLoadRepository(f.db, f.logger),
		Payments:    NewPaymentRepository(f.db, f.logger),
		Activity:    NewActivityRepository(f.db, f.logger),
		Meetings:    NewMeetingRepository(f.db, f.logger),
	}
}

// GetTransactionManager returns a transaction manager
func (f *RepositoryFactory) GetTransactionManager() repositories.TransactionManager {
	return NewTransactionManager(f.db, f.logger)
}

// GetDB returns the database connection
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Close closes the database connection
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
