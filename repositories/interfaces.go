package repositories

import (
	"context"
	"time"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/google/uuid"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Automatically commits if the function succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error
	Context() context.Context
}

// CredentialRepository handles password credential operations
type CredentialRepository interface {
	// Create creates a new credential
	Create(ctx context.Context, cred *models.Credential) error

	// GetByEmail retrieves a credential by email
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)

	// DeleteByEmail removes the credential for an email
	DeleteByEmail(ctx context.Context, email string) error
}

// MarshalRepository handles marshal profile operations
type MarshalRepository interface {
	// Create creates a new profile
	Create(ctx context.Context, m *models.Marshal) error

	// GetByID retrieves a profile by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Marshal, error)

	// GetByEmail retrieves a profile by email
	GetByEmail(ctx context.Context, email string) (*models.Marshal, error)

	// List retrieves approved profiles visible within the scope
	List(ctx context.Context, scope authz.Scope) ([]*models.Marshal, error)

	// ListPending retrieves profiles awaiting approval
	ListPending(ctx context.Context) ([]*models.Marshal, error)

	// Update updates a profile
	Update(ctx context.Context, m *models.Marshal) error

	// Delete deletes a profile
	Delete(ctx context.Context, id uuid.UUID) error

	// CountActiveAdmins counts approved, unsuspended admin profiles
	CountActiveAdmins(ctx context.Context) (int, error)

	// RecordLogin bumps the login counter and last-login timestamp
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// RankRepository handles taxi rank operations
type RankRepository interface {
	// Create creates a new rank
	Create(ctx context.Context, rank *models.TaxiRank) error

	// GetByID retrieves a rank by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaxiRank, error)

	// GetByName retrieves a rank by its display name
	GetByName(ctx context.Context, name string) (*models.TaxiRank, error)

	// List retrieves all ranks, optionally filtered by a search term
	List(ctx context.Context, search string) ([]*models.TaxiRank, error)

	// Update updates a rank
	Update(ctx context.Context, rank *models.TaxiRank) error

	// Delete deletes a rank
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaxiRepository handles taxi operations
type TaxiRepository interface {
	// Create creates a new taxi
	Create(ctx context.Context, taxi *models.Taxi) error

	// GetByID retrieves a taxi by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Taxi, error)

	// GetByRegistration retrieves a taxi by registration plate
	GetByRegistration(ctx context.Context, registration string) (*models.Taxi, error)

	// List retrieves taxis visible within the scope
	List(ctx context.Context, scope authz.Scope) ([]*models.Taxi, error)

	// Update updates a taxi
	Update(ctx context.Context, taxi *models.Taxi) error

	// Delete deletes a taxi
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementLoads atomically bumps the taxi's load counter in the database
	IncrementLoads(ctx context.Context, id uuid.UUID) error

	// AdvancePaidUntil moves the paid-until projection forward to the given
	// month start. Never moves it backwards.
	AdvancePaidUntil(ctx context.Context, id uuid.UUID, monthStart time.Time) error
}

// LoadRepository handles load event operations. Loads are append-only.
type LoadRepository interface {
	// Insert appends a new load event
	Insert(ctx context.Context, load *models.Load) error

	// List retrieves load events visible within the scope, newest first
	List(ctx context.Context, scope authz.Scope, limit, offset int) ([]*models.Load, error)

	// CountSince counts loads for a rank recorded at or after the given time.
	// A nil rankID counts across all ranks.
	CountSince(ctx context.Context, rankID *uuid.UUID, since time.Time) (int, error)
}

// PaymentRepository handles payment event operations. Payments are append-only.
type PaymentRepository interface {
	// Insert appends a new payment event
	Insert(ctx context.Context, payment *models.Payment) error

	// List retrieves payment events visible within the scope, newest first
	List(ctx context.Context, scope authz.Scope, limit, offset int) ([]*models.Payment, error)

	// SumForMonth totals payment amounts for a covered month. A nil rankID
	// totals across all ranks.
	SumForMonth(ctx context.Context, rankID *uuid.UUID, month, year int) (float64, error)
}

// ActivityRepository handles audit log operations. Entries are append-only.
type ActivityRepository interface {
	// Insert appends a new activity log entry
	Insert(ctx context.Context, entry *models.ActivityLog) error

	// List retrieves activity log entries, newest first
	List(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error)
}

// MeetingRepository handles meeting operations
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *models.Meeting) error

	// GetByID retrieves a meeting by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error)

	// List retrieves meetings visible within the scope
	List(ctx context.Context, scope authz.Scope) ([]*models.Meeting, error)

	// Update updates a meeting
	Update(ctx context.Context, meeting *models.Meeting) error

	// Delete deletes a meeting
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories bundles all repository instances
type Repositories struct {
	Credentials CredentialRepository
	Marshals    MarshalRepository
	Ranks       RankRepository
	Taxis       TaxiRepository
	Loads       LoadRepository
	Payments    PaymentRepository
	Activity    ActivityRepository
	Meetings    MeetingRepository
}
