package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

// MockTransactionManager runs the transaction function inline so service
// tests exercise the dual writes without a database.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, &MockTransaction{})
}

type MockTransaction struct {
	mock.Mock
}

func (m *MockTransaction) Commit() error            { return nil }
func (m *MockTransaction) Rollback() error          { return nil }
func (m *MockTransaction) Context() context.Context { return context.Background() }

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Create(ctx context.Context, cred *models.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	args := m.Called(ctx, email)
	if cred := args.Get(0); cred != nil {
		return cred.(*models.Credential), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialRepository) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockMarshalRepository struct {
	mock.Mock
}

func (m *MockMarshalRepository) Create(ctx context.Context, profile *models.Marshal) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockMarshalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Marshal, error) {
	args := m.Called(ctx, id)
	if profile := args.Get(0); profile != nil {
		return profile.(*models.Marshal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMarshalRepository) GetByEmail(ctx context.Context, email string) (*models.Marshal, error) {
	args := m.Called(ctx, email)
	if profile := args.Get(0); profile != nil {
		return profile.(*models.Marshal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMarshalRepository) List(ctx context.Context, scope authz.Scope) ([]*models.Marshal, error) {
	args := m.Called(ctx, scope)
	if profiles := args.Get(0); profiles != nil {
		return profiles.([]*models.Marshal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMarshalRepository) ListPending(ctx context.Context) ([]*models.Marshal, error) {
	args := m.Called(ctx)
	if profiles := args.Get(0); profiles != nil {
		return profiles.([]*models.Marshal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMarshalRepository) Update(ctx context.Context, profile *models.Marshal) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockMarshalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMarshalRepository) CountActiveAdmins(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockMarshalRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockRankRepository struct {
	mock.Mock
}

func (m *MockRankRepository) Create(ctx context.Context, rank *models.TaxiRank) error {
	args := m.Called(ctx, rank)
	return args.Error(0)
}

func (m *MockRankRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TaxiRank, error) {
	args := m.Called(ctx, id)
	if rank := args.Get(0); rank != nil {
		return rank.(*models.TaxiRank), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRankRepository) GetByName(ctx context.Context, name string) (*models.TaxiRank, error) {
	args := m.Called(ctx, name)
	if rank := args.Get(0); rank != nil {
		return rank.(*models.TaxiRank), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRankRepository) List(ctx context.Context, search string) ([]*models.TaxiRank, error) {
	args := m.Called(ctx, search)
	if ranks := args.Get(0); ranks != nil {
		return ranks.([]*models.TaxiRank), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRankRepository) Update(ctx context.Context, rank *models.TaxiRank) error {
	args := m.Called(ctx, rank)
	return args.Error(0)
}

func (m *MockRankRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTaxiRepository struct {
	mock.Mock
}

func (m *MockTaxiRepository) Create(ctx context.Context, taxi *models.Taxi) error {
	args := m.Called(ctx, taxi)
	return args.Error(0)
}

func (m *MockTaxiRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Taxi, error) {
	args := m.Called(ctx, id)
	if taxi := args.Get(0); taxi != nil {
		return taxi.(*models.Taxi), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaxiRepository) GetByRegistration(ctx context.Context, registration string) (*models.Taxi, error) {
	args := m.Called(ctx, registration)
	if taxi := args.Get(0); taxi != nil {
		return taxi.(*models.Taxi), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaxiRepository) List(ctx context.Context, scope authz.Scope) ([]*models.Taxi, error) {
	args := m.Called(ctx, scope)
	if taxis := args.Get(0); taxis != nil {
		return taxis.([]*models.Taxi), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaxiRepository) Update(ctx context.Context, taxi *models.Taxi) error {
	args := m.Called(ctx, taxi)
	return args.Error(0)
}

func (m *MockTaxiRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaxiRepository) IncrementLoads(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaxiRepository) AdvancePaidUntil(ctx context.Context, id uuid.UUID, monthStart time.Time) error {
	args := m.Called(ctx, id, monthStart)
	return args.Error(0)
}

type MockLoadRepository struct {
	mock.Mock
}

func (m *MockLoadRepository) Insert(ctx context.Context, load *models.Load) error {
	args := m.Called(ctx, load)
	return args.Error(0)
}

func (m *MockLoadRepository) List(ctx context.Context, scope authz.Scope, limit, offset int) ([]*models.Load, error) {
	args := m.Called(ctx, scope, limit, offset)
	if loads := args.Get(0); loads != nil {
		return loads.([]*models.Load), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoadRepository) CountSince(ctx context.Context, rankID *uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, rankID, since)
	return args.Int(0), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Insert(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) List(ctx context.Context, scope authz.Scope, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, scope, limit, offset)
	if payments := args.Get(0); payments != nil {
		return payments.([]*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentRepository) SumForMonth(ctx context.Context, rankID *uuid.UUID, month, year int) (float64, error) {
	args := m.Called(ctx, rankID, month, year)
	return args.Get(0).(float64), args.Error(1)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) List(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error) {
	args := m.Called(ctx, limit, offset)
	if entries := args.Get(0); entries != nil {
		return entries.([]*models.ActivityLog), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	args := m.Called(ctx, id)
	if meeting := args.Get(0); meeting != nil {
		return meeting.(*models.Meeting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMeetingRepository) List(ctx context.Context, scope authz.Scope) ([]*models.Meeting, error) {
	args := m.Called(ctx, scope)
	if meetings := args.Get(0); meetings != nil {
		return meetings.([]*models.Meeting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMeetingRepository) Update(ctx context.Context, meeting *models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// newInlineTxManager returns a transaction manager that always runs the
// function inline.
func newInlineTxManager() *MockTransactionManager {
	tm := new(MockTransactionManager)
	tm.On("InTransaction", mock.Anything, mock.Anything).Return(nil)
	return tm
}
