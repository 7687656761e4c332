package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/auth"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

func newTestSessionService(creds *MockCredentialRepository, marshals *MockMarshalRepository) *SessionService {
	hasher := auth.NewPasswordHasher(auth.PasswordHasherOptions{Iterations: 1000})
	tokens := auth.NewTokenService("test-secret", "taxihub-test", time.Hour)
	return NewSessionService(creds, marshals, newInlineTxManager(), hasher, tokens, zap.NewNop())
}

func TestSessionService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates credential and unapproved profile", func(t *testing.T) {
		creds := new(MockCredentialRepository)
		marshals := new(MockMarshalRepository)
		service := newTestSessionService(creds, marshals)

		creds.On("GetByEmail", mock.Anything, "thabo@example.com").Return(nil, repositories.ErrNotFound)
		creds.On("Create", mock.Anything, mock.AnythingOfType("*models.Credential")).Return(nil)
		marshals.On("Create", mock.Anything, mock.AnythingOfType("*models.Marshal")).Return(nil)

		profile, err := service.Register(ctx, RegisterInput{
			Email:    "Thabo@Example.com",
			Password: "correct horse battery",
			Name:     "Thabo M",
			Phone:    "0731234567",
		})
		require.NoError(t, err)

		assert.Equal(t, "thabo@example.com", profile.Email)
		assert.False(t, profile.Approved)
		assert.Equal(t, models.RoleUnassigned, profile.Role)
		creds.AssertExpectations(t)
		marshals.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		creds := new(MockCredentialRepository)
		marshals := new(MockMarshalRepository)
		service := newTestSessionService(creds, marshals)

		existing := models.NewCredential("taken@example.com", "hash")
		creds.On("GetByEmail", mock.Anything, "taken@example.com").Return(existing, nil)

		_, err := service.Register(ctx, RegisterInput{
			Email:    "taken@example.com",
			Password: "whatever pass",
			Name:     "Somebody",
		})
		require.Error(t, err)
		assert.True(t, IsConflictError(err))
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		creds := new(MockCredentialRepository)
		marshals := new(MockMarshalRepository)
		service := newTestSessionService(creds, marshals)

		creds.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, repositories.ErrNotFound)

		_, err := service.Register(ctx, RegisterInput{Email: "new@example.com", Name: "New"})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

func TestSessionService_BootstrapAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an approved admin when none exist", func(t *testing.T) {
		creds := new(MockCredentialRepository)
		marshals := new(MockMarshalRepository)
		service := newTestSessionService(creds, marshals)

		marshals.On("CountActiveAdmins", mock.Anything).Return(0, nil)
		marshals.On("GetByEmail", mock.Anything, "root@example.com").Return(nil, repositories.ErrNotFound)
		creds.On("Create", mock.Anything, mock.AnythingOfType("*models.Credential")).Return(nil)
		marshals.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Marshal) bool {
			return m.Email == "root@example.com" && m.Approved && m.Role == models.RoleAdmin
		})).Return(nil)

		require.NoError(t, service.BootstrapAdmin(ctx, "Root@Example.com", "a strong secret"))
		creds.AssertExpectations(t)
		marshals.AssertExpectations(t)
	})

	t.Run("does nothing once an active admin exists", func(t *testing.T) {
		creds := new(MockCredentialRepository)
		marshals := new(MockMarshalRepository)
		service := newTestSessionService(creds, marshals)

		marshals.On("CountActiveAdmins", mock.Anything).Return(1, nil)

		require.NoError(t, service.BootstrapAdmin(ctx, "root@example.com", "a strong secret"))
		creds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		marshals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("promotes an existing registration for the seed email", func(t *testing.T) {
		creds := new(MockCredentialRepository)
		marshals := new(MockMarshalRepository)
		service := newTestSessionService(creds, marshals)

		pending := models.NewMarshal("root@example.com", "Root R", "")

		marshals.On("CountActiveAdmins", mock.Anything).Return(0, nil)
		marshals.On("GetByEmail", mock.Anything, "root@example.com").Return(pending, nil)
		marshals.On("Update", mock.Anything, pending).Return(nil)

		require.NoError(t, service.BootstrapAdmin(ctx, "root@example.com", "a strong secret"))

		assert.True(t, pending.Approved)
		assert.Equal(t, models.RoleAdmin, pending.Role)
		creds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSessionService_Login(t *testing.T) {
	ctx := context.Background()
	hasher := auth.NewPasswordHasher(auth.PasswordHasherOptions{Iterations: 1000})
	hash, err := hasher.Hash("the right password")
	require.NoError(t, err)

	newFixtures := func() (*MockCredentialRepository, *MockMarshalRepository, *SessionService) {
		creds := new(MockCredentialRepository)
		marshals := new(MockMarshalRepository)
		return creds, marshals, newTestSessionService(creds, marshals)
	}

	approvedProfile := func() *models.Marshal {
		rankID := uuid.New()
		profile := models.NewMarshal("lindiwe@example.com", "Lindiwe K", "")
		profile.Approved = true
		profile.Role = models.RoleMarshal
		profile.RankID = &rankID
		return profile
	}

	t.Run("issues token for approved profile", func(t *testing.T) {
		creds, marshals, service := newFixtures()
		profile := approvedProfile()

		creds.On("GetByEmail", mock.Anything, "lindiwe@example.com").
			Return(models.NewCredential("lindiwe@example.com", hash), nil)
		marshals.On("GetByEmail", mock.Anything, "lindiwe@example.com").Return(profile, nil)
		marshals.On("RecordLogin", mock.Anything, profile.ID, mock.AnythingOfType("time.Time")).
			Return(nil).Maybe()

		result, err := service.Login(ctx, "lindiwe@example.com", "the right password")
		require.NoError(t, err)

		assert.NotEmpty(t, result.Token)
		assert.Equal(t, profile.ID, result.Profile.ID)
		assert.True(t, result.ExpiresAt.After(time.Now()))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		creds, _, service := newFixtures()

		creds.On("GetByEmail", mock.Anything, "lindiwe@example.com").
			Return(models.NewCredential("lindiwe@example.com", hash), nil)

		_, err := service.Login(ctx, "lindiwe@example.com", "a wrong password")
		require.Error(t, err)
		assert.True(t, IsUnauthorizedError(err))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects unknown email with same error as wrong password", func(t *testing.T) {
		creds, _, service := newFixtures()

		creds.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repositories.ErrNotFound)

		_, err := service.Login(ctx, "ghost@example.com", "anything really")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects credential without profile", func(t *testing.T) {
		creds, marshals, service := newFixtures()

		creds.On("GetByEmail", mock.Anything, "orphan@example.com").
			Return(models.NewCredential("orphan@example.com", hash), nil)
		marshals.On("GetByEmail", mock.Anything, "orphan@example.com").Return(nil, repositories.ErrNotFound)

		_, err := service.Login(ctx, "orphan@example.com", "the right password")
		require.Error(t, err)
		assert.True(t, IsUnauthorizedError(err))
		assert.False(t, IsForbiddenError(err))
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("rejects pending approval", func(t *testing.T) {
		creds, marshals, service := newFixtures()
		pending := models.NewMarshal("pending@example.com", "Pending P", "")

		creds.On("GetByEmail", mock.Anything, "pending@example.com").
			Return(models.NewCredential("pending@example.com", hash), nil)
		marshals.On("GetByEmail", mock.Anything, "pending@example.com").Return(pending, nil)

		_, err := service.Login(ctx, "pending@example.com", "the right password")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrProfilePending)
	})

	t.Run("rejects suspended profile", func(t *testing.T) {
		creds, marshals, service := newFixtures()
		suspended := approvedProfile()
		suspended.Suspended = true

		creds.On("GetByEmail", mock.Anything, "lindiwe@example.com").
			Return(models.NewCredential("lindiwe@example.com", hash), nil)
		marshals.On("GetByEmail", mock.Anything, "lindiwe@example.com").Return(suspended, nil)

		_, err := service.Login(ctx, "lindiwe@example.com", "the right password")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrProfileSuspended)
	})

	t.Run("wraps backend failure as internal", func(t *testing.T) {
		creds, _, service := newFixtures()

		creds.On("GetByEmail", mock.Anything, "lindiwe@example.com").
			Return(nil, errors.New("connection refused"))

		_, err := service.Login(ctx, "lindiwe@example.com", "the right password")
		require.Error(t, err)
		assert.False(t, IsUnauthorizedError(err))
		assert.Equal(t, ErrorTypeInternal, GetErrorType(err))
	})
}

func TestSessionService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("suspension takes effect immediately", func(t *testing.T) {
		creds := new(MockCredentialRepository)
		marshals := new(MockMarshalRepository)
		service := newTestSessionService(creds, marshals)

		profile := models.NewMarshal("sam@example.com", "Sam N", "")
		profile.Approved = true
		profile.Role = models.RoleSupervisor
		profile.Suspended = true

		marshals.On("GetByID", mock.Anything, profile.ID).Return(profile, nil)

		_, err := service.Resolve(ctx, profile.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrProfileSuspended)
	})

	t.Run("deleted profile yields unauthorized", func(t *testing.T) {
		creds := new(MockCredentialRepository)
		marshals := new(MockMarshalRepository)
		service := newTestSessionService(creds, marshals)

		id := uuid.New()
		marshals.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		_, err := service.Resolve(ctx, id)
		require.Error(t, err)
		assert.True(t, IsUnauthorizedError(err))
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}
