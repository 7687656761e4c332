package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/auth"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

// RegisterInput carries the fields for a self-service registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// LoginResult is a successful sign-in: a signed session token plus the
// profile it is bound to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Profile   *models.Marshal
}

// SessionService handles registration, sign-in and the per-request
// resolution of a token subject to a live profile.
type SessionService struct {
	credentials repositories.CredentialRepository
	marshals    repositories.MarshalRepository
	txManager   repositories.TransactionManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
	logger      *zap.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(
	credentials repositories.CredentialRepository,
	marshals repositories.MarshalRepository,
	txManager repositories.TransactionManager,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenService,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		credentials: credentials,
		marshals:    marshals,
		txManager:   txManager,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger,
	}
}

// Register creates a credential and an unapproved profile for a new email.
// Both rows are written in one transaction so a failure leaves neither
// behind. The profile stays invisible to sign-in until an admin approves it.
func (s *SessionService) Register(ctx context.Context, input RegisterInput) (*models.Marshal, error) {
	email := normalizeEmail(input.Email)

	if _, err := s.credentials.GetByEmail(ctx, email); err == nil {
		return nil, NewConflictError("email already registered", ErrEmailTaken)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, NewInternalError("failed to check existing credential", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return nil, NewValidationError("password must not be empty", err)
		}
		return nil, NewInternalError("failed to hash password", err)
	}

	profile := models.NewMarshal(email, input.Name, input.Phone)
	credential := models.NewCredential(email, hash)

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.credentials.Create(txCtx, credential); err != nil {
			return fmt.Errorf("failed to create credential: %w", err)
		}
		if err := s.marshals.Create(txCtx, profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, NewInternalError("failed to register account", err)
	}

	s.logger.Info("account registered, awaiting approval",
		zap.String("profile_id", profile.ID.String()),
		zap.String("email", email))

	return profile, nil
}

// BootstrapAdmin provisions an approved administrator when no active admin
// exists yet. A cold deployment starts with every registration pending, so
// without a seeded admin the approval queue could never be worked. If the
// seed email already has a registration, that profile is promoted instead of
// creating a second account. No-op once any active admin exists.
func (s *SessionService) BootstrapAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)

	count, err := s.marshals.CountActiveAdmins(ctx)
	if err != nil {
		return NewInternalError("failed to count administrators", err)
	}
	if count > 0 {
		return nil
	}

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		profile, err := s.marshals.GetByEmail(txCtx, email)
		switch {
		case err == nil:
			profile.Role = models.RoleAdmin
			profile.Approved = true
			profile.Suspended = false
			return s.marshals.Update(txCtx, profile)
		case !errors.Is(err, repositories.ErrNotFound):
			return fmt.Errorf("failed to look up profile: %w", err)
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		profile = models.NewMarshal(email, "Administrator", "")
		profile.Role = models.RoleAdmin
		profile.Approved = true

		if err := s.credentials.Create(txCtx, models.NewCredential(email, hash)); err != nil {
			return fmt.Errorf("failed to create credential: %w", err)
		}
		return s.marshals.Create(txCtx, profile)
	})
	if err != nil {
		return NewInternalError("failed to bootstrap administrator", err)
	}

	s.logger.Info("bootstrap administrator provisioned", zap.String("email", email))
	return nil
}

// Login verifies the password and binds a session to the profile. Sign-in is
// refused when no profile exists for the email, when the profile has not
// been approved, or when it is suspended.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	credential, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewUnauthorizedError("invalid email or password", ErrInvalidCredentials)
		}
		return nil, NewInternalError("failed to load credential", err)
	}

	ok, err := s.hasher.Verify(password, credential.PasswordHash)
	if err != nil && !errors.Is(err, auth.ErrEmptyPassword) {
		return nil, NewInternalError("failed to verify password", err)
	}
	if !ok {
		return nil, NewUnauthorizedError("invalid email or password", ErrInvalidCredentials)
	}

	profile, err := s.gatedProfile(ctx, func(ctx context.Context) (*models.Marshal, error) {
		return s.marshals.GetByEmail(ctx, email)
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(profile.ID, profile.Email)
	if err != nil {
		return nil, NewInternalError("failed to issue session token", err)
	}

	claims, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, NewInternalError("failed to read issued token", err)
	}

	// Login bookkeeping must not block or fail the sign-in itself.
	go func(id uuid.UUID) {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.marshals.RecordLogin(bgCtx, id, time.Now()); err != nil {
			s.logger.Warn("failed to record login",
				zap.String("profile_id", id.String()),
				zap.Error(err))
		}
	}(profile.ID)

	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Profile:   profile,
	}, nil
}

// Resolve maps a token subject to its live profile, applying the same
// approval and suspension gating as sign-in. Called on every authenticated
// request so suspension takes effect immediately.
func (s *SessionService) Resolve(ctx context.Context, profileID uuid.UUID) (*models.Marshal, error) {
	return s.gatedProfile(ctx, func(ctx context.Context) (*models.Marshal, error) {
		return s.marshals.GetByID(ctx, profileID)
	})
}

func (s *SessionService) gatedProfile(ctx context.Context, fetch func(context.Context) (*models.Marshal, error)) (*models.Marshal, error) {
	profile, err := fetch(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Missing profile means the principal itself is unknown, which
			// is an authentication failure rather than a denied action.
			return nil, NewUnauthorizedError("no marshal profile for account", ErrProfileNotFound)
		}
		return nil, NewInternalError("failed to load profile", err)
	}

	if !profile.Approved {
		return nil, NewForbiddenError("account pending approval", ErrProfilePending)
	}
	if profile.Suspended {
		return nil, NewForbiddenError("account suspended", ErrProfileSuspended)
	}

	return profile, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
