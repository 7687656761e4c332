package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

// ApproveInput carries the decision an admin makes when approving a
// pending profile: the role to grant and, where the role works a single
// rank, the rank to bind it to.
type ApproveInput struct {
	Role   models.Role
	RankID *uuid.UUID
}

// UpdateProfileInput carries editable profile fields. Nil means unchanged.
type UpdateProfileInput struct {
	Name   *string
	Phone  *string
	Role   *models.Role
	RankID *uuid.UUID
}

// MarshalService implements the admin lifecycle for marshal profiles:
// approval, rejection, suspension, role and rank changes, and removal.
type MarshalService struct {
	marshals    repositories.MarshalRepository
	credentials repositories.CredentialRepository
	ranks       repositories.RankRepository
	activity    repositories.ActivityRepository
	txManager   repositories.TransactionManager
	logger      *zap.Logger
}

// NewMarshalService creates a new MarshalService
func NewMarshalService(
	marshals repositories.MarshalRepository,
	credentials repositories.CredentialRepository,
	ranks repositories.RankRepository,
	activity repositories.ActivityRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *MarshalService {
	return &MarshalService{
		marshals:    marshals,
		credentials: credentials,
		ranks:       ranks,
		activity:    activity,
		txManager:   txManager,
		logger:      logger,
	}
}

// ListPending returns profiles awaiting an approval decision.
func (s *MarshalService) ListPending(ctx context.Context) ([]*models.Marshal, error) {
	pending, err := s.marshals.ListPending(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list pending profiles", err)
	}
	return pending, nil
}

// List returns approved profiles visible within the caller's scope.
func (s *MarshalService) List(ctx context.Context, scope authz.Scope) ([]*models.Marshal, error) {
	profiles, err := s.marshals.List(ctx, scope)
	if err != nil {
		return nil, NewInternalError("failed to list profiles", err)
	}
	return profiles, nil
}

// Get retrieves a single profile by ID.
func (s *MarshalService) Get(ctx context.Context, id uuid.UUID) (*models.Marshal, error) {
	profile, err := s.marshals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("marshal not found", ErrMarshalNotFound)
		}
		return nil, NewInternalError("failed to load profile", err)
	}
	return profile, nil
}

// Approve grants a pending profile its role and rank in one step. The
// marshal and supervisor roles require a rank; the role and the binding
// are written together so an approved profile is never half-configured.
func (s *MarshalService) Approve(ctx context.Context, actorID, id uuid.UUID, input ApproveInput) (*models.Marshal, error) {
	if !input.Role.IsAssignable() {
		return nil, NewValidationError(fmt.Sprintf("role %q cannot be assigned", input.Role), nil)
	}
	if input.Role != models.RoleAdmin && input.RankID == nil {
		return nil, NewValidationError("a rank assignment is required for this role", ErrRankRequired)
	}

	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Approved {
		return nil, NewConflictError("account already approved", ErrAlreadyApproved)
	}

	if input.RankID != nil {
		if _, err := s.ranks.GetByID(ctx, *input.RankID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, NewValidationError("taxi rank not found", ErrRankNotFound)
			}
			return nil, NewInternalError("failed to load rank", err)
		}
	}

	profile.Approved = true
	profile.Role = input.Role
	profile.RankID = input.RankID

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.marshals.Update(txCtx, profile); err != nil {
			return fmt.Errorf("failed to approve profile: %w", err)
		}
		entry := models.NewActivityLog(actorID, models.ActivityActionProfileApproved, "marshal").
			WithTarget(profile.ID).
			WithDetails(map[string]interface{}{"role": profile.Role, "rank_id": profile.RankID})
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		return nil, NewInternalError("failed to approve profile", err)
	}

	s.logger.Info("profile approved",
		zap.String("profile_id", profile.ID.String()),
		zap.String("role", string(profile.Role)),
		zap.String("actor_id", actorID.String()))

	return profile, nil
}

// Reject removes a pending profile and its credential so the email can
// register again from scratch.
func (s *MarshalService) Reject(ctx context.Context, actorID, id uuid.UUID) error {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if profile.Approved {
		return NewConflictError("account already approved", ErrAlreadyApproved)
	}

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.marshals.Delete(txCtx, profile.ID); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		if err := s.credentials.DeleteByEmail(txCtx, profile.Email); err != nil {
			return fmt.Errorf("failed to delete credential: %w", err)
		}
		entry := models.NewActivityLog(actorID, models.ActivityActionProfileRejected, "marshal").
			WithTarget(profile.ID).
			WithDetails(map[string]interface{}{"email": profile.Email})
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		return NewInternalError("failed to reject profile", err)
	}

	s.logger.Info("profile rejected",
		zap.String("profile_id", profile.ID.String()),
		zap.String("actor_id", actorID.String()))

	return nil
}

// Suspend blocks a profile from holding a session. The last active admin
// cannot be suspended, and an actor cannot suspend their own account.
func (s *MarshalService) Suspend(ctx context.Context, actorID, id uuid.UUID) (*models.Marshal, error) {
	if actorID == id {
		return nil, NewConflictError("cannot suspend your own account", ErrSelfSuspension)
	}

	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Suspended {
		return profile, nil
	}

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if profile.IsAdmin() && profile.Active() {
			if err := s.guardLastAdmin(txCtx); err != nil {
				return err
			}
		}
		profile.Suspended = true
		if err := s.marshals.Update(txCtx, profile); err != nil {
			return fmt.Errorf("failed to suspend profile: %w", err)
		}
		entry := models.NewActivityLog(actorID, models.ActivityActionProfileSuspended, "marshal").
			WithTarget(profile.ID)
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		if errors.Is(err, ErrLastAdmin) {
			return nil, NewConflictError("cannot remove the last active administrator", ErrLastAdmin)
		}
		return nil, NewInternalError("failed to suspend profile", err)
	}

	s.logger.Info("profile suspended",
		zap.String("profile_id", profile.ID.String()),
		zap.String("actor_id", actorID.String()))

	return profile, nil
}

// Restore lifts a suspension.
func (s *MarshalService) Restore(ctx context.Context, actorID, id uuid.UUID) (*models.Marshal, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !profile.Suspended {
		return profile, nil
	}

	profile.Suspended = false
	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.marshals.Update(txCtx, profile); err != nil {
			return fmt.Errorf("failed to restore profile: %w", err)
		}
		entry := models.NewActivityLog(actorID, models.ActivityActionProfileRestored, "marshal").
			WithTarget(profile.ID)
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		return nil, NewInternalError("failed to restore profile", err)
	}

	s.logger.Info("profile restored",
		zap.String("profile_id", profile.ID.String()),
		zap.String("actor_id", actorID.String()))

	return profile, nil
}

// Update edits profile fields. Changing the role away from admin, or the
// rank binding of a rank-scoped role, follows the same rules as approval.
func (s *MarshalService) Update(ctx context.Context, actorID, id uuid.UUID, input UpdateProfileInput) (*models.Marshal, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	wasAdmin := profile.IsAdmin() && profile.Active()
	roleChanged := false

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.Role != nil && *input.Role != profile.Role {
		if !input.Role.IsAssignable() {
			return nil, NewValidationError(fmt.Sprintf("role %q cannot be assigned", *input.Role), nil)
		}
		profile.Role = *input.Role
		roleChanged = true
	}
	if input.RankID != nil {
		if _, err := s.ranks.GetByID(ctx, *input.RankID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, NewValidationError("taxi rank not found", ErrRankNotFound)
			}
			return nil, NewInternalError("failed to load rank", err)
		}
		profile.RankID = input.RankID
	}
	if profile.Role != models.RoleAdmin && profile.Approved && profile.RankID == nil {
		return nil, NewValidationError("a rank assignment is required for this role", ErrRankRequired)
	}

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if wasAdmin && roleChanged {
			if err := s.guardLastAdmin(txCtx); err != nil {
				return err
			}
		}
		if err := s.marshals.Update(txCtx, profile); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		action := models.ActivityActionProfileUpdated
		if roleChanged {
			action = models.ActivityActionRoleChanged
		}
		entry := models.NewActivityLog(actorID, action, "marshal").
			WithTarget(profile.ID).
			WithDetails(map[string]interface{}{"role": profile.Role, "rank_id": profile.RankID})
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		if errors.Is(err, ErrLastAdmin) {
			return nil, NewConflictError("cannot remove the last active administrator", ErrLastAdmin)
		}
		return nil, NewInternalError("failed to update profile", err)
	}

	return profile, nil
}

// Delete removes a profile and its credential. The last active admin
// cannot be deleted.
func (s *MarshalService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if profile.IsAdmin() && profile.Active() {
			if err := s.guardLastAdmin(txCtx); err != nil {
				return err
			}
		}
		if err := s.marshals.Delete(txCtx, profile.ID); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		if err := s.credentials.DeleteByEmail(txCtx, profile.Email); err != nil {
			return fmt.Errorf("failed to delete credential: %w", err)
		}
		entry := models.NewActivityLog(actorID, models.ActivityActionProfileDeleted, "marshal").
			WithTarget(profile.ID).
			WithDetails(map[string]interface{}{"email": profile.Email})
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		if errors.Is(err, ErrLastAdmin) {
			return NewConflictError("cannot remove the last active administrator", ErrLastAdmin)
		}
		return NewInternalError("failed to delete profile", err)
	}

	s.logger.Info("profile deleted",
		zap.String("profile_id", profile.ID.String()),
		zap.String("actor_id", actorID.String()))

	return nil
}

func (s *MarshalService) guardLastAdmin(ctx context.Context) error {
	count, err := s.marshals.CountActiveAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count active admins: %w", err)
	}
	if count <= 1 {
		return ErrLastAdmin
	}
	return nil
}
