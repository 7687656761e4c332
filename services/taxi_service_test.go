package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

type taxiServiceFixture struct {
	taxis    *MockTaxiRepository
	ranks    *MockRankRepository
	activity *MockActivityRepository
	service  *TaxiService
}

func newTaxiFixture() *taxiServiceFixture {
	f := &taxiServiceFixture{
		taxis:    new(MockTaxiRepository),
		ranks:    new(MockRankRepository),
		activity: new(MockActivityRepository),
	}
	f.service = NewTaxiService(f.taxis, f.ranks, f.activity, newInlineTxManager(), zap.NewNop())
	return f
}

func TestTaxiService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	rankID := uuid.New()
	rankScope := authz.Scope{Kind: authz.ScopeRank, RankID: rankID}

	t.Run("normalizes the registration before the uniqueness check", func(t *testing.T) {
		f := newTaxiFixture()
		f.ranks.On("GetByID", mock.Anything, rankID).Return(models.NewTaxiRank("Bree Street", "", -26.2, 28.0), nil)
		f.taxis.On("GetByRegistration", mock.Anything, "ND 123-456").Return(nil, repositories.ErrNotFound)
		f.taxis.On("Create", mock.Anything, mock.MatchedBy(func(taxi *models.Taxi) bool {
			return taxi.Registration == "ND 123-456"
		})).Return(nil)
		f.activity.On("Insert", mock.Anything, mock.Anything).Return(nil)

		taxi, err := f.service.Create(ctx, actorID, rankScope, TaxiInput{
			Registration: "  nd 123-456 ",
			DriverName:   "S Dlamini",
			RankID:       &rankID,
		})
		require.NoError(t, err)
		assert.Equal(t, "ND 123-456", taxi.Registration)
		f.taxis.AssertExpectations(t)
	})

	t.Run("duplicate registration is a conflict", func(t *testing.T) {
		f := newTaxiFixture()
		f.ranks.On("GetByID", mock.Anything, rankID).Return(models.NewTaxiRank("Bree Street", "", -26.2, 28.0), nil)
		f.taxis.On("GetByRegistration", mock.Anything, "ND 123-456").Return(rankedTaxi(rankID), nil)

		_, err := f.service.Create(ctx, actorID, rankScope, TaxiInput{
			Registration: "ND 123-456",
			RankID:       &rankID,
		})
		require.Error(t, err)
		assert.True(t, IsConflictError(err))
		assert.ErrorIs(t, err, ErrRegistrationTaken)
	})

	t.Run("rank-scoped caller cannot register at another rank", func(t *testing.T) {
		f := newTaxiFixture()
		otherRank := uuid.New()

		_, err := f.service.Create(ctx, actorID, rankScope, TaxiInput{
			Registration: "ND 123-456",
			RankID:       &otherRank,
		})
		require.Error(t, err)
		assert.True(t, IsForbiddenError(err))
		assert.ErrorIs(t, err, ErrRankScopeViolation)
	})

	t.Run("rank-scoped caller must name a rank", func(t *testing.T) {
		f := newTaxiFixture()

		_, err := f.service.Create(ctx, actorID, rankScope, TaxiInput{Registration: "ND 123-456"})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.ErrorIs(t, err, ErrRankRequired)
	})

	t.Run("admins may register unassigned taxis", func(t *testing.T) {
		f := newTaxiFixture()
		f.taxis.On("GetByRegistration", mock.Anything, "ND 123-456").Return(nil, repositories.ErrNotFound)
		f.taxis.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.activity.On("Insert", mock.Anything, mock.Anything).Return(nil)

		taxi, err := f.service.Create(ctx, actorID, authz.Scope{Kind: authz.ScopeAll}, TaxiInput{
			Registration: "ND 123-456",
		})
		require.NoError(t, err)
		assert.Nil(t, taxi.RankID)
	})
}

func TestTaxiService_Get(t *testing.T) {
	ctx := context.Background()
	rankID := uuid.New()

	t.Run("taxi at another rank reads as not found", func(t *testing.T) {
		f := newTaxiFixture()
		taxi := rankedTaxi(uuid.New())
		f.taxis.On("GetByID", mock.Anything, taxi.ID).Return(taxi, nil)

		_, err := f.service.Get(ctx, authz.Scope{Kind: authz.ScopeRank, RankID: rankID}, taxi.ID)
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
		assert.False(t, IsForbiddenError(err))
	})

	t.Run("unassigned taxi is hidden from rank-scoped callers", func(t *testing.T) {
		f := newTaxiFixture()
		taxi := models.NewTaxi("ND 123-456", "S Dlamini", "", nil)
		f.taxis.On("GetByID", mock.Anything, taxi.ID).Return(taxi, nil)

		_, err := f.service.Get(ctx, authz.Scope{Kind: authz.ScopeRank, RankID: rankID}, taxi.ID)
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})
}

func TestTaxiService_Update(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	rankID := uuid.New()
	rankScope := authz.Scope{Kind: authz.ScopeRank, RankID: rankID}

	t.Run("moving to another rank needs scope on the target", func(t *testing.T) {
		f := newTaxiFixture()
		taxi := rankedTaxi(rankID)
		otherRank := uuid.New()
		f.taxis.On("GetByID", mock.Anything, taxi.ID).Return(taxi, nil)

		_, err := f.service.Update(ctx, actorID, rankScope, taxi.ID, TaxiInput{RankID: &otherRank})
		require.Error(t, err)
		assert.True(t, IsForbiddenError(err))
	})

	t.Run("empty fields keep existing values", func(t *testing.T) {
		f := newTaxiFixture()
		taxi := rankedTaxi(rankID)
		f.taxis.On("GetByID", mock.Anything, taxi.ID).Return(taxi, nil)
		f.taxis.On("Update", mock.Anything, taxi).Return(nil)
		f.activity.On("Insert", mock.Anything, mock.Anything).Return(nil)

		aisle := 4
		updated, err := f.service.Update(ctx, actorID, rankScope, taxi.ID, TaxiInput{AisleNumber: &aisle})
		require.NoError(t, err)
		assert.Equal(t, "ND 123-456", updated.Registration)
		assert.Equal(t, "S Dlamini", updated.DriverName)
		assert.Equal(t, 4, *updated.AisleNumber)
		f.taxis.AssertNotCalled(t, "GetByRegistration", mock.Anything, mock.Anything)
	})
}

func TestTaxiService_Delete(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	rankID := uuid.New()

	f := newTaxiFixture()
	taxi := rankedTaxi(rankID)
	f.taxis.On("GetByID", mock.Anything, taxi.ID).Return(taxi, nil)
	f.taxis.On("Delete", mock.Anything, taxi.ID).Return(nil)
	f.activity.On("Insert", mock.Anything, mock.MatchedBy(func(e *models.ActivityLog) bool {
		return e.Action == models.ActivityActionTaxiDeleted
	})).Return(nil)

	err := f.service.Delete(ctx, actorID, authz.Scope{Kind: authz.ScopeRank, RankID: rankID}, taxi.ID)
	require.NoError(t, err)
	f.taxis.AssertExpectations(t)
}
