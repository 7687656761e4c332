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

type rankServiceFixture struct {
	ranks    *MockRankRepository
	marshals *MockMarshalRepository
	taxis    *MockTaxiRepository
	activity *MockActivityRepository
	service  *RankService
}

func newRankFixture() *rankServiceFixture {
	f := &rankServiceFixture{
		ranks:    new(MockRankRepository),
		marshals: new(MockMarshalRepository),
		taxis:    new(MockTaxiRepository),
		activity: new(MockActivityRepository),
	}
	f.service = NewRankService(f.ranks, f.marshals, f.taxis, f.activity, newInlineTxManager(), zap.NewNop())
	return f
}

func TestRankService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("creates rank and logs activity in one transaction", func(t *testing.T) {
		f := newRankFixture()
		f.ranks.On("GetByName", mock.Anything, "Noord Street").Return(nil, repositories.ErrNotFound)
		f.ranks.On("Create", mock.Anything, mock.AnythingOfType("*models.TaxiRank")).Return(nil)
		f.activity.On("Insert", mock.Anything, mock.MatchedBy(func(e *models.ActivityLog) bool {
			return e.Action == models.ActivityActionRankCreated && e.ActorID == actorID
		})).Return(nil)

		rank, err := f.service.Create(ctx, actorID, RankInput{
			Name:      "Noord Street",
			Address:   "Noord St, Johannesburg",
			Latitude:  -26.1960,
			Longitude: 28.0474,
		})
		require.NoError(t, err)
		assert.Equal(t, "Noord Street", rank.Name)
		f.ranks.AssertExpectations(t)
		f.activity.AssertExpectations(t)
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		f := newRankFixture()
		existing := models.NewTaxiRank("Noord Street", "Noord St", -26.1960, 28.0474)
		f.ranks.On("GetByName", mock.Anything, "Noord Street").Return(existing, nil)

		_, err := f.service.Create(ctx, actorID, RankInput{
			Name:      "Noord Street",
			Latitude:  -26.1960,
			Longitude: 28.0474,
		})
		require.Error(t, err)
		assert.True(t, IsConflictError(err))
		f.ranks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects out-of-range coordinates", func(t *testing.T) {
		f := newRankFixture()

		_, err := f.service.Create(ctx, actorID, RankInput{Name: "Bad", Latitude: 95, Longitude: 28})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

func TestRankService_Update(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("renaming onto an existing rank is a conflict", func(t *testing.T) {
		f := newRankFixture()
		rank := models.NewTaxiRank("Bree Street", "Bree St", -26.2023, 28.0400)
		other := models.NewTaxiRank("Noord Street", "Noord St", -26.1960, 28.0474)
		f.ranks.On("GetByID", mock.Anything, rank.ID).Return(rank, nil)
		f.ranks.On("GetByName", mock.Anything, "Noord Street").Return(other, nil)

		_, err := f.service.Update(ctx, actorID, rank.ID, RankInput{
			Name:      "Noord Street",
			Latitude:  rank.Latitude,
			Longitude: rank.Longitude,
		})
		require.Error(t, err)
		assert.True(t, IsConflictError(err))
	})

	t.Run("keeping the same name skips the uniqueness check", func(t *testing.T) {
		f := newRankFixture()
		rank := models.NewTaxiRank("Bree Street", "Bree St", -26.2023, 28.0400)
		f.ranks.On("GetByID", mock.Anything, rank.ID).Return(rank, nil)
		f.ranks.On("Update", mock.Anything, rank).Return(nil)
		f.activity.On("Insert", mock.Anything, mock.Anything).Return(nil)

		updated, err := f.service.Update(ctx, actorID, rank.ID, RankInput{
			Name:      "Bree Street",
			Address:   "Bree & Sauer St",
			Latitude:  rank.Latitude,
			Longitude: rank.Longitude,
		})
		require.NoError(t, err)
		assert.Equal(t, "Bree & Sauer St", updated.Address)
		f.ranks.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
	})
}

func TestRankService_Delete(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("rank with assigned taxis cannot be deleted", func(t *testing.T) {
		f := newRankFixture()
		rank := models.NewTaxiRank("Bree Street", "Bree St", -26.2023, 28.0400)
		f.ranks.On("GetByID", mock.Anything, rank.ID).Return(rank, nil)
		f.marshals.On("List", mock.Anything, mock.Anything).Return([]*models.Marshal{}, nil)
		f.taxis.On("List", mock.Anything, mock.Anything).Return([]*models.Taxi{rankedTaxi(rank.ID)}, nil)

		err := f.service.Delete(ctx, actorID, rank.ID)
		require.Error(t, err)
		assert.True(t, IsConflictError(err))
		assert.ErrorIs(t, err, ErrRankInUse)
		assert.Equal(t, 1, GetErrorDetails(err)["taxis"])
		f.ranks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("empty rank is deleted with an audit entry", func(t *testing.T) {
		f := newRankFixture()
		rank := models.NewTaxiRank("Bree Street", "Bree St", -26.2023, 28.0400)
		f.ranks.On("GetByID", mock.Anything, rank.ID).Return(rank, nil)
		f.marshals.On("List", mock.Anything, authz.Scope{Kind: authz.ScopeRank, RankID: rank.ID}).
			Return([]*models.Marshal{}, nil)
		f.taxis.On("List", mock.Anything, authz.Scope{Kind: authz.ScopeRank, RankID: rank.ID}).
			Return([]*models.Taxi{}, nil)
		f.ranks.On("Delete", mock.Anything, rank.ID).Return(nil)
		f.activity.On("Insert", mock.Anything, mock.MatchedBy(func(e *models.ActivityLog) bool {
			return e.Action == models.ActivityActionRankDeleted
		})).Return(nil)

		err := f.service.Delete(ctx, actorID, rank.ID)
		require.NoError(t, err)
		f.ranks.AssertExpectations(t)
	})

	t.Run("unknown rank is not found", func(t *testing.T) {
		f := newRankFixture()
		id := uuid.New()
		f.ranks.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		err := f.service.Delete(ctx, actorID, id)
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})
}
