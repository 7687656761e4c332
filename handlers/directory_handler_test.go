package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/services"
)

func newDirectoryRouter(ranks ...*models.TaxiRank) *chi.Mux {
	directory := services.NewDirectoryService(newStubRankRepo(ranks...), 10, zap.NewNop())
	handler := NewDirectoryHandler(directory, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/ranks", handler.HandleList)
	r.Get("/ranks/nearby", handler.HandleNearby)
	r.Get("/ranks/{id}", handler.HandleGet)
	return r
}

func TestDirectoryHandler_HandleList(t *testing.T) {
	router := newDirectoryRouter(
		models.NewTaxiRank("Noord Street", "Noord St, Johannesburg", -26.1960, 28.0474),
		models.NewTaxiRank("Bree Street", "Bree St, Johannesburg", -26.2023, 28.0400),
	)

	req := httptest.NewRequest(http.MethodGet, "/ranks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var ranks []*models.TaxiRank
	decodeData(t, rec, &ranks)
	assert.Len(t, ranks, 2)
}

func TestDirectoryHandler_HandleGet(t *testing.T) {
	rank := models.NewTaxiRank("Noord Street", "Noord St, Johannesburg", -26.1960, 28.0474)
	rank.Fares = models.FareList{{Route: "CBD - Soweto", Price: 18.50}}
	router := newDirectoryRouter(rank)

	t.Run("returns the rank with its fare board", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ranks/"+rank.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got models.TaxiRank
		decodeData(t, rec, &got)
		assert.Equal(t, rank.ID, got.ID)
		require.Len(t, got.Fares, 1)
		assert.Equal(t, "CBD - Soweto", got.Fares[0].Route)
	})

	t.Run("unknown ID is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ranks/7b339722-94b0-41a0-a5c0-a1d6c583d2b5", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-uuid ID is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ranks/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDirectoryHandler_HandleNearby(t *testing.T) {
	router := newDirectoryRouter(
		models.NewTaxiRank("Noord Street", "Noord St, Johannesburg", -26.1960, 28.0474),
		models.NewTaxiRank("Pretoria CBD", "Church Square, Pretoria", -25.7461, 28.1881),
	)

	t.Run("returns ranks within the radius with distances", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ranks/nearby?lat=-26.2041&lng=28.0473&radius_km=15", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var nearby []services.NearbyRank
		decodeData(t, rec, &nearby)
		require.Len(t, nearby, 1)
		assert.Equal(t, "Noord Street", nearby[0].Rank.Name)
		assert.Greater(t, nearby[0].DistanceKm, 0.0)
	})

	t.Run("no coordinates degrades to the plain list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ranks/nearby", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var ranks []*models.TaxiRank
		decodeData(t, rec, &ranks)
		assert.Len(t, ranks, 2)
	})

	t.Run("half a coordinate pair is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ranks/nearby?lat=-26.2041", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric radius is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ranks/nearby?lat=-26.2041&lng=28.0473&radius_km=wide", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// Keep the encoder honest about the JSONB columns' zero values.
func TestDirectoryRankSerialization(t *testing.T) {
	rank := models.NewTaxiRank("Noord Street", "", -26.1960, 28.0474)

	payload, err := json.Marshal(rank)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"aisles":[]`)
	assert.Contains(t, string(payload), `"fares":[]`)
}
