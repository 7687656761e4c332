package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "taxihub-test"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	ctx := context.Background()
	service := NewTokenService(testSecret, testIssuer, time.Hour)
	profileID := uuid.New()

	token, err := service.Issue(profileID, "marshal@taxihub.test")
	require.NoError(t, err)

	claims, err := service.ValidateToken(ctx, token)
	require.NoError(t, err)

	parsed, err := claims.ProfileID()
	require.NoError(t, err)
	assert.Equal(t, profileID, parsed)
	assert.Equal(t, "marshal@taxihub.test", claims.Email)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	service := NewTokenService(testSecret, testIssuer, time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    testIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	token, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = service.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_WrongSecret(t *testing.T) {
	ctx := context.Background()
	service := NewTokenService(testSecret, testIssuer, time.Hour)
	other := NewTokenService("another-secret", testIssuer, time.Hour)

	token, err := other.Issue(uuid.New(), "marshal@taxihub.test")
	require.NoError(t, err)

	_, err = service.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongIssuer(t *testing.T) {
	ctx := context.Background()
	service := NewTokenService(testSecret, testIssuer, time.Hour)
	other := NewTokenService(testSecret, "someone-else", time.Hour)

	token, err := other.Issue(uuid.New(), "marshal@taxihub.test")
	require.NoError(t, err)

	_, err = service.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_GarbageToken(t *testing.T) {
	ctx := context.Background()
	service := NewTokenService(testSecret, testIssuer, time.Hour)

	_, err := service.ValidateToken(ctx, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_ProfileID(t *testing.T) {
	t.Run("missing subject", func(t *testing.T) {
		claims := &Claims{}
		_, err := claims.ProfileID()
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non-uuid subject", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "42"}}
		_, err := claims.ProfileID()
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
