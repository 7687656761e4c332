package middleware

import (
	"context"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// ProfileKey is the context key for the resolved marshal profile
	ProfileKey contextKey = "profile"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetProfileFromContext retrieves the resolved profile from context.
// Returns nil when the request is unauthenticated.
func GetProfileFromContext(ctx context.Context) *models.Marshal {
	if val := ctx.Value(ProfileKey); val != nil {
		if profile, ok := val.(*models.Marshal); ok {
			return profile
		}
	}
	return nil
}

// WithProfile adds the resolved profile to the context
func WithProfile(ctx context.Context, profile *models.Marshal) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}

// GetScopeFromContext derives the data scope of the request's profile.
// Unauthenticated requests get the fail-closed empty scope.
func GetScopeFromContext(ctx context.Context) authz.Scope {
	return authz.ScopeFor(GetProfileFromContext(ctx))
}
