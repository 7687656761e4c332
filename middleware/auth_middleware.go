package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/auth"
	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/services"
	"github.com/GiftHanong/taxihub/utils"
)

// AuthMiddleware authenticates requests and attaches the resolved profile.
type AuthMiddleware struct {
	tokens   *auth.TokenService
	sessions *services.SessionService
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(tokens *auth.TokenService, sessions *services.SessionService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// RequireAuth validates the bearer token and re-resolves the profile from
// the database, so approval revocation and suspension bite on the next
// request rather than at token expiry.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			utils.WriteUnauthorized(w, "Missing or malformed Authorization header")
			return
		}

		claims, err := m.tokens.ValidateToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				utils.WriteUnauthorized(w, "Session expired")
				return
			}
			utils.WriteUnauthorized(w, "Invalid session token")
			return
		}

		profileID, err := claims.ProfileID()
		if err != nil {
			utils.WriteUnauthorized(w, "Invalid session token")
			return
		}

		profile, err := m.sessions.Resolve(r.Context(), profileID)
		if err != nil {
			switch {
			case services.IsUnauthorizedError(err):
				utils.WriteUnauthorized(w, err.Error())
			case services.IsForbiddenError(err):
				utils.WriteForbidden(w, err.Error())
			default:
				m.logger.Error("failed to resolve session profile",
					zap.String("profile_id", profileID.String()),
					zap.String("request_id", GetRequestIDFromContext(r.Context())),
					zap.Error(err))
				utils.WriteInternalServerError(w, "")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
	})
}

// RequirePermission gates a route on the role registry. Must run after
// RequireAuth.
func (m *AuthMiddleware) RequirePermission(action authz.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile := GetProfileFromContext(r.Context())
			if profile == nil {
				utils.WriteUnauthorized(w, "")
				return
			}
			if !authz.HasPermission(profile, action) {
				m.logger.Warn("permission denied",
					zap.String("profile_id", profile.ID.String()),
					zap.String("role", string(profile.Role)),
					zap.String("action", string(action)))
				utils.WriteForbidden(w, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
