package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/middleware"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/services"
	"github.com/GiftHanong/taxihub/utils"
)

// RegisterRequest is the self-service registration payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

// LoginRequest is the sign-in payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the sign-in result
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *models.Marshal `json:"profile"`
}

// MeResponse is the current session's profile and permissions
type MeResponse struct {
	Profile     *models.Marshal `json:"profile"`
	Permissions []authz.Action  `json:"permissions"`
}

// AuthHandler handles registration and session endpoints
type AuthHandler struct {
	sessions *services.SessionService
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions *services.SessionService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	profile, err := h.sessions.Register(r.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteCreated(w, profile)
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	result, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteOK(w, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Profile:   result.Profile,
	})
}

// HandleMe handles GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfileFromContext(r.Context())
	if profile == nil {
		utils.WriteUnauthorized(w, "")
		return
	}

	utils.WriteOK(w, MeResponse{
		Profile:     profile,
		Permissions: authz.PermissionsFor(profile.Role),
	})
}
