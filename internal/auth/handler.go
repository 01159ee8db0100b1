package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/redmonkez12/taskboard/internal/apperr"
	"github.com/redmonkez12/taskboard/internal/httputil"
	"github.com/redmonkez12/taskboard/internal/logging"
	"github.com/redmonkez12/taskboard/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CredentialsRequest represents the signup and login request body
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued session token
type TokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse represents the authenticated user
type ProfileResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Signup handles user registration
// @Summary      Register a new user
// @Description  Create a new user account with email and password and return a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Registration credentials"
// @Success      201 {object} TokenResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing email or password"
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	token, newUser, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			logger.Warn("signup failed: email already exists")
		case apperr.KindOf(err) == apperr.KindValidation:
			logger.Warn("signup failed: validation error", "error", err.Error())
		default:
			logger.Error("signup failed", "error", err.Error())
		}
		httputil.RespondError(w, err)
		return
	}

	logger.Info("user signed up", "user_id", newUser.ID)
	httputil.RespondJSON(w, TokenResponse{Token: token}, http.StatusCreated)
}

// Login handles user authentication
// @Summary      Log in
// @Description  Exchange email and password for a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Login credentials"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing email or password"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	token, existingUser, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			logger.Error("login failed", "error", err.Error())
		} else {
			logger.Warn("login failed", "error", err.Error())
		}
		httputil.RespondError(w, err)
		return
	}

	logger.Info("user logged in", "user_id", existingUser.ID)
	httputil.RespondJSON(w, TokenResponse{Token: token}, http.StatusOK)
}

// Profile returns the authenticated user
// @Summary      Current user
// @Description  Return the id and email of the authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing token"
// @Failure      403 {object} httputil.ErrorResponse "Invalid or expired token"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request, userID int64) {
	u, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Warn("profile lookup failed", "user_id", userID, "error", err.Error())
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, ProfileResponse{ID: u.ID, Email: u.Email}, http.StatusOK)
}
