package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"caption-service/auth"
	"caption-service/models"
	"caption-service/service"

	"github.com/umakantv/go-utils/httpserver"
	"go.uber.org/zap"
)

// AccountService is the subset of service.AccountService the handlers use.
type AccountService interface {
	Register(ctx context.Context, req models.RegisterRequest) (int, error)
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
	SaveSettings(ctx context.Context, user *models.User, req models.SaveSettingsRequest) error
	GetSettings(ctx context.Context, user *models.User) (*models.SettingsResponse, error)
}

// UserHandlerFunc is a handler that runs after the bearer token resolved to user.
type UserHandlerFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request, user *models.User)

// AccountHandler serves the account and settings routes.
type AccountHandler struct {
	accounts AccountService
}

func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register handles POST /register
func (h *AccountHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	logRequest(ctx, "info", "Registering user", zap.String("email", req.Email))

	id, err := h.accounts.Register(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "User registered", zap.Int("user_id", id))
	writeMessage(w, http.StatusCreated, "Registration successful!")
}

// Login handles POST /login - issues a new bearer token
func (h *AccountHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid login body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	token, err := h.accounts.Login(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Login successful", zap.String("email", req.Email))
	writeJSON(w, http.StatusOK, models.LoginResponse{Message: "Login successful!", Token: token})
}

// ForgotPassword handles POST /forgot_password
func (h *AccountHandler) ForgotPassword(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.accounts.ForgotPassword(ctx, req); err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Password reset", zap.String("email", req.Email))
	writeMessage(w, http.StatusOK, "Your password has been reset successfully.")
}

// Me handles GET /me
func (h *AccountHandler) Me(ctx context.Context, w http.ResponseWriter, r *http.Request, user *models.User) {
	logRequest(ctx, "info", "Me retrieved", zap.Int("user_id", user.ID))
	writeJSON(w, http.StatusOK, user.Me())
}

// SaveSettings handles POST /savesettings. An empty body saves the defaults.
func (h *AccountHandler) SaveSettings(ctx context.Context, w http.ResponseWriter, r *http.Request, user *models.User) {
	var req models.SaveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logRequest(ctx, "error", "Invalid settings body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.accounts.SaveSettings(ctx, user, req); err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Settings saved", zap.Int("user_id", user.ID))
	writeMessage(w, http.StatusOK, "Settings saved successfully")
}

// GetSettings handles GET /getsettings
func (h *AccountHandler) GetSettings(ctx context.Context, w http.ResponseWriter, r *http.Request, user *models.User) {
	settings, err := h.accounts.GetSettings(ctx, user)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Settings retrieved", zap.Int("user_id", user.ID))
	writeJSON(w, http.StatusOK, settings)
}

// Authenticated resolves the bearer token before calling next. A missing or
// malformed header is rejected without consulting the account service.
func (h *AccountHandler) Authenticated(next UserHandlerFunc) httpserver.HandlerFunc {
	return httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		token, err := auth.ParseBearer(r.Header.Get("Authorization"))
		if err != nil {
			logRequest(ctx, "info", "Missing or malformed bearer token")
			writeError(w, http.StatusUnauthorized, "Token missing or invalid")
			return
		}

		user, err := h.accounts.Authenticate(ctx, token)
		if err != nil {
			h.writeServiceError(ctx, w, err)
			return
		}

		next(ctx, w, r, user)
	})
}

// writeServiceError maps the service error taxonomy onto status codes.
// Unexpected errors are logged and reported without detail.
func (h *AccountHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	var settingsErr *service.SettingsNotFoundError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "Your email is already registered.")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "We couldn't find an account with this email.")
	case errors.As(err, &settingsErr):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"message":  "No settings found",
			"username": settingsErr.Username,
		})
	default:
		logRequest(ctx, "error", "Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	logRequest(ctx, "info", "Request rejected", zap.Error(err))
}
