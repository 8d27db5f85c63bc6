package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/planner-be/internal/auth"
	"github.com/isdelr/planner-be/internal/models"
	"github.com/isdelr/planner-be/internal/monitoring"
	"github.com/isdelr/planner-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login and the current account.
type AuthHandler struct {
	service services.AccountServiceProvider
	issuer  *auth.Issuer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AccountServiceProvider, issuer *auth.Issuer) *AuthHandler {
	return &AuthHandler{service: service, issuer: issuer}
}

// CredentialsPayload is the body of register and login requests. bcrypt
// only reads the first 72 bytes of a secret, so longer ones are refused.
type CredentialsPayload struct {
	Handle string `json:"handle" validate:"required,max=64"`
	Secret string `json:"secret" validate:"required,max=72"`
}

// PasswordPayload is the body of a password change.
type PasswordPayload struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,max=72"`
}

type registerResponse struct {
	ID     int64  `json:"id"`
	Handle string `json:"handle"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register handles new account registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := models.Validate(&payload); err != nil {
		writeServiceError(w, r, err, "Failed to validate registration")
		return
	}

	account, err := h.service.Register(r.Context(), payload.Handle, payload.Secret)
	monitoring.RecordAuthAttempt("register", err == nil)
	if err != nil {
		log.Warn().Err(err).Str("handle", payload.Handle).Msg("Failed to register account")
		writeServiceError(w, r, err, "Failed to register account")
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{ID: account.ID, Handle: account.Handle})
}

// Login checks credentials and issues a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := models.Validate(&payload); err != nil {
		writeServiceError(w, r, err, "Failed to validate login")
		return
	}

	account, err := h.service.Verify(r.Context(), payload.Handle, payload.Secret)
	monitoring.RecordAuthAttempt("login", err == nil)
	if err != nil {
		log.Warn().Err(err).Str("handle", payload.Handle).Msg("Failed authentication attempt")
		writeServiceError(w, r, err, "Failed to verify credentials")
		return
	}

	token, expiresAt, err := h.issuer.Issue(account.ID)
	if err != nil {
		log.Error().Err(err).Int64("account_id", account.ID).Msg("Failed to issue token")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt.UTC()})
}

// GetMe returns the account the request is authenticated as.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	account, err := h.service.GetAccountByID(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load account")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// ChangePassword replaces the current account's secret.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	var payload PasswordPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := models.Validate(&payload); err != nil {
		writeServiceError(w, r, err, "Failed to validate password change")
		return
	}

	if err := h.service.ChangePassword(r.Context(), accountID, payload.CurrentPassword, payload.NewPassword); err != nil {
		writeServiceError(w, r, err, "Failed to change password")
		return
	}
	log.Info().Int64("account_id", accountID).Msg("Password changed")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAccount reads the account id placed by the auth middleware.
func requireAccount(w http.ResponseWriter, r *http.Request) (int64, bool) {
	accountID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	}
	return accountID, ok
}
