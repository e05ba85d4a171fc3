// Package httpapi is the thin HTTP controller in front of the auth service.
// It maps requests to service calls and service errors to status codes, and
// handles refresh-token cookie placement. No hashing or token logic lives
// here.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
)

const refreshCookieName = "refreshToken"

// AuthService is the service contract the controller dispatches to.
type AuthService interface {
	Register(ctx context.Context, email, pass, fullname string) (*models.User, error)
	Login(ctx context.Context, email, pass string) (*services.AuthResult, error)
	Refresh(ctx context.Context, rawToken string) (*services.AuthResult, error)
	Logout(ctx context.Context, rawToken string) error
	GetUserProfile(ctx context.Context, userID int64) (*services.Profile, error)
}

// Handler serves the auth endpoints.
type Handler struct {
	auth          AuthService
	verifier      TokenVerifier
	logger        logging.Logger
	cookieMaxAge  time.Duration
	secureCookies bool
}

// NewHandler constructs a Handler. cookieMaxAge bounds the refresh cookie
// lifetime and normally matches the refresh-token validity.
func NewHandler(auth AuthService, verifier TokenVerifier, logger logging.Logger, cookieMaxAge time.Duration, secureCookies bool) *Handler {
	return &Handler{
		auth:          auth,
		verifier:      verifier,
		logger:        logger.With("module", "httpapi"),
		cookieMaxAge:  cookieMaxAge,
		secureCookies: secureCookies,
	}
}

// Routes returns a router with the auth endpoints registered.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/refresh", h.refresh)
		r.Post("/logout", h.logout)
		r.With(h.requireAccessToken).Get("/me", h.me)
	})
	return r
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullname"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
}

type messagePayload struct {
	Message string `json:"message"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		h.writeMessage(w, http.StatusBadRequest, "Email, password, and fullname are required")
		return
	}

	if _, err := h.auth.Register(r.Context(), req.Email, req.Password, req.FullName); err != nil {
		h.writeError(w, r, err)
		return
	}

	// Auto-login after registration so the client gets a usable session
	// in one round trip.
	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"accessToken": result.AccessToken,
		"user":        toUserPayload(result.User),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		h.writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
		"user":         toUserPayload(result.User),
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		h.writeMessage(w, http.StatusUnauthorized, "No refresh token")
		return
	}

	result, err := h.auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": result.AccessToken,
		"user":        toUserPayload(result.User),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		// Logout never fails from the client's point of view; a store error
		// is logged and the cookie is cleared regardless.
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Error(r.Context(), "logout failed", "error", err.Error())
		}
	}

	h.clearRefreshCookie(w)
	h.writeJSON(w, http.StatusOK, messagePayload{Message: "Logged out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.auth.GetUserProfile(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"userId":        profile.UserID,
		"email":         profile.Email,
		"emailVerified": profile.EmailVerified,
	})
}

// writeError maps domain errors onto HTTP status codes. Anything unmapped is
// logged and reported as a generic 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrWeakPassword):
		h.writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrUserExists):
		h.writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidRefreshToken):
		h.writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, common.ErrUserNotFound):
		h.writeMessage(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		h.writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, messagePayload{Message: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error(context.Background(), "response encoding failed", "error", err.Error())
	}
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{ID: u.ID, Email: u.Email, FullName: u.FullName}
}
