package handler

import (
	"errors"
	"net/http"

	"salesboard/internal/board"
	"salesboard/internal/store"
	"salesboard/pkg/jwtutil"
	"salesboard/pkg/logger"
	"salesboard/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler serves login/logout and profile access.
type AuthHandler struct {
	Auth     *store.AuthStore
	Sessions *board.Sessions
}

// NewAuthHandler wires the handler to its stores.
func NewAuthHandler(auth *store.AuthStore, sessions *board.Sessions) *AuthHandler {
	return &AuthHandler{Auth: auth, Sessions: sessions}
}

// Login authenticates and issues a session token.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	// Parse request
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrMissingCredentials):
			prometheus.RecordAuthError("missing_credentials")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, store.ErrUserNotFound):
			prometheus.RecordAuthError("user_not_found")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		default:
			prometheus.RecordAuthError("invalid_credentials")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
	}

	token, err := jwtutil.GenerateToken(user.Email, user.CompanyID, string(user.Role), user.IsAdmin, user.IsSuperAdmin)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.ActiveSessionsGauge.Inc()
	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("company_id", user.CompanyID))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Logout clears the session and discards the board working copy.
func (h *AuthHandler) Logout(c echo.Context) error {
	log := logger.FromEcho(c)

	email, _ := c.Get("email").(string)
	h.Auth.Logout()
	h.Sessions.Drop(email)
	prometheus.ActiveSessionsGauge.Dec()

	log.Info("User logged out", zap.String("email", email))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Profile returns the authenticated user's record.
func (h *AuthHandler) Profile(c echo.Context) error {
	email, _ := c.Get("email").(string)
	user, ok := h.Auth.UserByEmail(email)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// LastLogin returns the last-used login email, the one piece of auth state
// that survives restarts.
func (h *AuthHandler) LastLogin(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"last_login_email": h.Auth.LastLoginEmail()})
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler(c echo.Context) error {
	h := prometheus.GetPrometheusHandler()
	h.ServeHTTP(c.Response(), c.Request())
	return nil
}
