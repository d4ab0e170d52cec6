package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CodeOrigin25/Mandi-Link/internal/api/metrics"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/ports"
)

type AuthHandler struct {
	sessions ports.SessionManager
	tokens   *TokenIssuer
}

func NewAuthHandler(sessions ports.SessionManager, tokens *TokenIssuer) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=trader producer consumer"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=trader producer consumer"`
}

type sessionResponse struct {
	Token   string          `json:"token,omitempty"`
	Session *domain.Session `json:"session,omitempty"`
	State   string          `json:"state"`
	Loading bool            `json:"loading,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Signup creates the identity account, profile record, and session.
//
// @Summary      Sign up a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown role"})
	}

	sess, err := h.sessions.Signup(c.Request().Context(), req.Username, req.Email, req.Password, role)
	if err != nil {
		metrics.AuthErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		return err
	}
	metrics.SignupsTotal.WithLabelValues(string(role)).Inc()

	token, err := h.tokens.Issue(sess)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, sessionResponse{
		Token:   token,
		Session: sess,
		State:   string(h.sessions.State()),
	})
}

// Login authenticates against the identity store, enforces the claimed
// role, and returns the established session with an API token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials and claimed role"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown role"})
	}

	sess, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password, role)
	if err != nil {
		metrics.AuthErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues(string(sess.Role)).Inc()

	token, err := h.tokens.Issue(sess)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Token:   token,
		Session: sess,
		State:   string(h.sessions.State()),
	})
}

// Logout tears down the session. Always succeeds locally.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return err
	}
	metrics.LogoutsTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// Session reports the current session, state, and last surfaced error.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	resp := sessionResponse{
		Session: h.sessions.CurrentSession(),
		State:   string(h.sessions.State()),
		Loading: h.sessions.IsLoading(),
	}
	if err := h.sessions.LastError(); err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdatePreferences merges a local-only preference patch into the session.
//
// @Summary      Patch session preferences
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]string  true  "Preference patch"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/preferences [patch]
func (h *AuthHandler) UpdatePreferences(c echo.Context) error {
	var patch map[string]string
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	sess := h.sessions.UpdatePreferences(patch)
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "no active session"})
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Session: sess,
		State:   string(h.sessions.State()),
	})
}

// errorReason labels auth failures for the error counter.
func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCredentialsInvalid):
		return "credentials_invalid"
	case errors.Is(err, domain.ErrAccountExists):
		return "account_exists"
	case errors.Is(err, domain.ErrAuthFailed):
		return "auth_failed"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrUserRecordMissing):
		return "user_record_missing"
	case errors.Is(err, domain.ErrRoleMismatch):
		return "role_mismatch"
	case errors.Is(err, domain.ErrWriteFailed):
		return "write_failed"
	}
	return "internal"
}
