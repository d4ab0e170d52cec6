package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
)

type stubSessionManager struct {
	loginFn  func(ctx context.Context, email, password string, claimed domain.Role) (*domain.Session, error)
	signupFn func(ctx context.Context, username, email, password string, role domain.Role) (*domain.Session, error)
	logoutFn func(ctx context.Context) error

	session *domain.Session
	state   domain.SessionState
	lastErr error
	prefsFn func(patch map[string]string) *domain.Session
}

func (s *stubSessionManager) Login(ctx context.Context, email, password string, claimed domain.Role) (*domain.Session, error) {
	return s.loginFn(ctx, email, password, claimed)
}

func (s *stubSessionManager) Signup(ctx context.Context, username, email, password string, role domain.Role) (*domain.Session, error) {
	return s.signupFn(ctx, username, email, password, role)
}

func (s *stubSessionManager) Logout(ctx context.Context) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx)
	}
	s.session = nil
	s.state = domain.StateUnauthenticated
	return nil
}

func (s *stubSessionManager) Restore() {}

func (s *stubSessionManager) CurrentSession() *domain.Session { return s.session.Clone() }

func (s *stubSessionManager) State() domain.SessionState { return s.state }

func (s *stubSessionManager) IsLoading() bool { return s.state == domain.StateAuthenticating }

func (s *stubSessionManager) LastError() error { return s.lastErr }

func (s *stubSessionManager) UpdatePreferences(patch map[string]string) *domain.Session {
	if s.prefsFn != nil {
		return s.prefsFn(patch)
	}
	return nil
}

func (s *stubSessionManager) Subscribe(func(domain.SessionState, *domain.Session)) func() {
	return func() {}
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubSessionManager{
		state: domain.StateAuthenticated,
		loginFn: func(_ context.Context, email, password string, claimed domain.Role) (*domain.Session, error) {
			if email != "alice@x.com" || password != "Passw0rd" || claimed != domain.RoleTrader {
				t.Fatalf("unexpected args: %s %s %s", email, password, claimed)
			}
			return &domain.Session{IdentityID: "id-1", Username: "alice", Email: email, Role: claimed}, nil
		},
	}
	h := NewAuthHandler(stub, NewTokenIssuer("secret", time.Hour))

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"alice@x.com","password":"Passw0rd","role":"trader"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] == "" || resp["token"] == nil {
		t.Fatalf("expected token in response")
	}
	sess, ok := resp["session"].(map[string]any)
	if !ok || sess["username"] != "alice" || sess["role"] != "trader" {
		t.Fatalf("unexpected session payload: %v", resp["session"])
	}
}

func TestAuthHandler_Login_RoleMismatchPropagates(t *testing.T) {
	stub := &stubSessionManager{
		state: domain.StateUnauthenticated,
		loginFn: func(context.Context, string, string, domain.Role) (*domain.Session, error) {
			return nil, domain.ErrRoleMismatch
		},
	}
	h := NewAuthHandler(stub, NewTokenIssuer("secret", time.Hour))

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"alice@x.com","password":"Passw0rd","role":"consumer"}`)
	if err := h.Login(c); err != domain.ErrRoleMismatch {
		t.Fatalf("expected ErrRoleMismatch to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_RejectsUnknownRole(t *testing.T) {
	stub := &stubSessionManager{
		loginFn: func(context.Context, string, string, domain.Role) (*domain.Session, error) {
			t.Fatalf("manager must not be called for an unknown role")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, NewTokenIssuer("secret", time.Hour))

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"alice@x.com","password":"Passw0rd","role":"admin"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubSessionManager{
		state: domain.StateAuthenticated,
		signupFn: func(_ context.Context, username, email, _ string, role domain.Role) (*domain.Session, error) {
			if username != "alice" || role != domain.RoleTrader {
				t.Fatalf("unexpected args: %s %s", username, role)
			}
			return &domain.Session{IdentityID: "id-1", Username: username, Email: email, Role: role}, nil
		},
	}
	h := NewAuthHandler(stub, NewTokenIssuer("secret", time.Hour))

	c, rec := newTestContext(t, http.MethodPost, "/auth/signup",
		`{"username":"alice","email":"alice@x.com","password":"Passw0rd","role":"trader"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Signup_ValidationFailure(t *testing.T) {
	stub := &stubSessionManager{
		signupFn: func(context.Context, string, string, string, domain.Role) (*domain.Session, error) {
			t.Fatalf("manager must not be called on validation failure")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, NewTokenIssuer("secret", time.Hour))

	// Password shorter than the provider minimum.
	c, rec := newTestContext(t, http.MethodPost, "/auth/signup",
		`{"username":"alice","email":"alice@x.com","password":"abc","role":"trader"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	stub := &stubSessionManager{
		session: &domain.Session{IdentityID: "id-1", Role: domain.RoleTrader},
		state:   domain.StateAuthenticated,
	}
	h := NewAuthHandler(stub, NewTokenIssuer("secret", time.Hour))

	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if stub.session != nil {
		t.Fatalf("logout must clear the session")
	}
}

func TestAuthHandler_Session_ReportsStateAndError(t *testing.T) {
	stub := &stubSessionManager{
		state:   domain.StateUnauthenticated,
		lastErr: domain.ErrRoleMismatch,
	}
	h := NewAuthHandler(stub, NewTokenIssuer("secret", time.Hour))

	c, rec := newTestContext(t, http.MethodGet, "/auth/session", "")
	if err := h.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["state"] != string(domain.StateUnauthenticated) {
		t.Fatalf("unexpected state: %v", resp["state"])
	}
	if resp["error"] != domain.ErrRoleMismatch.Error() {
		t.Fatalf("expected surfaced error, got %v", resp["error"])
	}
}

func TestAuthHandler_UpdatePreferences_NoSession(t *testing.T) {
	stub := &stubSessionManager{state: domain.StateUnauthenticated}
	h := NewAuthHandler(stub, NewTokenIssuer("secret", time.Hour))

	c, rec := newTestContext(t, http.MethodPatch, "/auth/preferences", `{"theme":"dark"}`)
	if err := h.UpdatePreferences(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_UpdatePreferences_Patches(t *testing.T) {
	stub := &stubSessionManager{
		state: domain.StateAuthenticated,
		prefsFn: func(patch map[string]string) *domain.Session {
			return &domain.Session{
				IdentityID:  "id-1",
				Username:    "alice",
				Role:        domain.RoleTrader,
				Preferences: patch,
			}
		},
	}
	h := NewAuthHandler(stub, NewTokenIssuer("secret", time.Hour))

	c, rec := newTestContext(t, http.MethodPatch, "/auth/preferences", `{"theme":"dark"}`)
	if err := h.UpdatePreferences(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	sess := resp["session"].(map[string]any)
	prefs := sess["preferences"].(map[string]any)
	if prefs["theme"] != "dark" {
		t.Fatalf("unexpected preferences: %v", prefs)
	}
}
