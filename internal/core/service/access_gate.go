package service

import (
	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/ports"
)

// LoginPath is where unauthenticated callers are sent.
const LoginPath = "/login"

// Decision is the access gate's verdict for a role-restricted view.
type Decision struct {
	Allow bool `json:"allow"`
	// Pending means the session manager is still restoring; callers must
	// render a neutral waiting state instead of redirecting.
	Pending bool `json:"pending,omitempty"`
	// Redirect is set on denial: the login page when no session exists, or
	// the caller's own role dashboard when the session's role is not in the
	// allowed set.
	Redirect string `json:"redirect,omitempty"`
}

// Evaluate decides access for the given session state. An empty required
// set means any authenticated user may pass. An authenticated user with
// the wrong role is never sent to login, only to their own dashboard.
func Evaluate(state domain.SessionState, sess *domain.Session, required ...domain.Role) Decision {
	if state == domain.StateAuthenticating {
		return Decision{Pending: true}
	}
	if sess == nil {
		return Decision{Redirect: LoginPath}
	}
	if len(required) == 0 {
		return Decision{Allow: true}
	}
	for _, r := range required {
		if sess.Role == r {
			return Decision{Allow: true}
		}
	}
	return Decision{Redirect: sess.Role.DashboardPath()}
}

// AccessGate evaluates role-restricted access against the live session
// manager state.
type AccessGate struct {
	sessions ports.SessionManager
}

func NewAccessGate(sessions ports.SessionManager) *AccessGate {
	return &AccessGate{sessions: sessions}
}

func (g *AccessGate) Decide(required ...domain.Role) Decision {
	return Evaluate(g.sessions.State(), g.sessions.CurrentSession(), required...)
}
