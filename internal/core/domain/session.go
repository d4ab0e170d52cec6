package domain

import "time"

// Role fixes which dashboard and capability set a session is authorized for.
// It is chosen once at signup and immutable afterwards.
type Role string

const (
	RoleTrader   Role = "trader"
	RoleProducer Role = "producer"
	RoleConsumer Role = "consumer"
)

// ParseRole validates a raw role string coming off the wire.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleTrader, RoleProducer, RoleConsumer:
		return Role(s), nil
	}
	return "", ErrCredentialsInvalid
}

// DashboardPath returns the dashboard a user of this role belongs on.
func (r Role) DashboardPath() string {
	return "/" + string(r) + "/dashboard"
}

// Online status values stored on profile records and presence entries.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// SessionState tracks where the session manager is in its lifecycle.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticating  SessionState = "authenticating"
	StateAuthenticated   SessionState = "authenticated"
)

// Session is the process-lifetime identity record, mirrored to a durable
// local file so a restart resumes without re-authenticating.
type Session struct {
	IdentityID  string            `json:"identity_id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	Role        Role              `json:"role"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// Clone returns a deep copy so callers can never mutate manager-owned state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Preferences != nil {
		clone.Preferences = make(map[string]string, len(s.Preferences))
		for k, v := range s.Preferences {
			clone.Preferences[k] = v
		}
	}
	return &clone
}

// ProfileRecord is the durable per-user document keyed by identity id.
// Role is written once at signup and never updated by this core.
type ProfileRecord struct {
	IdentityID   string    `json:"identity_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	OnlineStatus string    `json:"online_status"`
	CreatedAt    time.Time `json:"created_at"`
}

// PresenceEntry mirrors a logged-in user inside the per-role active-user
// registry. It is created on login and deleted on logout; signup does not
// create one.
type PresenceEntry struct {
	IdentityID string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Status     string `json:"status"`
}

// PresenceSnapshot builds the registry entry for an established session.
func PresenceSnapshot(s *Session) PresenceEntry {
	return PresenceEntry{
		IdentityID: s.IdentityID,
		Username:   s.Username,
		Email:      s.Email,
		Role:       s.Role,
		Status:     StatusOnline,
	}
}
