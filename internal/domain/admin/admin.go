package admin

import (
	"context"
	"time"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleEditor     Role = "editor"
)

// Permissions is resource -> action -> allowed.
type Permissions map[string]map[string]bool

// Allows looks up permissions[resource][action]; an absent path is false.
func (p Permissions) Allows(resource, action string) bool {
	actions, ok := p[resource]
	if !ok {
		return false
	}
	return actions[action]
}

func SuperAdminPermissions() Permissions {
	return Permissions{
		"users":      {"view": true, "create": true, "edit": true, "delete": true},
		"portfolios": {"view": true, "create": true, "edit": true, "delete": true},
		"analytics":  {"view": true, "export": true},
		"settings":   {"view": true, "edit": true},
		"system":     {"backup": true, "restore": true, "maintenance": true},
	}
}

func EditorPermissions() Permissions {
	return Permissions{
		"users":      {"view": true},
		"portfolios": {"view": true, "edit": true},
		"analytics":  {"view": true},
	}
}

func PermissionsFor(role Role) Permissions {
	switch role {
	case RoleSuperAdmin:
		return SuperAdminPermissions()
	case RoleEditor:
		return EditorPermissions()
	}
	return Permissions{}
}

// Credential is one row of the configured admin table.
type Credential struct {
	Email        string
	PasswordHash string
	Role         Role
}

// LoginState tracks failures for one identity.
type LoginState struct {
	FailedAttempts int        `json:"failedAttempts"`
	LockedUntil    *time.Time `json:"lockedUntil,omitempty"`
}

func (s LoginState) LockedAt(now time.Time) bool {
	return s.LockedUntil != nil && now.Before(*s.LockedUntil)
}

// Session is the server-side record of the one active admin session.
type Session struct {
	SessionID   string      `json:"sessionId"`
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
	IssuedAt    time.Time   `json:"issuedAt"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	Token       string      `json:"token"`
}

// PublicSession is what callers see after login. It never carries a password digest.
type PublicSession struct {
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	Token       string      `json:"token"`
}

func (s Session) Public() PublicSession {
	return PublicSession{
		Email:       s.Email,
		Role:        s.Role,
		Permissions: s.Permissions,
		ExpiresAt:   s.ExpiresAt,
		Token:       s.Token,
	}
}

func (s Session) HasPermission(resource, action string) bool {
	return s.Permissions.Allows(resource, action)
}

type sessionKey struct{}

// NewContext returns a copy of ctx carrying the authenticated admin session.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
