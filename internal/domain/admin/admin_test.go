package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPermissions_Allows(t *testing.T) {
	p := SuperAdminPermissions()

	assert.True(t, p.Allows("users", "delete"))
	assert.True(t, p.Allows("system", "backup"))
	assert.False(t, p.Allows("users", "fly"))
	assert.False(t, p.Allows("billing", "view"))

	var empty Permissions
	assert.False(t, empty.Allows("users", "view"))
}

func TestPermissionsFor(t *testing.T) {
	assert.True(t, PermissionsFor(RoleEditor).Allows("portfolios", "edit"))
	assert.False(t, PermissionsFor(RoleEditor).Allows("users", "delete"))
	assert.Empty(t, PermissionsFor("nobody"))
}

func TestLoginState_LockedAt(t *testing.T) {
	now := time.Now()
	until := now.Add(time.Minute)

	assert.False(t, LoginState{}.LockedAt(now))
	assert.True(t, LoginState{LockedUntil: &until}.LockedAt(now))
	assert.False(t, LoginState{LockedUntil: &until}.LockedAt(until))
}

func TestSession_PublicHasNoSecrets(t *testing.T) {
	s := Session{SessionID: "sid", Email: "a@b.co", Role: RoleSuperAdmin, Token: "tok"}
	pub := s.Public()
	assert.Equal(t, "a@b.co", pub.Email)
	assert.Equal(t, "tok", pub.Token)
}
