package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/khoahotran/cv-portfolio/adapters/persistence"
	activityuc "github.com/khoahotran/cv-portfolio/internal/application/usecase/activity"
	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
	"github.com/khoahotran/cv-portfolio/internal/domain/admin"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/auth"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const (
	adminEmail    = "admin@company.com"
	adminPassword = "SecureAdmin2024!"
)

type GateTestSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	store *storage.Store
	log   *activityuc.Log
	gate  *Gate
}

func (s *GateTestSuite) clock() time.Time { return s.now }

func (s *GateTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s.store = storage.NewStore(persistence.NewMemoryBackend(), "test", logger.NewNop())
	s.log = activityuc.NewLog(s.store, nil, logger.NewNop(), activityuc.Options{}).WithClock(s.clock)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	s.Require().NoError(err)

	jwtSvc := auth.NewJWTService("test-secret", 24*time.Hour).WithClock(s.clock)
	s.gate = NewGate(s.store, jwtSvc, s.log, logger.NewNop(),
		[]admin.Credential{{Email: adminEmail, PasswordHash: string(hash), Role: admin.RoleSuperAdmin}},
		Options{},
	).WithClock(s.clock)
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateTestSuite))
}

func (s *GateTestSuite) login(password string) (*admin.PublicSession, error) {
	return s.gate.Login(s.ctx, LoginInput{Email: adminEmail, Password: password})
}

func (s *GateTestSuite) lastAction() string {
	entries := s.log.Query(s.ctx, 1)
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Action
}

func (s *GateTestSuite) TestLogin_Success() {
	pub, err := s.gate.Login(s.ctx, LoginInput{Email: "  Admin@Company.com ", Password: adminPassword})
	s.Require().NoError(err)

	s.Equal(adminEmail, pub.Email)
	s.Equal(admin.RoleSuperAdmin, pub.Role)
	s.True(pub.Permissions.Allows("system", "backup"))
	s.NotEmpty(pub.Token)
	s.True(s.now.Add(24*time.Hour).Equal(pub.ExpiresAt))
	s.Equal(activity.ActionLoginSuccess, s.lastAction())

	stored, ok := s.gate.CurrentSession(s.ctx)
	s.Require().True(ok)
	s.True(s.now.Equal(stored.IssuedAt))
}

func (s *GateTestSuite) TestLogin_UnknownIdentity() {
	_, err := s.gate.Login(s.ctx, LoginInput{Email: "nobody@company.com", Password: "x"})
	s.ErrorIs(err, apperror.ErrNotFound)
	s.Equal(activity.ActionLoginFailed, s.lastAction())
}

func (s *GateTestSuite) TestLogin_MissingFields() {
	_, err := s.gate.Login(s.ctx, LoginInput{Email: adminEmail})
	s.ErrorIs(err, apperror.ErrInvalidInput)
}

func (s *GateTestSuite) TestLogin_LockoutAndRecovery() {
	for i := 0; i < 2; i++ {
		_, err := s.login("wrong")
		s.ErrorIs(err, apperror.ErrUnauthorized)
	}

	_, err := s.login("wrong")
	s.ErrorIs(err, apperror.ErrUnauthorized)
	entries := s.log.Query(s.ctx, 2)
	s.Equal(activity.ActionLoginFailed, entries[0].Action)
	s.Equal(activity.ActionAccountLocked, entries[1].Action)

	_, err = s.login(adminPassword)
	s.ErrorIs(err, apperror.ErrLocked)

	s.now = s.now.Add(15*time.Minute - time.Second)
	_, err = s.login(adminPassword)
	s.ErrorIs(err, apperror.ErrLocked)

	s.now = s.now.Add(2 * time.Second)
	_, err = s.login(adminPassword)
	s.Require().NoError(err)

	var states map[string]admin.LoginState
	s.Require().True(s.store.Get(s.ctx, loginStateKey, &states))
	s.Zero(states[adminEmail].FailedAttempts)
	s.Nil(states[adminEmail].LockedUntil)
}

func (s *GateTestSuite) TestLogin_SuccessResetsCounter() {
	_, err := s.login("wrong")
	s.Require().Error(err)
	_, err = s.login("wrong")
	s.Require().Error(err)
	_, err = s.login(adminPassword)
	s.Require().NoError(err)

	_, err = s.login("wrong")
	s.ErrorIs(err, apperror.ErrUnauthorized)
	_, err = s.login(adminPassword)
	s.NoError(err)
}

func (s *GateTestSuite) TestLogin_HonoursCancelledContext() {
	s.gate.latency = time.Hour
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.gate.Login(ctx, LoginInput{Email: adminEmail, Password: adminPassword})
	s.ErrorIs(err, context.Canceled)
}

func (s *GateTestSuite) TestCheckValidity_Valid() {
	pub, err := s.login(adminPassword)
	s.Require().NoError(err)

	session, err := s.gate.CheckValidity(s.ctx, pub.Token)
	s.Require().NoError(err)
	s.Equal(adminEmail, session.Email)
}

func (s *GateTestSuite) TestCheckValidity_ExpiredSessionIsRemoved() {
	pub, err := s.login(adminPassword)
	s.Require().NoError(err)

	s.now = s.now.Add(24*time.Hour + time.Second)
	_, err = s.gate.CheckValidity(s.ctx, pub.Token)
	s.ErrorIs(err, apperror.ErrUnauthorized)

	_, ok := s.gate.CurrentSession(s.ctx)
	s.False(ok)
	s.Equal(activity.ActionSessionExpired, s.lastAction())
}

func (s *GateTestSuite) TestCheckValidity_RejectedTokensLeaveSessionIntact() {
	tests := []struct {
		name  string
		token func(valid string) string
	}{
		{"missing", func(string) string { return "" }},
		{"malformed", func(string) string { return "not-a-jwt" }},
		{"tampered", func(valid string) string { return valid[:len(valid)-2] + "xx" }},
		{"foreign secret", func(string) string {
			other := auth.NewJWTService("other-secret", time.Minute).WithClock(s.clock)
			token, _, err := other.GenerateToken(auth.SessionClaims{SessionID: "s-1", Email: adminEmail})
			s.Require().NoError(err)
			return token
		}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			pub, err := s.login(adminPassword)
			s.Require().NoError(err)

			_, err = s.gate.CheckValidity(s.ctx, tt.token(pub.Token))
			s.ErrorIs(err, apperror.ErrUnauthorized)

			current, ok := s.gate.CurrentSession(s.ctx)
			s.Require().True(ok)
			s.Equal(pub.Token, current.Token)

			_, err = s.gate.CheckValidity(s.ctx, pub.Token)
			s.NoError(err)
		})
	}
}

func (s *GateTestSuite) TestCheckValidity_StaleExpiredTokenLeavesNewSession() {
	stale, err := s.login(adminPassword)
	s.Require().NoError(err)

	s.now = s.now.Add(24*time.Hour + time.Second)
	fresh, err := s.login(adminPassword)
	s.Require().NoError(err)

	_, err = s.gate.CheckValidity(s.ctx, stale.Token)
	s.ErrorIs(err, apperror.ErrUnauthorized)

	current, ok := s.gate.CurrentSession(s.ctx)
	s.Require().True(ok)
	s.Equal(fresh.Token, current.Token)
	s.NotEqual(activity.ActionSessionExpired, s.lastAction())
}

func (s *GateTestSuite) TestCheckValidity_ReplacedSession() {
	first, err := s.login(adminPassword)
	s.Require().NoError(err)
	s.now = s.now.Add(time.Minute)
	_, err = s.login(adminPassword)
	s.Require().NoError(err)

	_, err = s.gate.CheckValidity(s.ctx, first.Token)
	s.ErrorIs(err, apperror.ErrUnauthorized)

	var appErr *apperror.AppError
	s.Require().ErrorAs(err, &appErr)
	s.ErrorIs(appErr.Err, ErrSessionMismatch)
}

func (s *GateTestSuite) TestHasPermission() {
	pub, err := s.login(adminPassword)
	s.Require().NoError(err)
	session, err := s.gate.CheckValidity(s.ctx, pub.Token)
	s.Require().NoError(err)

	s.True(HasPermission(session, "users", "create"))
	s.False(HasPermission(session, "users", "launch"))
	s.False(HasPermission(session, "billing", "view"))
	s.False(HasPermission(nil, "users", "view"))
}

func (s *GateTestSuite) TestLogout() {
	pub, err := s.login(adminPassword)
	s.Require().NoError(err)

	s.Require().NoError(s.gate.Logout(s.ctx))
	s.Equal(activity.ActionLogout, s.lastAction())

	_, err = s.gate.CheckValidity(s.ctx, pub.Token)
	s.Error(err)
	s.NoError(s.gate.Logout(s.ctx))
}

func (s *GateTestSuite) TestChangePassword() {
	err := s.gate.ChangePassword(s.ctx, ChangePasswordInput{Email: adminEmail, CurrentPassword: "nope", NewPassword: "NewSecret123!"})
	s.ErrorIs(err, apperror.ErrUnauthorized)

	err = s.gate.ChangePassword(s.ctx, ChangePasswordInput{Email: adminEmail, CurrentPassword: adminPassword, NewPassword: "short"})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	err = s.gate.ChangePassword(s.ctx, ChangePasswordInput{Email: adminEmail, CurrentPassword: adminPassword, NewPassword: "NewSecret123!"})
	s.Require().NoError(err)
	s.Equal(activity.ActionPasswordChange, s.lastAction())

	_, err = s.login(adminPassword)
	s.ErrorIs(err, apperror.ErrUnauthorized)
	_, err = s.login("NewSecret123!")
	s.NoError(err)
}

func (s *GateTestSuite) TestResetPassword() {
	s.ErrorIs(s.gate.ResetPassword(s.ctx, "nobody@company.com", "Rotated2024!"), apperror.ErrNotFound)
	s.ErrorIs(s.gate.ResetPassword(s.ctx, adminEmail, "short"), apperror.ErrInvalidInput)

	s.Require().NoError(s.gate.ResetPassword(s.ctx, " ADMIN@company.com", "Rotated2024!"))

	_, err := s.login(adminPassword)
	s.ErrorIs(err, apperror.ErrUnauthorized)
	_, err = s.login("Rotated2024!")
	s.NoError(err)
}

func (s *GateTestSuite) TestWatchdog() {
	w := NewWatchdog(s.gate, 30*time.Minute, time.Minute, logger.NewNop()).WithClock(s.clock)

	s.False(w.Check(s.ctx), "no session yet")

	_, err := s.login(adminPassword)
	s.Require().NoError(err)
	w.Touch()

	s.now = s.now.Add(29 * time.Minute)
	s.False(w.Check(s.ctx))

	w.Touch()
	s.now = s.now.Add(30 * time.Minute)
	s.False(w.Check(s.ctx), "exactly at the threshold is not idle")

	s.now = s.now.Add(time.Second)
	s.True(w.Check(s.ctx))
	_, ok := s.gate.CurrentSession(s.ctx)
	s.False(ok)
	s.Equal(activity.ActionInactivityLogout, s.lastAction())
}

func (s *GateTestSuite) TestWatchdog_FreshLoginAfterLongIdle() {
	w := NewWatchdog(s.gate, 30*time.Minute, time.Minute, logger.NewNop()).WithClock(s.clock)

	s.now = s.now.Add(45 * time.Minute)
	pub, err := s.login(adminPassword)
	s.Require().NoError(err)

	s.now = s.now.Add(time.Minute)
	s.False(w.Check(s.ctx))

	current, ok := s.gate.CurrentSession(s.ctx)
	s.Require().True(ok)
	s.Equal(pub.Token, current.Token)

	s.now = s.now.Add(30 * time.Minute)
	s.True(w.Check(s.ctx), "idle time still counts from the login")
}

func (s *GateTestSuite) TestWatchdog_RunStopsOnCancel() {
	w := NewWatchdog(s.gate, time.Hour, 5*time.Millisecond, logger.NewNop())
	ctx, cancel := context.WithCancel(s.ctx)

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("watchdog did not stop")
	}
}
