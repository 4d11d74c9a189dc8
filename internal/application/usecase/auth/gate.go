package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/adapters/metrics"
	"github.com/khoahotran/cv-portfolio/internal/application/service"
	activityuc "github.com/khoahotran/cv-portfolio/internal/application/usecase/activity"
	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
	"github.com/khoahotran/cv-portfolio/internal/domain/admin"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/auth"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const (
	SessionKey     = "adminSession"
	loginStateKey  = "adminLoginState"
	credentialsKey = "adminCredentials"

	DefaultMaxAttempts     = 3
	DefaultLockoutDuration = 15 * time.Minute
)

var (
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrNoSession          = errors.New("no active session")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionMismatch    = errors.New("session was replaced")

	errSkipWrite = errors.New("skip write")
)

var tracer = otel.Tracer("auth_usecase")

type Options struct {
	MaxAttempts      int
	LockoutDuration  time.Duration
	SimulatedLatency time.Duration
}

// Gate authenticates the configured admins and owns the single active admin session.
type Gate struct {
	store    *storage.Store
	jwtSvc   *auth.JWTService
	activity activityuc.Recorder
	logger   logger.Logger

	mu          sync.RWMutex
	credentials map[string]admin.Credential

	maxAttempts int
	lockout     time.Duration
	latency     time.Duration
	now         func() time.Time
}

func NewGate(store *storage.Store, jwtSvc *auth.JWTService, recorder activityuc.Recorder, log logger.Logger, creds []admin.Credential, opts Options) *Gate {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.LockoutDuration <= 0 {
		opts.LockoutDuration = DefaultLockoutDuration
	}
	table := make(map[string]admin.Credential, len(creds))
	for _, c := range creds {
		table[normalizeEmail(c.Email)] = c
	}
	return &Gate{
		store:       store,
		jwtSvc:      jwtSvc,
		activity:    recorder,
		logger:      log,
		credentials: table,
		maxAttempts: opts.MaxAttempts,
		lockout:     opts.LockoutDuration,
		latency:     opts.SimulatedLatency,
		now:         time.Now,
	}
}

// WithClock replaces the gate's time source. The JWT service keeps its own clock.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type LoginInput struct {
	Email    string
	Password string
}

// credential returns the configured credential with any persisted password change
// applied.
func (g *Gate) credential(ctx context.Context, email string) (admin.Credential, bool) {
	g.mu.RLock()
	c, ok := g.credentials[email]
	g.mu.RUnlock()
	if !ok {
		return admin.Credential{}, false
	}

	var overrides map[string]string
	if g.store.Get(ctx, credentialsKey, &overrides) {
		if h, ok := overrides[email]; ok && h != "" {
			c.PasswordHash = h
		}
	}
	return c, true
}

type loginOutcome int

const (
	outcomeSuccess loginOutcome = iota
	outcomeWrongSecret
	outcomeLockedNow
	outcomeStillLocked
)

func (g *Gate) Login(ctx context.Context, input LoginInput) (*admin.PublicSession, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	if err := service.SimulateLatency(ctx, g.latency); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperror.NewValidation(map[string]string{"email": "is required", "password": "is required"})
	}
	span.SetAttributes(attribute.String("email", email))

	cred, ok := g.credential(ctx, email)
	if !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("not_found").Inc()
		g.record(ctx, activity.ActionLoginFailed, map[string]any{"email": email, "reason": "user_not_found"})
		err := apperror.NewNotFound("admin", email)
		span.RecordError(err)
		return nil, err
	}

	now := g.now().UTC()
	var (
		outcome loginOutcome
		state   admin.LoginState
	)
	states := map[string]admin.LoginState{}
	err := g.store.Update(ctx, loginStateKey, &states, func(bool) error {
		state = states[email]
		if state.LockedAt(now) {
			outcome = outcomeStillLocked
			return errSkipWrite
		}
		if state.LockedUntil != nil {
			// The lockout window has elapsed; start counting afresh.
			state = admin.LoginState{}
		}

		if !auth.CheckPasswordHash(input.Password, cred.PasswordHash) {
			state.FailedAttempts++
			outcome = outcomeWrongSecret
			if state.FailedAttempts >= g.maxAttempts {
				until := now.Add(g.lockout)
				state.LockedUntil = &until
				outcome = outcomeLockedNow
			}
			states[email] = state
			return nil
		}

		outcome = outcomeSuccess
		delete(states, email)
		return nil
	})
	if err != nil && !errors.Is(err, errSkipWrite) {
		span.RecordError(err)
		return nil, err
	}

	switch outcome {
	case outcomeStillLocked:
		metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
		err := apperror.NewLocked("admin account", state.LockedUntil.Format(time.RFC3339))
		span.RecordError(err)
		return nil, err
	case outcomeWrongSecret, outcomeLockedNow:
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		if outcome == outcomeLockedNow {
			metrics.LockoutsTotal.Inc()
			g.record(ctx, activity.ActionAccountLocked, map[string]any{"email": email})
		}
		g.record(ctx, activity.ActionLoginFailed, map[string]any{"email": email, "attempts": state.FailedAttempts})
		err := apperror.NewUnauthorized("incorrect password", ErrInvalidCredentials)
		span.RecordError(err)
		return nil, err
	}

	session, err := g.issueSession(ctx, cred)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	g.record(ctx, activity.ActionLoginSuccess, map[string]any{"email": email, "role": string(cred.Role)})
	span.SetAttributes(attribute.String("session_id", session.SessionID))

	pub := session.Public()
	return &pub, nil
}

func (g *Gate) issueSession(ctx context.Context, cred admin.Credential) (*admin.Session, error) {
	perms := admin.PermissionsFor(cred.Role)
	token, claims, err := g.jwtSvc.GenerateToken(auth.SessionClaims{
		SessionID:   uuid.NewString(),
		Email:       normalizeEmail(cred.Email),
		Role:        string(cred.Role),
		Permissions: perms,
	})
	if err != nil {
		g.logger.Error("Failed to generate token", err, zap.String("email", cred.Email))
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	session := &admin.Session{
		SessionID:   claims.SessionID,
		Email:       claims.Email,
		Role:        cred.Role,
		Permissions: perms,
		IssuedAt:    claims.IssuedAt.Time.UTC(),
		ExpiresAt:   claims.ExpiresAt.Time.UTC(),
		Token:       token,
	}
	if err := g.store.Set(ctx, SessionKey, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CheckValidity verifies token against the stored session. A rejected token only
// clears the stored session when its authentic claims identify that session as
// expired. Garbage, forged or foreign tokens leave it untouched.
func (g *Gate) CheckValidity(ctx context.Context, token string) (*admin.Session, error) {
	reject := func(reason error) (*admin.Session, error) {
		return nil, apperror.NewUnauthorized("session is not valid", reason)
	}

	if strings.TrimSpace(token) == "" {
		return reject(ErrNoSession)
	}

	claims, err := g.jwtSvc.ValidateToken(token)
	if err != nil {
		if claims != nil && auth.IsExpired(err) {
			g.expire(ctx, claims.SessionID)
		}
		return reject(err)
	}

	var stored admin.Session
	if !g.store.Get(ctx, SessionKey, &stored) {
		return reject(ErrNoSession)
	}
	if stored.SessionID == "" || stored.Email == "" || stored.SessionID != claims.SessionID {
		return reject(ErrSessionMismatch)
	}
	if g.now().After(stored.ExpiresAt) {
		g.expire(ctx, stored.SessionID)
		return reject(ErrSessionExpired)
	}
	return &stored, nil
}

// expire removes the stored session if it is the one identified by sessionID.
func (g *Gate) expire(ctx context.Context, sessionID string) {
	var stored admin.Session
	if sessionID == "" || !g.store.Get(ctx, SessionKey, &stored) || stored.SessionID != sessionID {
		return
	}
	if err := g.store.Remove(ctx, SessionKey); err != nil {
		g.logger.Error("Failed to clear session", err)
		return
	}
	g.record(ctx, activity.ActionSessionExpired, map[string]any{"email": stored.Email})
}

// CurrentSession returns the stored session without validating a token.
func (g *Gate) CurrentSession(ctx context.Context) (*admin.Session, bool) {
	var s admin.Session
	if !g.store.Get(ctx, SessionKey, &s) || s.SessionID == "" {
		return nil, false
	}
	return &s, true
}

// HasPermission looks up permissions[resource][action] on session. A nil session has
// no permissions.
func HasPermission(session *admin.Session, resource, action string) bool {
	if session == nil {
		return false
	}
	return session.HasPermission(resource, action)
}

func (g *Gate) Logout(ctx context.Context) error {
	return g.endSession(ctx, activity.ActionLogout)
}

// ForceLogout ends the session on the server's initiative, e.g. after inactivity.
func (g *Gate) ForceLogout(ctx context.Context) error {
	return g.endSession(ctx, activity.ActionInactivityLogout)
}

func (g *Gate) endSession(ctx context.Context, action string) error {
	s, ok := g.CurrentSession(ctx)
	if err := g.store.Remove(ctx, SessionKey); err != nil {
		return err
	}
	if ok {
		g.record(ctx, action, map[string]any{"email": s.Email})
	}
	return nil
}

func (g *Gate) record(ctx context.Context, action string, data map[string]any) {
	if g.activity == nil {
		return
	}
	if _, err := g.activity.Append(ctx, action, data); err != nil {
		g.logger.Warn("Failed to record activity", zap.String("action", action), zap.Error(err))
	}
}
