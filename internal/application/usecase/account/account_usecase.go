package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/internal/application/service"
	"github.com/khoahotran/cv-portfolio/internal/domain/user"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/auth"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
	"github.com/khoahotran/cv-portfolio/pkg/validate"
)

const CurrentUserKey = "currentUser"

var (
	ErrBadCredentials  = errors.New("email or password is incorrect")
	ErrAccountInactive = errors.New("account is inactive")
)

var tracer = otel.Tracer("account_usecase")

// CurrentUser is the signed-in visitor. Registration fills the name fields and
// RegistrationTime; sign-in fills LoginTime.
type CurrentUser struct {
	FirstName        string     `json:"firstName,omitempty"`
	LastName         string     `json:"lastName,omitempty"`
	Email            string     `json:"email"`
	RegistrationTime *time.Time `json:"registrationTime,omitempty"`
	LoginTime        *time.Time `json:"loginTime,omitempty"`
}

type AccountUseCase struct {
	store   *storage.Store
	users   user.Repository
	logger  logger.Logger
	latency time.Duration
	now     func() time.Time
}

func NewAccountUseCase(store *storage.Store, users user.Repository, log logger.Logger, latency time.Duration) *AccountUseCase {
	return &AccountUseCase{store: store, users: users, logger: log, latency: latency, now: time.Now}
}

func (uc *AccountUseCase) WithClock(now func() time.Time) *AccountUseCase {
	uc.now = now
	return uc
}

type RegisterInput struct {
	FirstName       string `validate:"notblank"`
	LastName        string `validate:"notblank"`
	Email           string `validate:"cvemail"`
	Password        string `validate:"min=8"`
	ConfirmPassword string `validate:"eqfield=Password"`
	AgreeTerms      bool   `validate:"required"`
}

// Register creates a regular user and signs it in.
func (uc *AccountUseCase) Register(ctx context.Context, input RegisterInput) (*CurrentUser, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if err := service.SimulateLatency(ctx, uc.latency); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	now := uc.now()
	u := user.User{
		Name:             strings.TrimSpace(input.FirstName) + " " + strings.TrimSpace(input.LastName),
		Email:            strings.TrimSpace(input.Email),
		Role:             user.RoleUser,
		Status:           user.StatusActive,
		RegistrationDate: now.Format(user.DateLayout),
		PasswordHash:     hash,
	}
	err = uc.users.Mutate(ctx, func(users []user.User) ([]user.User, error) {
		u.ID = now.UnixMilli()
		for i := range users {
			if strings.EqualFold(users[i].Email, u.Email) {
				return nil, apperror.NewConflict("user", "email", u.Email)
			}
			if users[i].ID >= u.ID {
				u.ID = users[i].ID + 1
			}
		}
		return append(users, u), nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	current := &CurrentUser{
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		Email:            u.Email,
		RegistrationTime: &now,
	}
	if err := uc.store.Set(ctx, CurrentUserKey, current); err != nil {
		return nil, err
	}
	uc.logger.Info("Account registered", zap.Int64("user_id", u.ID))
	return current, nil
}

type SignInInput struct {
	Email    string `validate:"cvemail"`
	Password string `validate:"min=8"`
}

func (uc *AccountUseCase) SignIn(ctx context.Context, input SignInInput) (*CurrentUser, error) {
	ctx, span := tracer.Start(ctx, "SignIn")
	defer span.End()

	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if err := service.SimulateLatency(ctx, uc.latency); err != nil {
		return nil, err
	}

	u, err := uc.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewUnauthorized("sign in failed", ErrBadCredentials)
		}
		return nil, err
	}
	if u.PasswordHash == "" || !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		return nil, apperror.NewUnauthorized("sign in failed", ErrBadCredentials)
	}
	if !u.IsActive() {
		return nil, apperror.NewPermissionDenied(ErrAccountInactive.Error())
	}

	now := uc.now()
	id := u.ID
	err = uc.users.Mutate(ctx, func(users []user.User) ([]user.User, error) {
		for i := range users {
			if users[i].ID == id {
				users[i].TouchLogin(now)
			}
		}
		return users, nil
	})
	if err != nil {
		uc.logger.Warn("Failed to update last login", zap.Int64("user_id", id), zap.Error(err))
	}

	current := &CurrentUser{Email: u.Email, LoginTime: &now}
	if err := uc.store.Set(ctx, CurrentUserKey, current); err != nil {
		return nil, err
	}
	return current, nil
}

// CurrentUser returns the signed-in visitor, if any.
func (uc *AccountUseCase) CurrentUser(ctx context.Context) (*CurrentUser, bool) {
	var current CurrentUser
	if !uc.store.Get(ctx, CurrentUserKey, &current) || current.Email == "" {
		return nil, false
	}
	return &current, true
}

func (uc *AccountUseCase) SignOut(ctx context.Context) error {
	return uc.store.Remove(ctx, CurrentUserKey)
}
