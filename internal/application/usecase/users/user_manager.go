package users

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	activityuc "github.com/khoahotran/cv-portfolio/internal/application/usecase/activity"
	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
	"github.com/khoahotran/cv-portfolio/internal/domain/admin"
	"github.com/khoahotran/cv-portfolio/internal/domain/user"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/auth"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	recentWindow   = 7 * 24 * time.Hour
)

type SortField string

const (
	SortByName             SortField = "name"
	SortByEmail            SortField = "email"
	SortByRegistrationDate SortField = "registrationDate"
	SortByLastLogin        SortField = "lastLogin"
)

type UserManager struct {
	repo     user.Repository
	activity activityuc.Recorder
	logger   logger.Logger
	now      func() time.Time
}

func NewUserManager(repo user.Repository, recorder activityuc.Recorder, log logger.Logger) *UserManager {
	return &UserManager{repo: repo, activity: recorder, logger: log, now: time.Now}
}

func (m *UserManager) WithClock(now func() time.Time) *UserManager {
	m.now = now
	return m
}

// EnsureSeeded stores the sample users when no user list has been saved yet.
func (m *UserManager) EnsureSeeded(ctx context.Context) error {
	seeded, err := m.repo.Seed(ctx, user.SampleUsers())
	if err != nil {
		return fmt.Errorf("seed users failed: %w", err)
	}
	if seeded {
		m.logger.Info("Seeded sample users", zap.Int("count", len(user.SampleUsers())))
	}
	return nil
}

func authorize(ctx context.Context, resource, action string) (*admin.Session, error) {
	s, ok := admin.FromContext(ctx)
	if !ok {
		return nil, apperror.NewUnauthorized("an admin session is required", nil)
	}
	if !s.HasPermission(resource, action) {
		return nil, apperror.NewPermissionDenied(fmt.Sprintf("%s.%s is not granted to %s", resource, action, s.Role))
	}
	return s, nil
}

type ListQuery struct {
	Search  string
	SortBy  SortField
	Order   string
	Page    int
	PerPage int
}

type ListResult struct {
	Users      []user.User `json:"users"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PerPage    int         `json:"perPage"`
	TotalPages int         `json:"totalPages"`
}

func (m *UserManager) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if _, err := authorize(ctx, "users", "view"); err != nil {
		return nil, err
	}
	all, err := m.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}

	filtered := make([]user.User, 0, len(all))
	for i := range all {
		if all[i].Matches(q.Search) {
			filtered = append(filtered, all[i])
		}
	}
	sortUsers(filtered, q.SortBy, strings.EqualFold(q.Order, "desc"))

	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	start := (q.Page - 1) * q.PerPage
	end := start + q.PerPage
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return &ListResult{
		Users:      filtered[start:end],
		Total:      len(filtered),
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: (len(filtered) + q.PerPage - 1) / q.PerPage,
	}, nil
}

func sortKey(u *user.User, by SortField) string {
	switch by {
	case SortByEmail:
		return strings.ToLower(u.Email)
	case SortByRegistrationDate:
		return u.RegistrationDate
	case SortByLastLogin:
		if u.LastLogin == nil {
			return ""
		}
		return *u.LastLogin
	default:
		return strings.ToLower(u.Name)
	}
}

func sortUsers(users []user.User, by SortField, desc bool) {
	sort.SliceStable(users, func(i, j int) bool {
		a, b := sortKey(&users[i], by), sortKey(&users[j], by)
		if desc {
			return a > b
		}
		return a < b
	})
}

// Get returns one user and records that it was viewed.
func (m *UserManager) Get(ctx context.Context, id int64) (*user.User, error) {
	if _, err := authorize(ctx, "users", "view"); err != nil {
		return nil, err
	}
	u, err := m.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.record(ctx, activity.ActionUserViewed, map[string]any{"userId": u.ID, "userName": u.Name})
	return u, nil
}

type CreateUserInput struct {
	Name            string
	Email           string
	Phone           string
	Role            user.Role
	Status          user.Status
	Password        string
	ConfirmPassword string
}

func (m *UserManager) Create(ctx context.Context, input CreateUserInput) (*user.User, error) {
	if _, err := authorize(ctx, "users", "create"); err != nil {
		return nil, err
	}

	u := user.User{
		Name:   strings.TrimSpace(input.Name),
		Email:  strings.TrimSpace(input.Email),
		Phone:  strings.TrimSpace(input.Phone),
		Role:   input.Role,
		Status: input.Status,
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	if u.Status == "" {
		u.Status = user.StatusActive
	}

	fields := validationFields(u.Validate())
	if utf8.RuneCountInString(input.Password) < user.MinPasswordLength {
		fields["password"] = fmt.Sprintf("must be at least %d characters", user.MinPasswordLength)
	} else if input.Password != input.ConfirmPassword {
		fields["confirmPassword"] = "passwords do not match"
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidation(fields)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}
	u.PasswordHash = hash
	now := m.now()
	u.RegistrationDate = now.Format(user.DateLayout)

	err = m.repo.Mutate(ctx, func(users []user.User) ([]user.User, error) {
		if emailTaken(users, u.Email, 0) {
			return nil, apperror.NewConflict("user", "email", u.Email)
		}
		u.ID = nextID(users, now.UnixMilli())
		return append(users, u), nil
	})
	if err != nil {
		return nil, err
	}

	m.record(ctx, activity.ActionUserCreated, map[string]any{"userId": u.ID, "userName": u.Name})
	return &u, nil
}

type UpdateUserInput struct {
	ID     int64
	Name   string
	Email  string
	Phone  string
	Role   user.Role
	Status user.Status
}

// Update overwrites the editable fields of an existing user. Registration date, last
// login, picture and password are kept.
func (m *UserManager) Update(ctx context.Context, input UpdateUserInput) (*user.User, error) {
	if _, err := authorize(ctx, "users", "edit"); err != nil {
		return nil, err
	}

	var updated user.User
	err := m.repo.Mutate(ctx, func(users []user.User) ([]user.User, error) {
		i := indexOf(users, input.ID)
		if i < 0 {
			return nil, apperror.NewNotFound("user", fmt.Sprint(input.ID))
		}
		u := users[i]
		u.Name = strings.TrimSpace(input.Name)
		u.Email = strings.TrimSpace(input.Email)
		u.Phone = strings.TrimSpace(input.Phone)
		if input.Role != "" {
			u.Role = input.Role
		}
		if input.Status != "" {
			u.Status = input.Status
		}
		if err := u.Validate(); err != nil {
			return nil, err
		}
		if emailTaken(users, u.Email, u.ID) {
			return nil, apperror.NewConflict("user", "email", u.Email)
		}
		users[i] = u
		updated = u
		return users, nil
	})
	if err != nil {
		return nil, err
	}

	m.record(ctx, activity.ActionUserUpdated, map[string]any{"userId": updated.ID, "userName": updated.Name})
	return &updated, nil
}

func (m *UserManager) Delete(ctx context.Context, id int64) error {
	if _, err := authorize(ctx, "users", "delete"); err != nil {
		return err
	}

	var removed user.User
	err := m.repo.Mutate(ctx, func(users []user.User) ([]user.User, error) {
		i := indexOf(users, id)
		if i < 0 {
			return nil, apperror.NewNotFound("user", fmt.Sprint(id))
		}
		removed = users[i]
		return append(users[:i], users[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	m.record(ctx, activity.ActionUserDeleted, map[string]any{"userId": removed.ID, "userName": removed.Name})
	return nil
}

func (m *UserManager) ToggleStatus(ctx context.Context, id int64) (*user.User, error) {
	if _, err := authorize(ctx, "users", "edit"); err != nil {
		return nil, err
	}

	var toggled user.User
	err := m.repo.Mutate(ctx, func(users []user.User) ([]user.User, error) {
		i := indexOf(users, id)
		if i < 0 {
			return nil, apperror.NewNotFound("user", fmt.Sprint(id))
		}
		users[i].ToggleStatus()
		toggled = users[i]
		return users, nil
	})
	if err != nil {
		return nil, err
	}

	m.record(ctx, activity.ActionUserStatusChanged, map[string]any{
		"userId":    toggled.ID,
		"userName":  toggled.Name,
		"newStatus": string(toggled.Status),
	})
	return &toggled, nil
}

type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Admins   int `json:"admins"`
	Regular  int `json:"regular"`
	Recent   int `json:"recent"`
}

// Stats counts users by status and role. Recent users registered within the last
// seven days.
func (m *UserManager) Stats(ctx context.Context) (*Stats, error) {
	if _, err := authorize(ctx, "analytics", "view"); err != nil {
		return nil, err
	}
	users, err := m.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("user stats failed: %w", err)
	}

	weekAgo := m.now().Add(-recentWindow)
	st := &Stats{Total: len(users)}
	for i := range users {
		if users[i].IsActive() {
			st.Active++
		}
		if users[i].Role == user.RoleAdmin {
			st.Admins++
		}
		if users[i].RegisteredAfter(weekAgo) {
			st.Recent++
		}
	}
	st.Inactive = st.Total - st.Active
	st.Regular = st.Total - st.Admins
	return st, nil
}

func (m *UserManager) record(ctx context.Context, action string, data map[string]any) {
	if m.activity == nil {
		return
	}
	if _, err := m.activity.Append(ctx, action, data); err != nil {
		m.logger.Warn("Failed to record activity", zap.String("action", action), zap.Error(err))
	}
}

func validationFields(err error) map[string]string {
	fields := map[string]string{}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		maps.Copy(fields, appErr.Fields)
	}
	return fields
}

func indexOf(users []user.User, id int64) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

func emailTaken(users []user.User, email string, except int64) bool {
	for i := range users {
		if users[i].ID != except && strings.EqualFold(users[i].Email, email) {
			return true
		}
	}
	return false
}

// nextID returns candidate, or the next free id above it when two users are created
// within the same millisecond.
func nextID(users []user.User, candidate int64) int64 {
	for indexOf(users, candidate) >= 0 {
		candidate++
	}
	return candidate
}
