package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/validate"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// DateLayout is the calendar-date format used for registration and last-login dates.
const DateLayout = "2006-01-02"

const MinPasswordLength = 6

type User struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Role             Role    `json:"role"`
	Status           Status  `json:"status"`
	RegistrationDate string  `json:"registrationDate"`
	LastLogin        *string `json:"lastLogin"`
	ProfileImage     *string `json:"profileImage"`
	PasswordHash     string  `json:"passwordHash,omitempty"`
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)

func (u *User) Validate() error {
	fields := map[string]string{}
	if !validate.Required(u.Name) {
		fields["name"] = "is required"
	}
	if !validate.Required(u.Email) {
		fields["email"] = "is required"
	} else if !validate.Email(u.Email) {
		fields["email"] = "must be a valid email"
	}
	switch u.Role {
	case RoleUser, RoleAdmin:
	default:
		fields["role"] = "must be one of: user admin"
	}
	switch u.Status {
	case StatusActive, StatusInactive:
	default:
		fields["status"] = "must be one of: active inactive"
	}
	if len(fields) > 0 {
		return apperror.NewValidation(fields)
	}
	return nil
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) ToggleStatus() {
	if u.Status == StatusActive {
		u.Status = StatusInactive
		return
	}
	u.Status = StatusActive
}

func (u *User) TouchLogin(now time.Time) {
	d := now.Format(DateLayout)
	u.LastLogin = &d
}

// RegisteredAfter reports whether the registration date is later than t. Unparsable
// dates count as never.
func (u *User) RegisteredAfter(t time.Time) bool {
	reg, err := time.Parse(DateLayout, u.RegistrationDate)
	if err != nil {
		return false
	}
	return reg.After(t)
}

// Matches is the case-insensitive search used by the admin table.
func (u *User) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.Name), term) ||
		strings.Contains(strings.ToLower(u.Email), term) ||
		strings.Contains(u.Phone, term)
}

func SampleUsers() []User {
	return []User{
		{ID: 1, Name: "أحمد محمد", Email: "ahmed@example.com", Phone: "+966501234567", Role: RoleUser, Status: StatusActive, RegistrationDate: "2024-01-15", LastLogin: date("2024-01-20")},
		{ID: 2, Name: "فاطمة علي", Email: "fatima@example.com", Phone: "+966507654321", Role: RoleUser, Status: StatusActive, RegistrationDate: "2024-01-10", LastLogin: date("2024-01-19")},
		{ID: 3, Name: "محمد السعيد", Email: "mohammed@example.com", Phone: "+966509876543", Role: RoleUser, Status: StatusInactive, RegistrationDate: "2024-01-05", LastLogin: date("2024-01-15")},
	}
}

func date(s string) *string { return &s }

type Repository interface {
	List(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Mutate replaces the whole list with fn's result under the list's write lock.
	Mutate(ctx context.Context, fn func(users []User) ([]User, error)) error
	// Seed stores users only if no list has been saved yet.
	Seed(ctx context.Context, users []User) (bool, error)
}
