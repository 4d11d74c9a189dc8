package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-portfolio/pkg/apperror"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"  user.name@mail.example.org ", true},
		{"a@b", false},
		{"not-an-email", false},
		{"a b@c.com", false},
		{"a@b .com", false},
		{"", false},
		{"@b.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		wantScore int
		wantLabel StrengthLabel
	}{
		{"empty", "", 0, StrengthWeak},
		{"short lowercase", "abc", 1, StrengthWeak},
		{"long lowercase", "abcdefgh", 2, StrengthMedium},
		{"lowercase upper digit short", "Ab1", 3, StrengthStrong},
		{"all categories capped", "Abcdef12!", 4, StrengthVeryStrong},
		{"repeats count once", "aaaaaaaaaaaaaa", 2, StrengthMedium},
		{"arabic counts as symbol", "كلمة", 1, StrengthWeak},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PasswordStrength(tt.password)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestRequired(t *testing.T) {
	assert.True(t, Required("x"))
	assert.False(t, Required("   "))
	assert.False(t, Required(""))
}

func TestHexColor(t *testing.T) {
	assert.True(t, HexColor("#4f46e5"))
	assert.True(t, HexColor("#FFF"))
	assert.False(t, HexColor("4f46e5"))
	assert.False(t, HexColor("#4f46e"))
	assert.False(t, HexColor("#zzzzzz"))
}

type signupForm struct {
	Email    string `validate:"cvemail"`
	Name     string `validate:"notblank"`
	Password string `validate:"min=8"`
	Confirm  string `validate:"eqfield=Password"`
}

func TestStruct(t *testing.T) {
	err := Struct(signupForm{Email: "a@b", Name: " ", Password: "short", Confirm: "other"})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, "must be a valid email", appErr.Fields["email"])
	assert.Equal(t, "is required", appErr.Fields["name"])
	assert.Equal(t, "must be at least 8 characters", appErr.Fields["password"])
	assert.Equal(t, "does not match", appErr.Fields["confirm"])

	assert.NoError(t, Struct(signupForm{Email: "a@b.com", Name: "Sara", Password: "longenough", Confirm: "longenough"}))
}
