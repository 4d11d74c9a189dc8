// Package validate holds the field rules shared by the profile editor, account forms
// and the admin user table. Every function here is pure.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/cv-portfolio/pkg/apperror"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const MinPasswordLength = 8

// Email accepts local@domain.tld with no whitespace anywhere.
func Email(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}

// Required reports whether s is non-empty after trimming.
func Required(s string) bool {
	return strings.TrimSpace(s) != ""
}

func PasswordsMatch(password, confirm string) bool {
	return password == confirm
}

type StrengthLabel string

const (
	StrengthWeak       StrengthLabel = "weak"
	StrengthMedium     StrengthLabel = "medium"
	StrengthStrong     StrengthLabel = "strong"
	StrengthVeryStrong StrengthLabel = "very strong"
)

type Strength struct {
	Score int           `json:"score"`
	Label StrengthLabel `json:"label"`
}

// PasswordStrength scores one point each for length >= 8, a lowercase letter, an
// uppercase letter, a digit and a symbol, capped at 4.
func PasswordStrength(password string) Strength {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}

	score := 0
	for _, ok := range []bool{utf8.RuneCountInString(password) >= MinPasswordLength, lower, upper, digit, symbol} {
		if ok {
			score++
		}
	}
	if score > 4 {
		score = 4
	}
	return Strength{Score: score, Label: strengthLabel(score)}
}

func strengthLabel(score int) StrengthLabel {
	switch score {
	case 0, 1:
		return StrengthWeak
	case 2:
		return StrengthMedium
	case 3:
		return StrengthStrong
	default:
		return StrengthVeryStrong
	}
}

// HexColor accepts #rgb and #rrggbb.
func HexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !unicode.Is(unicode.ASCII_Hex_Digit, r) {
			return false
		}
	}
	return true
}

var std = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	RegisterRules(v)
	return v
}

// RegisterRules adds the cvemail and notblank tags to v. Gin's binding engine is
// passed through here as well so request DTOs share the same rules.
func RegisterRules(v *validator.Validate) {
	_ = v.RegisterValidation("cvemail", func(fl validator.FieldLevel) bool {
		return Email(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return Required(fl.Field().String())
	})
}

// Struct validates v against its `validate` tags and returns an apperror validation
// error keyed by field name.
func Struct(v any) error {
	err := std.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fieldName(fe)] = FieldMessage(fe)
		}
		return apperror.NewValidation(fields)
	}
	return apperror.NewInvalidInput("validation failed", err)
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.Namespace()
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// FieldMessage converts a single validation failure into a human-readable message.
func FieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "cvemail", "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "eqfield":
		return "does not match"
	case "url":
		return "must be a valid URL"
	case "hexcolor":
		return "must be a hex color"
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}
