package auth

import (
	"context"
	"unicode/utf8"

	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/auth"
	"github.com/khoahotran/cv-portfolio/pkg/validate"
)

type ChangePasswordInput struct {
	Email           string
	CurrentPassword string
	NewPassword     string
}

// ChangePassword replaces an admin's password after verifying the current one. The new
// digest is persisted so it survives restarts of a durable backend.
func (g *Gate) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	ctx, span := tracer.Start(ctx, "ChangePassword")
	defer span.End()

	email := normalizeEmail(input.Email)
	cred, ok := g.credential(ctx, email)
	if !ok {
		return apperror.NewNotFound("admin", email)
	}
	if !auth.CheckPasswordHash(input.CurrentPassword, cred.PasswordHash) {
		return apperror.NewUnauthorized("current password is incorrect", ErrInvalidCredentials)
	}
	if utf8.RuneCountInString(input.NewPassword) < validate.MinPasswordLength {
		return apperror.NewValidation(map[string]string{"newPassword": "must be at least 8 characters"})
	}

	if err := g.storePassword(ctx, email, input.NewPassword); err != nil {
		span.RecordError(err)
		return err
	}

	g.record(ctx, activity.ActionPasswordChange, map[string]any{"email": email})
	return nil
}

// ResetPassword sets a configured admin's password without the current one. It is
// meant for operator tooling that already has direct access to the store.
func (g *Gate) ResetPassword(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if _, ok := g.credential(ctx, email); !ok {
		return apperror.NewNotFound("admin", email)
	}
	if utf8.RuneCountInString(password) < validate.MinPasswordLength {
		return apperror.NewValidation(map[string]string{"password": "must be at least 8 characters"})
	}
	if err := g.storePassword(ctx, email, password); err != nil {
		return err
	}
	g.record(ctx, activity.ActionPasswordChange, map[string]any{"email": email, "reset": true})
	return nil
}

func (g *Gate) storePassword(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperror.NewInternal("failed to hash password", err)
	}

	overrides := map[string]string{}
	return g.store.Update(ctx, credentialsKey, &overrides, func(bool) error {
		if overrides == nil {
			overrides = map[string]string{}
		}
		overrides[email] = hash
		return nil
	})
}
