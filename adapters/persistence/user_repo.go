package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/khoahotran/cv-portfolio/internal/domain/user"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
)

const usersKey = "users"

type kvUserRepo struct {
	store *storage.Store
}

// NewKVUserRepo keeps all users as one JSON array under the "users" key.
func NewKVUserRepo(store *storage.Store) user.Repository {
	return &kvUserRepo{store: store}
}

func (r *kvUserRepo) List(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if !r.store.Get(ctx, usersKey, &users) || users == nil {
		return []user.User{}, nil
	}
	return users, nil
}

func (r *kvUserRepo) FindByID(ctx context.Context, id int64) (*user.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, apperror.NewNotFound("user", formatID(id))
}

func (r *kvUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, strings.TrimSpace(email)) {
			return &users[i], nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *kvUserRepo) Mutate(ctx context.Context, fn func(users []user.User) ([]user.User, error)) error {
	var users []user.User
	return r.store.Update(ctx, usersKey, &users, func(bool) error {
		next, err := fn(users)
		if err != nil {
			return err
		}
		if next == nil {
			next = []user.User{}
		}
		users = next
		return nil
	})
}

func (r *kvUserRepo) Seed(ctx context.Context, seed []user.User) (bool, error) {
	var users []user.User
	seeded := false
	err := r.store.Update(ctx, usersKey, &users, func(found bool) error {
		if found {
			return errSkipWrite
		}
		users = seed
		seeded = true
		return nil
	})
	if errors.Is(err, errSkipWrite) {
		return false, nil
	}
	return seeded, err
}
