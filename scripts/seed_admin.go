package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/khoahotran/cv-portfolio/adapters/persistence"
	activityUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/activity"
	authUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/auth"
	"github.com/khoahotran/cv-portfolio/internal/config"
	"github.com/khoahotran/cv-portfolio/internal/domain/admin"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/auth"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

// Usage:
//
//	ADMIN_EMAIL=admin@company.com ADMIN_PASSWORD=... go run ./scripts/seed_admin.go
//
// With an email that is already configured under auth.admins the password is rotated
// in the configured store. Otherwise the script prints a config entry to paste.
func main() {
	fmt.Println("seeding admin credential...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	role := os.Getenv("ADMIN_ROLE")
	if role == "" {
		role = string(admin.RoleSuperAdmin)
	}
	if email == "" || password == "" {
		log.Fatalf("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	configured := false
	creds := make([]admin.Credential, 0, len(cfg.Auth.Admins))
	for _, a := range cfg.Auth.Admins {
		creds = append(creds, admin.Credential{Email: a.Email, PasswordHash: a.PasswordHash, Role: admin.Role(a.Role)})
		if a.Email == email {
			configured = true
		}
	}

	if !configured {
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalf("cannot hash password: %v", err)
		}
		fmt.Printf("add this entry under auth.admins in config.yaml:\n\n")
		fmt.Printf("    - email: %q\n      password_hash: %q\n      role: %q\n", email, hash, role)
		return
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	backend, conns, err := persistence.NewBackend(cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot open storage: %v", err)
	}
	defer conns.Close()

	ctx := context.Background()
	store := storage.NewStore(backend, cfg.Storage.Namespace, appLogger)
	activityLog := activityUC.NewLog(store, nil, appLogger, activityUC.Options{MaxEntries: cfg.Activity.MaxEntries})
	gate := authUC.NewGate(store, auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.SessionLifespan), activityLog, appLogger, creds, authUC.Options{})

	if err := gate.ResetPassword(ctx, email, password); err != nil {
		log.Fatalf("cannot reset password: %v", err)
	}

	fmt.Printf("rotated password for admin '%s' successfully!\n", email)
}
