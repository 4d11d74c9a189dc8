package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/adapters/event"
	httpAdapter "github.com/khoahotran/cv-portfolio/adapters/http"
	"github.com/khoahotran/cv-portfolio/adapters/media_storage"
	"github.com/khoahotran/cv-portfolio/adapters/persistence"
	"github.com/khoahotran/cv-portfolio/internal/application/service"
	accountUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/account"
	activityUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/activity"
	authUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/auth"
	backupUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/backup"
	portfolioUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/portfolio"
	"github.com/khoahotran/cv-portfolio/internal/application/usecase/preference"
	profileUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/profile"
	usersUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/users"
	"github.com/khoahotran/cv-portfolio/internal/config"
	"github.com/khoahotran/cv-portfolio/internal/domain/admin"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/auth"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
	"github.com/khoahotran/cv-portfolio/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start CV Portfolio API Server...", zap.String("env", cfg.App.Env))

	tp, err := tracing.NewTracerProvider(cfg.Jaeger.OTLPEndpoint, appLogger, "cv-portfolio-api")
	if err != nil {
		appLogger.Fatal("Cannot init tracer provider", err)
	}
	defer tracing.Shutdown(tp, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	backend, conns, err := persistence.NewBackend(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open storage backend", err, zap.String("backend", cfg.Storage.Backend))
	}
	defer conns.Close()
	store := storage.NewStore(backend, cfg.Storage.Namespace, appLogger)

	// Events
	var publisher service.EventPublisher = event.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	} else {
		appLogger.Warn("Kafka brokers not configured, events will not be published")
	}

	// Media
	var uploader service.Uploader
	if cfg.Cloudinary.CloudName != "" {
		uploader, err = media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}
	} else {
		appLogger.Warn("Cloudinary not configured, picture upload and backup are disabled")
	}

	// Activity log
	activityLog := activityUC.NewLog(store, publisher, appLogger, activityUC.Options{
		MaxEntries:   cfg.Activity.MaxEntries,
		DefaultLimit: cfg.Activity.DefaultLimit,
	})
	if n, err := activityLog.PruneOlderThan(ctx, cfg.Activity.Retention); err != nil {
		appLogger.Error("Cannot prune activity log", err)
	} else if n > 0 {
		appLogger.Info("Pruned old activity entries", zap.Int("removed", n))
	}

	// Admin gate
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.SessionLifespan)
	gate := authUC.NewGate(store, jwtSvc, activityLog, appLogger, adminCredentials(cfg), authUC.Options{
		MaxAttempts:      cfg.Auth.MaxAttempts,
		LockoutDuration:  cfg.Auth.LockoutDuration,
		SimulatedLatency: cfg.App.SimulatedLatency,
	})
	watchdog := authUC.NewWatchdog(gate, cfg.Auth.IdleTimeout, cfg.Auth.IdleCheckInterval, appLogger)
	go watchdog.Run(ctx)

	// Repositories
	profileRepo := persistence.NewKVProfileRepo(store, appLogger)
	userRepo := persistence.NewKVUserRepo(store)

	// Use Cases
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, publisher, uploader, activityLog, appLogger, cfg.App.SimulatedLatency)
	autoSaver := profileUC.NewAutoSaver(profileUseCase, cfg.Profile.AutosaveDelay, appLogger)
	userManager := usersUC.NewUserManager(userRepo, activityLog, appLogger)
	if err := userManager.EnsureSeeded(ctx); err != nil {
		appLogger.Error("Cannot seed user list", err)
	}
	accountUseCase := accountUC.NewAccountUseCase(store, userRepo, appLogger, cfg.App.SimulatedLatency)
	languageUseCase := preference.NewLanguageUseCase(store)
	backupUseCase := backupUC.NewBackupUseCase(profileRepo, userRepo, activityLog, uploader, appLogger)
	portfolioUseCase := portfolioUC.NewPortfolioUseCase(profileRepo, cfg.App.PublicURL, appLogger)

	// HTTP Handlers
	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Auth:      httpAdapter.NewAuthHandler(gate, appLogger),
		Profile:   httpAdapter.NewProfileHandler(profileUseCase, autoSaver, appLogger),
		Users:     httpAdapter.NewUserHandler(userManager),
		Account:   httpAdapter.NewAccountHandler(accountUseCase),
		Language:  httpAdapter.NewLanguageHandler(languageUseCase),
		Validate:  httpAdapter.NewValidateHandler(),
		Activity:  httpAdapter.NewActivityHandler(activityLog),
		System:    httpAdapter.NewSystemHandler(backupUseCase),
		Portfolio: httpAdapter.NewPortfolioHandler(portfolioUseCase, appLogger),
	}, gate, watchdog, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}

	// pending autosaves are written before the store goes away
	autoSaver.FlushAll()
	appLogger.Info("Server exited")
}

func adminCredentials(cfg config.Config) []admin.Credential {
	creds := make([]admin.Credential, 0, len(cfg.Auth.Admins))
	for _, a := range cfg.Auth.Admins {
		creds = append(creds, admin.Credential{
			Email:        a.Email,
			PasswordHash: a.PasswordHash,
			Role:         admin.Role(a.Role),
		})
	}
	return creds
}
