package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/internal/application/service"
	activityuc "github.com/khoahotran/cv-portfolio/internal/application/usecase/activity"
	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
	"github.com/khoahotran/cv-portfolio/internal/domain/admin"
	"github.com/khoahotran/cv-portfolio/internal/domain/profile"
	"github.com/khoahotran/cv-portfolio/internal/domain/user"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const Folder = "backups/portfolio"

// Bundle is everything needed to rebuild the store: every saved locale profile, the
// user list and the activity log.
type Bundle struct {
	CreatedAt   time.Time                       `json:"createdAt"`
	CreatedBy   string                          `json:"createdBy"`
	Profiles    map[i18n.Locale]*profile.Record `json:"profiles"`
	Users       []user.User                     `json:"users"`
	ActivityLog []activity.Entry                `json:"activityLog"`
}

type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Size     int    `json:"size"`
}

type BackupUseCase struct {
	profileRepo profile.Repository
	userRepo    user.Repository
	activityLog *activityuc.Log
	uploader    service.Uploader
	logger      logger.Logger
	now         func() time.Time
}

func NewBackupUseCase(profileRepo profile.Repository, userRepo user.Repository, activityLog *activityuc.Log, uploader service.Uploader, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		activityLog: activityLog,
		uploader:    uploader,
		logger:      log,
		now:         time.Now,
	}
}

func (uc *BackupUseCase) WithClock(now func() time.Time) *BackupUseCase {
	uc.now = now
	return uc
}

func (uc *BackupUseCase) Execute(ctx context.Context) (*Result, error) {
	session, ok := admin.FromContext(ctx)
	if !ok {
		return nil, apperror.NewUnauthorized("an admin session is required", nil)
	}
	if !session.HasPermission("system", "backup") {
		return nil, apperror.NewPermissionDenied("system.backup is not granted to " + string(session.Role))
	}
	if uc.uploader == nil {
		return nil, apperror.NewInternal("backup storage is not configured", nil)
	}

	uc.logger.Info("Starting portfolio backup...")

	now := uc.now().UTC()
	bundle := Bundle{
		CreatedAt: now,
		CreatedBy: session.Email,
		Profiles:  map[i18n.Locale]*profile.Record{},
	}
	for _, l := range i18n.Supported() {
		p, err := uc.profileRepo.Get(ctx, l)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("backup profile %s failed: %w", l, err)
		}
		bundle.Profiles[l] = p
	}
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup users failed: %w", err)
	}
	bundle.Users = users
	bundle.ActivityLog = uc.activityLog.All(ctx)

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, apperror.NewInternal("failed to encode backup", err)
	}

	timestamp := now.Format("2006-01-02_15-04-05")
	publicID := fmt.Sprintf("backup-%s.json", timestamp)

	uploadURL, err := uc.uploader.Upload(ctx, bytes.NewReader(data), Folder, publicID)
	if err != nil {
		uc.logger.Error("Failed to upload backup to Cloudinary", err)
		return nil, apperror.NewInternal("failed to upload backup", err)
	}

	if _, err := uc.activityLog.Append(ctx, activity.ActionBackupCreated, map[string]any{"url": uploadURL, "size": len(data)}); err != nil {
		uc.logger.Warn("Failed to record activity", zap.String("action", activity.ActionBackupCreated), zap.Error(err))
	}

	uc.logger.Info("Portfolio backup completed and uploaded successfully",
		zap.String("url", uploadURL),
		zap.String("public_id", publicID),
	)
	return &Result{URL: uploadURL, PublicID: Folder + "/" + publicID, Size: len(data)}, nil
}
