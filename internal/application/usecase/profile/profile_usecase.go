package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/adapters/metrics"
	"github.com/khoahotran/cv-portfolio/internal/application/service"
	activityuc "github.com/khoahotran/cv-portfolio/internal/application/usecase/activity"
	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
	"github.com/khoahotran/cv-portfolio/internal/domain/profile"
	"github.com/khoahotran/cv-portfolio/internal/formstate"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

type Trigger string

const (
	TriggerManual   Trigger = "manual"
	TriggerAutosave Trigger = "autosave"
	TriggerImport   Trigger = "import"
	TriggerEdit     Trigger = "edit"
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	profileRepo profile.Repository
	publisher   service.EventPublisher
	uploader    service.Uploader
	activity    activityuc.Recorder
	logger      logger.Logger
	latency     time.Duration
	now         func() time.Time
}

// NewProfileUseCase wires the editor operations. uploader may be nil, in which case
// picture uploads are refused.
func NewProfileUseCase(repo profile.Repository, publisher service.EventPublisher, uploader service.Uploader, recorder activityuc.Recorder, log logger.Logger, latency time.Duration) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		publisher:   publisher,
		uploader:    uploader,
		activity:    recorder,
		logger:      log,
		latency:     latency,
		now:         time.Now,
	}
}

type GetProfileInput struct {
	Locale i18n.Locale
}

type GetProfileOutput struct {
	Profile *profile.Record
	Saved   bool
}

// ExecuteGetProfile returns the saved record, or an empty one when nothing usable is
// stored.
func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	p, err := uc.profileRepo.Get(ctx, input.Locale)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return &GetProfileOutput{Profile: profile.New()}, nil
		}
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &GetProfileOutput{Profile: p, Saved: true}, nil
}

type SaveProfileInput struct {
	Locale  i18n.Locale
	Profile *profile.Record
	Trigger Trigger
}

type SaveProfileOutput struct {
	Profile *profile.Record
}

func (uc *ProfileUseCase) ExecuteSaveProfile(ctx context.Context, input SaveProfileInput) (*SaveProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteSaveProfile")
	defer span.End()
	span.SetAttributes(attribute.String("locale", input.Locale.String()))

	if input.Profile == nil {
		return nil, apperror.NewInvalidInput("profile is required", nil)
	}
	if input.Trigger == "" {
		input.Trigger = TriggerManual
	}
	if input.Trigger != TriggerAutosave {
		if err := service.SimulateLatency(ctx, uc.latency); err != nil {
			return nil, err
		}
	}

	p := input.Profile.Clone()
	p.Normalize()
	if err := p.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := uc.profileRepo.Save(ctx, input.Locale, p); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update profile failed: %w", err)
	}

	uc.afterWrite(ctx, input.Locale, input.Trigger, service.ProfileEventSaved, activity.ActionProfileSaved)
	return &SaveProfileOutput{Profile: p}, nil
}

func (uc *ProfileUseCase) ExecuteSaveSurface(ctx context.Context, locale i18n.Locale, s *formstate.Surface, trigger Trigger) (*SaveProfileOutput, error) {
	return uc.ExecuteSaveProfile(ctx, SaveProfileInput{Locale: locale, Profile: formstate.Collect(s), Trigger: trigger})
}

// ExecuteLoadSurface renders the saved record onto a surface that starts from the
// schema defaults.
func (uc *ProfileUseCase) ExecuteLoadSurface(ctx context.Context, locale i18n.Locale) (*formstate.Surface, error) {
	out, err := uc.ExecuteGetProfile(ctx, GetProfileInput{Locale: locale})
	if err != nil {
		return nil, err
	}
	return formstate.Populate(formstate.DefaultSurface(), out.Profile), nil
}

// ExecuteResetProfile deletes the saved record and returns the default surface.
func (uc *ProfileUseCase) ExecuteResetProfile(ctx context.Context, locale i18n.Locale) (*formstate.Surface, error) {
	if err := uc.profileRepo.Delete(ctx, locale); err != nil {
		return nil, fmt.Errorf("reset profile failed: %w", err)
	}
	uc.publish(locale, service.ProfileEventReset)
	uc.record(ctx, activity.ActionProfileReset, map[string]any{"locale": locale.String()})
	return formstate.DefaultSurface(), nil
}

// ExecuteExportProfile renders the record as two-space indented JSON.
func (uc *ProfileUseCase) ExecuteExportProfile(ctx context.Context, locale i18n.Locale) ([]byte, error) {
	out, err := uc.ExecuteGetProfile(ctx, GetProfileInput{Locale: locale})
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(out.Profile, "", "  ")
	if err != nil {
		return nil, apperror.NewInternal("failed to encode profile", err)
	}
	return data, nil
}

func (uc *ProfileUseCase) ExecuteImportProfile(ctx context.Context, locale i18n.Locale, data []byte) (*profile.Record, error) {
	p := profile.New()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, apperror.NewInvalidInput("import file is not a valid profile document", err)
	}
	out, err := uc.ExecuteSaveProfile(ctx, SaveProfileInput{Locale: locale, Profile: p, Trigger: TriggerImport})
	if err != nil {
		return nil, err
	}
	uc.record(ctx, activity.ActionProfileImported, map[string]any{"locale": locale.String()})
	return out.Profile, nil
}

func (uc *ProfileUseCase) ExecuteAddSkill(ctx context.Context, locale i18n.Locale, name string, level profile.SkillLevel) (*profile.Record, error) {
	p, err := uc.profileRepo.Update(ctx, locale, func(r *profile.Record) error {
		return r.AddSkill(name, level)
	})
	if err != nil {
		return nil, err
	}
	uc.afterWrite(ctx, locale, TriggerEdit, service.ProfileEventSaved, activity.ActionProfileSaved)
	return p, nil
}

func (uc *ProfileUseCase) ExecuteRemoveSkill(ctx context.Context, locale i18n.Locale, name string) (*profile.Record, error) {
	p, err := uc.profileRepo.Update(ctx, locale, func(r *profile.Record) error {
		if !r.RemoveSkill(name) {
			return apperror.NewNotFound("skill", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.afterWrite(ctx, locale, TriggerEdit, service.ProfileEventSaved, activity.ActionProfileSaved)
	return p, nil
}

// ExecuteSetCurrentJob flags experience entry index as the current position (clearing
// its end date) or unflags it.
func (uc *ProfileUseCase) ExecuteSetCurrentJob(ctx context.Context, locale i18n.Locale, index int, current bool) (*profile.Record, error) {
	p, err := uc.profileRepo.Update(ctx, locale, func(r *profile.Record) error {
		if index < 0 || index >= len(r.Experience) {
			return apperror.NewNotFound("experience", fmt.Sprint(index))
		}
		r.Experience[index].MarkCurrent(current)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.afterWrite(ctx, locale, TriggerEdit, service.ProfileEventSaved, activity.ActionProfileSaved)
	return p, nil
}

type UploadPictureInput struct {
	Locale   i18n.Locale
	File     io.Reader
	Filename string
}

func (uc *ProfileUseCase) ExecuteUploadPicture(ctx context.Context, input UploadPictureInput) (*profile.Record, error) {
	if uc.uploader == nil {
		return nil, apperror.NewInternal("picture uploads are not configured", nil)
	}
	ext := strings.ToLower(path.Ext(input.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		return nil, apperror.NewValidation(map[string]string{"file": "must be a jpg, png, webp or gif image"})
	}

	folder := fmt.Sprintf("portfolio/%s/pictures", input.Locale)
	url, err := uc.uploader.Upload(ctx, input.File, folder, "profile-picture")
	if err != nil {
		return nil, apperror.NewInternal("failed to upload profile picture", err)
	}

	p, err := uc.profileRepo.Update(ctx, input.Locale, func(r *profile.Record) error {
		r.Personal.ProfilePictureRef = url
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.record(ctx, activity.ActionPictureUploaded, map[string]any{"locale": input.Locale.String(), "url": url})
	return p, nil
}

func (uc *ProfileUseCase) afterWrite(ctx context.Context, locale i18n.Locale, trigger Trigger, event service.ProfileEventType, action string) {
	metrics.ProfileSavesTotal.WithLabelValues(locale.String(), string(trigger)).Inc()
	uc.publish(locale, event)
	uc.record(ctx, action, map[string]any{"locale": locale.String(), "trigger": string(trigger)})
}

func (uc *ProfileUseCase) publish(locale i18n.Locale, eventType service.ProfileEventType) {
	if uc.publisher == nil {
		return
	}
	e := service.ProfileEvent{EventType: eventType, Locale: locale.String(), At: uc.now().UTC()}
	go func() {
		if err := uc.publisher.PublishProfileEvent(context.Background(), e); err != nil {
			uc.logger.Error("Failed to publish Kafka profile event", err, zap.String("locale", e.Locale), zap.String("event_type", string(eventType)))
		}
	}()
}

func (uc *ProfileUseCase) record(ctx context.Context, action string, data map[string]any) {
	if uc.activity == nil {
		return
	}
	if _, err := uc.activity.Append(ctx, action, data); err != nil {
		uc.logger.Warn("Failed to record activity", zap.String("action", action), zap.Error(err))
	}
}
