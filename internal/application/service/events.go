package service

import (
	"context"
	"time"

	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
)

type ProfileEventType string

const (
	ProfileEventSaved    ProfileEventType = "profile.saved"
	ProfileEventReset    ProfileEventType = "profile.reset"
	ProfileEventImported ProfileEventType = "profile.imported"
)

type ProfileEvent struct {
	EventType ProfileEventType `json:"event_type"`
	Locale    string           `json:"locale"`
	At        time.Time        `json:"at"`
}

// EventPublisher fans domain events out to other processes. Publishing is best effort:
// callers log failures and carry on.
type EventPublisher interface {
	PublishProfileEvent(ctx context.Context, e ProfileEvent) error
	PublishActivityEvent(ctx context.Context, e activity.Entry) error
}
