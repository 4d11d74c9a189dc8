package activity

import (
	"time"
)

const (
	ActionLoginSuccess      = "login_success"
	ActionLoginFailed       = "login_failed"
	ActionAccountLocked     = "account_locked"
	ActionLogout            = "logout"
	ActionSessionExpired    = "session_expired"
	ActionInactivityLogout  = "inactivity_logout"
	ActionPasswordChange    = "password_change"
	ActionDataExport        = "data_export"
	ActionProfileSaved      = "profile_saved"
	ActionProfileReset      = "profile_reset"
	ActionProfileImported   = "profile_imported"
	ActionPictureUploaded   = "profile_picture_uploaded"
	ActionUserCreated       = "user_created"
	ActionUserUpdated       = "user_updated"
	ActionUserDeleted       = "user_deleted"
	ActionUserStatusChanged = "user_status_changed"
	ActionUserViewed        = "user_viewed"
	ActionUsersExported     = "users_exported"
	ActionBackupCreated     = "backup_created"
)

// Entry is one audit record. Entries are never modified after they are appended.
type Entry struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
	UserAgent string         `json:"userAgent,omitempty"`
	IP        string         `json:"ip,omitempty"`
}

func (e Entry) OlderThan(cutoff time.Time) bool {
	return e.Timestamp.Before(cutoff)
}
