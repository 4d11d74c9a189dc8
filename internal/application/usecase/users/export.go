package users

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
	"github.com/khoahotran/cv-portfolio/internal/domain/user"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
)

var csvColumns = []string{"col.name", "col.email", "col.phone", "col.role", "col.status", "col.registered", "col.lastLogin"}

// ExportCSV renders every user as CSV with localized headers and role/status labels.
// Every field is quoted so spreadsheet tools keep phone numbers as text.
func (m *UserManager) ExportCSV(ctx context.Context, locale i18n.Locale) ([]byte, error) {
	if _, err := authorize(ctx, "analytics", "export"); err != nil {
		return nil, err
	}
	users, err := m.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export users failed: %w", err)
	}

	var buf bytes.Buffer
	header := make([]string, len(csvColumns))
	for i, c := range csvColumns {
		header[i] = i18n.T(locale, c)
	}
	writeQuotedRow(&buf, header)

	for i := range users {
		u := &users[i]
		buf.WriteByte('\n')
		writeQuotedRow(&buf, []string{
			u.Name,
			u.Email,
			u.Phone,
			i18n.T(locale, string(u.Role)),
			i18n.T(locale, string(u.Status)),
			displayDate(&u.RegistrationDate),
			displayDate(u.LastLogin),
		})
	}

	m.record(ctx, activity.ActionUsersExported, map[string]any{"count": len(users)})
	return buf.Bytes(), nil
}

func writeQuotedRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
}

func displayDate(d *string) string {
	if d == nil || *d == "" {
		return "-"
	}
	return *d
}

// ExportFilename is the download name for an export made at t.
func ExportFilename(t time.Time) string {
	return "users_export_" + t.Format(user.DateLayout) + ".csv"
}
