// Package i18n resolves the two supported locales and the handful of labels the
// backend itself emits (CSV headers, strength and level names). Page copy lives in
// the frontend.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

type Locale string

const (
	Arabic  Locale = "ar"
	English Locale = "en"

	Default = Arabic
)

var (
	supported = []language.Tag{language.Arabic, language.English}
	matcher   = language.NewMatcher(supported)
)

func Supported() []Locale {
	return []Locale{Arabic, English}
}

// Parse accepts "ar", "en" and any BCP 47 tag whose base language is one of them
// ("ar-SA", "en_US").
func Parse(s string) (Locale, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	if err != nil {
		return "", fmt.Errorf("unsupported locale %q: %w", s, err)
	}
	base, _ := tag.Base()
	switch base.String() {
	case "ar":
		return Arabic, nil
	case "en":
		return English, nil
	}
	return "", fmt.Errorf("unsupported locale %q", s)
}

// Detect picks the best supported locale for an Accept-Language header, falling back
// to Default.
func Detect(acceptLanguage string) Locale {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Locale(supported[idx].String())
}

func (l Locale) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

func (l Locale) String() string {
	return string(l)
}

var labels = map[Locale]map[string]string{
	Arabic: {
		"weak":           "ضعيفة",
		"medium":         "متوسطة",
		"strong":         "قوية",
		"very strong":    "قوية جداً",
		"beginner":       "مبتدئ",
		"intermediate":   "متوسط",
		"advanced":       "متقدم",
		"expert":         "خبير",
		"admin":          "مدير",
		"user":           "مستخدم",
		"active":         "نشط",
		"inactive":       "غير نشط",
		"present":        "حتى الآن",
		"col.name":       "الاسم",
		"col.email":      "البريد الإلكتروني",
		"col.phone":      "الهاتف",
		"col.role":       "الدور",
		"col.status":     "الحالة",
		"col.registered": "تاريخ التسجيل",
		"col.lastLogin":  "آخر دخول",
	},
	English: {
		"weak":           "Weak",
		"medium":         "Medium",
		"strong":         "Strong",
		"very strong":    "Very Strong",
		"beginner":       "Beginner",
		"intermediate":   "Intermediate",
		"advanced":       "Advanced",
		"expert":         "Expert",
		"admin":          "Admin",
		"user":           "User",
		"active":         "Active",
		"inactive":       "Inactive",
		"present":        "Present",
		"col.name":       "Name",
		"col.email":      "Email",
		"col.phone":      "Phone",
		"col.role":       "Role",
		"col.status":     "Status",
		"col.registered": "Registration Date",
		"col.lastLogin":  "Last Login",
	},
}

// T returns the label for key, or key itself when no translation exists.
func T(l Locale, key string) string {
	if m, ok := labels[l]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
