package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Locale
		wantErr bool
	}{
		{"ar", Arabic, false},
		{"en", English, false},
		{"ar-SA", Arabic, false},
		{"en_US", English, false},
		{"fr", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, English, Detect("en-US,en;q=0.9"))
	assert.Equal(t, Arabic, Detect("ar-EG,ar;q=0.8,en;q=0.5"))
	assert.Equal(t, Default, Detect(""))
	assert.Equal(t, Default, Detect("ja-JP"))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Very Strong", T(English, "very strong"))
	assert.Equal(t, "خبير", T(Arabic, "expert"))
	assert.Equal(t, "missing.key", T(English, "missing.key"))
	assert.Equal(t, "rtl", Arabic.Dir())
	assert.Equal(t, "ltr", English.Dir())
}
