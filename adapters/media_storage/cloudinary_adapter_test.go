package media_storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-portfolio/internal/config"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

func TestUploadParams(t *testing.T) {
	backup := uploadParams("backups/portfolio", "backup-2024-01-20_12-00-00.json")
	assert.Equal(t, resourceRaw, backup.ResourceType)
	assert.Empty(t, backup.Transformation)
	assert.Empty(t, backup.AllowedFormats)
	assert.Equal(t, "backups/portfolio", backup.Folder)

	picture := uploadParams("portfolio/en", "profile-picture")
	assert.Equal(t, resourceImage, picture.ResourceType)
	assert.Equal(t, pictureTransformation, picture.Transformation)
	assert.Contains(t, picture.AllowedFormats, "png")
	require.NotNil(t, picture.Overwrite)
	assert.True(t, *picture.Overwrite)
}

func TestNewCloudinaryAdapter_RequiresCloudName(t *testing.T) {
	_, err := NewCloudinaryAdapter(config.Config{}, logger.NewNop())
	assert.Error(t, err)
}
