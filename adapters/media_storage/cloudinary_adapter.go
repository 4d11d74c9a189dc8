package media_storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/internal/application/service"
	"github.com/khoahotran/cv-portfolio/internal/config"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const (
	resourceImage = "image"
	resourceRaw   = "raw"

	// profile pictures are served at avatar size; larger originals are scaled down
	pictureTransformation = "c_limit,w_800,h_800"
)

var pictureFormats = api.CldAPIArray{"jpg", "jpeg", "png", "gif", "webp"}

type cloudinaryAdapter struct {
	cld    *cloudinary.Cloudinary
	logger logger.Logger
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.Uploader, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	log.Info("connect Cloudinary successfully.", zap.String("cloud_name", cfg.Cloudinary.CloudName))
	return &cloudinaryAdapter{cld: cld, logger: log}, nil
}

func uploadParams(folder, publicID string) uploader.UploadParams {
	params := uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		Overwrite:      api.Bool(true),
		Invalidate:     api.Bool(true),
		UniqueFilename: api.Bool(false),
	}
	if strings.HasSuffix(publicID, ".json") {
		params.ResourceType = resourceRaw
		return params
	}
	params.ResourceType = resourceImage
	params.AllowedFormats = pictureFormats
	params.Transformation = pictureTransformation
	return params
}

func (a *cloudinaryAdapter) Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error) {
	params := uploadParams(folder, publicID)
	result, err := a.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected %s upload: %s", params.ResourceType, result.Error.Message)
	}
	a.logger.Debug("Uploaded asset",
		zap.String("public_id", result.PublicID),
		zap.String("resource_type", params.ResourceType),
		zap.Int("bytes", result.Bytes),
	)
	return result.SecureURL, nil
}
