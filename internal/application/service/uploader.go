package service

import (
	"context"
	"io"
)

// Uploader stores an asset under folder/publicID and returns its public URL. A
// publicID ending in ".json" is stored as a raw document, anything else as an image.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
}
