package ports

import (
	"context"
	"mime/multipart"

	"github.com/melodia/music-catalog-api/internal/core/domain"
)

// AssetStorage abstracts the cloud asset store holding images and audio.
type AssetStorage interface {
	// Save uploads the file under the given folder and returns the stored
	// asset reference (object key + public URL).
	Save(ctx context.Context, file *multipart.FileHeader, folder string) (*domain.Asset, error)
	// Delete removes a single object. Unknown keys are not an error.
	Delete(ctx context.Context, key string) error
	// DeleteFolder removes every object under the given prefix.
	DeleteFolder(ctx context.Context, prefix string) error
}

// AssetCleanupQueue accepts asset folders to be removed asynchronously
// after a cascade delete.
type AssetCleanupQueue interface {
	Enqueue(folder string)
}
