package ports

import (
	"context"
	"mime/multipart"

	"github.com/melodia/music-catalog-api/internal/core/domain"
)

type SongRepository interface {
	Create(ctx context.Context, song *domain.Song) (*domain.Song, error)
	FindByID(ctx context.Context, id string) (*domain.Song, error)
	FindByAlbum(ctx context.Context, albumID string) ([]domain.Song, error)
	Update(ctx context.Context, song *domain.Song) error
	Delete(ctx context.Context, id string) error
	DeleteByAlbum(ctx context.Context, albumID string) error
}

// SongInput carries song metadata for create and update. On update, zero
// fields are unchanged.
type SongInput struct {
	Name     string
	Number   int
	Duration int
	AlbumID  string
}

type SongService interface {
	Upload(ctx context.Context, in SongInput, file *multipart.FileHeader) (*domain.Song, error)
	ListByAlbum(ctx context.Context, albumID string) ([]domain.Song, error)
	Get(ctx context.Context, id string) (*domain.Song, error)
	Update(ctx context.Context, id string, in SongInput) (*domain.Song, error)
	Delete(ctx context.Context, id string) error
}
