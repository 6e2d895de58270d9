package ports

import (
	"context"
	"mime/multipart"

	"github.com/melodia/music-catalog-api/internal/core/domain"
)

// ListArtistsInput filters and paginates the artist collection.
type ListArtistsInput struct {
	Name  string
	Page  int64
	Limit int64
}

// ArtistPage is one page of artists sorted by name.
type ArtistPage struct {
	Items []domain.Artist `json:"items"`
	Total int64           `json:"total"`
	Page  int64           `json:"page"`
	Limit int64           `json:"limit"`
}

// ArtistDetail is an artist together with their albums.
type ArtistDetail struct {
	Artist domain.Artist  `json:"artist"`
	Albums []domain.Album `json:"albums"`
}

type ArtistRepository interface {
	Create(ctx context.Context, artist *domain.Artist) (*domain.Artist, error)
	FindByID(ctx context.Context, id string) (*domain.Artist, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, in ListArtistsInput) ([]domain.Artist, int64, error)
	Update(ctx context.Context, artist *domain.Artist) error
	Delete(ctx context.Context, id string) error
}

// ArtistInput carries artist fields for create and update. On update, empty
// fields are unchanged.
type ArtistInput struct {
	Name        string
	Description string
}

type ArtistService interface {
	List(ctx context.Context, in ListArtistsInput) (*ArtistPage, error)
	Get(ctx context.Context, id string) (*ArtistDetail, error)
	Create(ctx context.Context, in ArtistInput, image *multipart.FileHeader) (*domain.Artist, error)
	Update(ctx context.Context, id string, in ArtistInput, image *multipart.FileHeader) (*domain.Artist, error)
	Delete(ctx context.Context, id string) error
}
