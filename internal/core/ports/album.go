package ports

import (
	"context"
	"mime/multipart"

	"github.com/melodia/music-catalog-api/internal/core/domain"
)

// SearchAlbumsInput filters and paginates the album collection. Zero values
// mean "no filter".
type SearchAlbumsInput struct {
	ArtistID string
	Title    string
	Year     int
	Page     int64
	Limit    int64
}

// AlbumPage is one page of albums sorted by title.
type AlbumPage struct {
	Items []domain.Album `json:"items"`
	Total int64          `json:"total"`
	Page  int64          `json:"page"`
	Limit int64          `json:"limit"`
}

// AlbumDetail is an album together with its songs.
type AlbumDetail struct {
	Album domain.Album  `json:"album"`
	Songs []domain.Song `json:"songs"`
}

type AlbumRepository interface {
	Create(ctx context.Context, album *domain.Album) (*domain.Album, error)
	FindByID(ctx context.Context, id string) (*domain.Album, error)
	FindByArtist(ctx context.Context, artistID string) ([]domain.Album, error)
	Search(ctx context.Context, in SearchAlbumsInput) ([]domain.Album, int64, error)
	Update(ctx context.Context, album *domain.Album) error
	Delete(ctx context.Context, id string) error
	DeleteByArtist(ctx context.Context, artistID string) error
}

// AlbumInput carries album fields for create and update. On update, zero
// fields are unchanged.
type AlbumInput struct {
	Title    string
	Year     int
	ArtistID string
}

type AlbumService interface {
	Get(ctx context.Context, id string) (*AlbumDetail, error)
	Search(ctx context.Context, in SearchAlbumsInput) (*AlbumPage, error)
	Create(ctx context.Context, in AlbumInput, cover *multipart.FileHeader) (*domain.Album, error)
	Update(ctx context.Context, id string, in AlbumInput, cover *multipart.FileHeader) (*domain.Album, error)
	Delete(ctx context.Context, id string) error
}
