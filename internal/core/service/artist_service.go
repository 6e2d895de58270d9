package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ArtistService implements the artist catalog operations.
type ArtistService struct {
	artists ports.ArtistRepository
	albums  ports.AlbumRepository
	songs   ports.SongRepository
	assets  ports.AssetStorage
	cleanup ports.AssetCleanupQueue
	logger  zerolog.Logger
}

func NewArtistService(artists ports.ArtistRepository, albums ports.AlbumRepository, songs ports.SongRepository, assets ports.AssetStorage, cleanup ports.AssetCleanupQueue, logger zerolog.Logger) *ArtistService {
	return &ArtistService{
		artists: artists,
		albums:  albums,
		songs:   songs,
		assets:  assets,
		cleanup: cleanup,
		logger:  logger,
	}
}

// List returns one page of artists filtered by name and sorted by name.
func (s *ArtistService) List(ctx context.Context, in ports.ListArtistsInput) (*ports.ArtistPage, error) {
	if in.Page <= 0 {
		in.Page = defaultPage
	}
	if in.Limit <= 0 {
		in.Limit = defaultLimit
	}

	items, total, err := s.artists.List(ctx, in)
	if err != nil {
		return nil, err
	}
	return &ports.ArtistPage{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// Get returns an artist together with their albums.
func (s *ArtistService) Get(ctx context.Context, id string) (*ports.ArtistDetail, error) {
	artist, err := s.artists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	albums, err := s.albums.FindByArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.ArtistDetail{Artist: *artist, Albums: albums}, nil
}

func (s *ArtistService) Create(ctx context.Context, in ports.ArtistInput, image *multipart.FileHeader) (*domain.Artist, error) {
	now := time.Now().UTC()
	artist := &domain.Artist{
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.artists.Create(ctx, artist)
	if err != nil {
		return nil, err
	}

	if image != nil {
		asset, err := s.assets.Save(ctx, image, "artists/"+created.ID)
		if err != nil {
			return nil, err
		}
		created.Image = *asset
		if err := s.artists.Update(ctx, created); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Str("artist_id", created.ID).Str("name", created.Name).Msg("artist created")
	return created, nil
}

func (s *ArtistService) Update(ctx context.Context, id string, in ports.ArtistInput, image *multipart.FileHeader) (*domain.Artist, error) {
	if in == (ports.ArtistInput{}) && image == nil {
		return nil, domain.ErrNothingToUpdate
	}

	artist, err := s.artists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		artist.Name = in.Name
	}
	if in.Description != "" {
		artist.Description = in.Description
	}

	oldImage := artist.Image
	if image != nil {
		asset, err := s.assets.Save(ctx, image, "artists/"+artist.ID)
		if err != nil {
			return nil, err
		}
		artist.Image = *asset
	}

	artist.UpdatedAt = time.Now().UTC()
	if err := s.artists.Update(ctx, artist); err != nil {
		return nil, err
	}

	if image != nil && !oldImage.Empty() {
		if err := s.assets.Delete(ctx, oldImage.ID); err != nil {
			s.logger.Warn().Err(err).Str("asset_id", oldImage.ID).Msg("failed to remove replaced artist image")
		}
	}

	return artist, nil
}

// Delete removes an artist and cascades over their albums and songs. Cloud
// asset removal for the whole artist folder runs asynchronously.
func (s *ArtistService) Delete(ctx context.Context, id string) error {
	if _, err := s.artists.FindByID(ctx, id); err != nil {
		return err
	}

	albums, err := s.albums.FindByArtist(ctx, id)
	if err != nil {
		return err
	}
	for _, album := range albums {
		if err := s.songs.DeleteByAlbum(ctx, album.ID); err != nil {
			return err
		}
	}
	if err := s.albums.DeleteByArtist(ctx, id); err != nil {
		return err
	}
	if err := s.artists.Delete(ctx, id); err != nil {
		return err
	}

	s.cleanup.Enqueue("artists/" + id)
	s.logger.Info().Str("artist_id", id).Int("albums", len(albums)).Msg("artist removed")
	return nil
}
