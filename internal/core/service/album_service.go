package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

// AlbumService implements the album catalog operations.
type AlbumService struct {
	albums  ports.AlbumRepository
	artists ports.ArtistRepository
	songs   ports.SongRepository
	assets  ports.AssetStorage
	cleanup ports.AssetCleanupQueue
	logger  zerolog.Logger
}

func NewAlbumService(albums ports.AlbumRepository, artists ports.ArtistRepository, songs ports.SongRepository, assets ports.AssetStorage, cleanup ports.AssetCleanupQueue, logger zerolog.Logger) *AlbumService {
	return &AlbumService{
		albums:  albums,
		artists: artists,
		songs:   songs,
		assets:  assets,
		cleanup: cleanup,
		logger:  logger,
	}
}

// Get returns an album together with its songs.
func (s *AlbumService) Get(ctx context.Context, id string) (*ports.AlbumDetail, error) {
	album, err := s.albums.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	songs, err := s.songs.FindByAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.AlbumDetail{Album: *album, Songs: songs}, nil
}

// Search returns one page of albums filtered by artist, title and year,
// sorted by title.
func (s *AlbumService) Search(ctx context.Context, in ports.SearchAlbumsInput) (*ports.AlbumPage, error) {
	if in.Page <= 0 {
		in.Page = defaultPage
	}
	if in.Limit <= 0 {
		in.Limit = defaultLimit
	}

	items, total, err := s.albums.Search(ctx, in)
	if err != nil {
		return nil, err
	}
	return &ports.AlbumPage{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// Create adds an album under an existing artist, uploading the cover image
// into the artist's album folder when one is provided.
func (s *AlbumService) Create(ctx context.Context, in ports.AlbumInput, cover *multipart.FileHeader) (*domain.Album, error) {
	exists, err := s.artists.Exists(ctx, in.ArtistID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrArtistNotFound
	}

	now := time.Now().UTC()
	album := &domain.Album{
		Title:     in.Title,
		Year:      in.Year,
		ArtistID:  in.ArtistID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.albums.Create(ctx, album)
	if err != nil {
		return nil, err
	}

	if cover != nil {
		asset, err := s.assets.Save(ctx, cover, albumFolder(created.ArtistID, created.ID))
		if err != nil {
			return nil, err
		}
		created.CoverImage = *asset
		if err := s.albums.Update(ctx, created); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Str("album_id", created.ID).Str("artist_id", created.ArtistID).Msg("album created")
	return created, nil
}

func (s *AlbumService) Update(ctx context.Context, id string, in ports.AlbumInput, cover *multipart.FileHeader) (*domain.Album, error) {
	if in == (ports.AlbumInput{}) && cover == nil {
		return nil, domain.ErrNothingToUpdate
	}

	album, err := s.albums.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		album.Title = in.Title
	}
	if in.Year != 0 {
		album.Year = in.Year
	}

	oldCover := album.CoverImage
	if cover != nil {
		asset, err := s.assets.Save(ctx, cover, albumFolder(album.ArtistID, album.ID))
		if err != nil {
			return nil, err
		}
		album.CoverImage = *asset
	}

	album.UpdatedAt = time.Now().UTC()
	if err := s.albums.Update(ctx, album); err != nil {
		return nil, err
	}

	if cover != nil && !oldCover.Empty() {
		if err := s.assets.Delete(ctx, oldCover.ID); err != nil {
			s.logger.Warn().Err(err).Str("asset_id", oldCover.ID).Msg("failed to remove replaced cover")
		}
	}

	return album, nil
}

// Delete removes an album and its songs. The album's asset folder (cover
// plus audio files) is cleaned up asynchronously.
func (s *AlbumService) Delete(ctx context.Context, id string) error {
	album, err := s.albums.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.songs.DeleteByAlbum(ctx, id); err != nil {
		return err
	}
	if err := s.albums.Delete(ctx, id); err != nil {
		return err
	}

	s.cleanup.Enqueue(albumFolder(album.ArtistID, album.ID))
	s.logger.Info().Str("album_id", id).Msg("album removed")
	return nil
}

func albumFolder(artistID, albumID string) string {
	return "artists/" + artistID + "/albums/" + albumID
}
