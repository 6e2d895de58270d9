package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

// SongService implements track management: audio upload, listing, metadata
// updates and removal.
type SongService struct {
	songs  ports.SongRepository
	albums ports.AlbumRepository
	assets ports.AssetStorage
	logger zerolog.Logger
}

func NewSongService(songs ports.SongRepository, albums ports.AlbumRepository, assets ports.AssetStorage, logger zerolog.Logger) *SongService {
	return &SongService{songs: songs, albums: albums, assets: assets, logger: logger}
}

// Upload stores the audio file in the album's asset folder and creates the
// song record pointing at it.
func (s *SongService) Upload(ctx context.Context, in ports.SongInput, file *multipart.FileHeader) (*domain.Song, error) {
	album, err := s.albums.FindByID(ctx, in.AlbumID)
	if err != nil {
		return nil, err
	}

	asset, err := s.assets.Save(ctx, file, albumFolder(album.ArtistID, album.ID))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	song := &domain.Song{
		Name:      in.Name,
		Number:    in.Number,
		Duration:  in.Duration,
		AlbumID:   in.AlbumID,
		File:      *asset,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.songs.Create(ctx, song)
	if err != nil {
		// The record failed, do not leak the uploaded object.
		if derr := s.assets.Delete(ctx, asset.ID); derr != nil {
			s.logger.Warn().Err(derr).Str("asset_id", asset.ID).Msg("failed to remove orphaned audio file")
		}
		return nil, err
	}

	s.logger.Info().Str("song_id", created.ID).Str("album_id", in.AlbumID).Msg("song uploaded")
	return created, nil
}

func (s *SongService) ListByAlbum(ctx context.Context, albumID string) ([]domain.Song, error) {
	if _, err := s.albums.FindByID(ctx, albumID); err != nil {
		return nil, err
	}
	return s.songs.FindByAlbum(ctx, albumID)
}

func (s *SongService) Get(ctx context.Context, id string) (*domain.Song, error) {
	return s.songs.FindByID(ctx, id)
}

func (s *SongService) Update(ctx context.Context, id string, in ports.SongInput) (*domain.Song, error) {
	if in == (ports.SongInput{}) {
		return nil, domain.ErrNothingToUpdate
	}

	song, err := s.songs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		song.Name = in.Name
	}
	if in.Number != 0 {
		song.Number = in.Number
	}
	if in.Duration != 0 {
		song.Duration = in.Duration
	}

	song.UpdatedAt = time.Now().UTC()
	if err := s.songs.Update(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

func (s *SongService) Delete(ctx context.Context, id string) error {
	song, err := s.songs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.songs.Delete(ctx, id); err != nil {
		return err
	}
	if !song.File.Empty() {
		if err := s.assets.Delete(ctx, song.File.ID); err != nil {
			s.logger.Warn().Err(err).Str("asset_id", song.File.ID).Msg("failed to remove audio file")
		}
	}
	s.logger.Info().Str("song_id", id).Msg("song removed")
	return nil
}
