package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/melodia/music-catalog-api/internal/core/ports"
)

// SongHandler handles catalog operations on songs.
type SongHandler struct {
	songs ports.SongService
}

func NewSongHandler(songs ports.SongService) *SongHandler {
	return &SongHandler{songs: songs}
}

type uploadSongRequest struct {
	Name     string `form:"name"`
	Number   int    `form:"number"`
	Duration int    `form:"duration"`
	AlbumID  string `form:"album_id"`
}

type updateSongRequest struct {
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Duration int    `json:"duration"`
}

// Upload stores the audio file and creates the song record. Admin only.
//
// @Summary      Upload a song
// @Tags         songs
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        name      formData  string  true  "Track name"
// @Param        number    formData  int     true  "Track number within the album"
// @Param        duration  formData  int     true  "Duration in seconds"
// @Param        album_id  formData  string  true  "Owning album id"
// @Param        file      formData  file    true  "Audio file"
// @Success      201       {object}  domain.Song
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /api/songs [post]
func (h *SongHandler) Upload(c echo.Context) error {
	var req uploadSongRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.AlbumID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and album_id are required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "audio file is required")
	}

	song, err := h.songs.Upload(c.Request().Context(), ports.SongInput{
		Name:     req.Name,
		Number:   req.Number,
		Duration: req.Duration,
		AlbumID:  req.AlbumID,
	}, file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, song)
}

// ListByAlbum returns an album's tracks ordered by number.
//
// @Summary      List songs in an album
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Param        albumId  path      string  true  "Album id"
// @Success      200      {array}   domain.Song
// @Failure      404      {object}  map[string]string
// @Router       /api/albums/{albumId}/songs [get]
func (h *SongHandler) ListByAlbum(c echo.Context) error {
	songs, err := h.songs.ListByAlbum(c.Request().Context(), c.Param("albumId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, songs)
}

// Get returns one song.
//
// @Summary      Get a song
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Param        songId  path      string  true  "Song id"
// @Success      200     {object}  domain.Song
// @Failure      404     {object}  map[string]string
// @Router       /api/songs/{songId} [get]
func (h *SongHandler) Get(c echo.Context) error {
	song, err := h.songs.Get(c.Request().Context(), c.Param("songId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, song)
}

// Update changes song metadata; the audio file is immutable. Admin only.
//
// @Summary      Update a song
// @Tags         songs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        songId  path      string             true  "Song id"
// @Param        body    body      updateSongRequest  true  "Fields to change"
// @Success      200     {object}  domain.Song
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/songs/{songId} [put]
func (h *SongHandler) Update(c echo.Context) error {
	var req updateSongRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	song, err := h.songs.Update(c.Request().Context(), c.Param("songId"), ports.SongInput{
		Name:     req.Name,
		Number:   req.Number,
		Duration: req.Duration,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, song)
}

// Delete removes a song record and its audio file. Admin only.
//
// @Summary      Delete a song
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Param        songId  path  string  true  "Song id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/songs/{songId} [delete]
func (h *SongHandler) Delete(c echo.Context) error {
	if err := h.songs.Delete(c.Request().Context(), c.Param("songId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
