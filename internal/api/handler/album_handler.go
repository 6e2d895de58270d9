package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/melodia/music-catalog-api/internal/core/ports"
)

// AlbumHandler handles catalog operations on albums.
type AlbumHandler struct {
	albums ports.AlbumService
}

func NewAlbumHandler(albums ports.AlbumService) *AlbumHandler {
	return &AlbumHandler{albums: albums}
}

type albumRequest struct {
	Title    string `form:"title"`
	Year     int    `form:"year"`
	ArtistID string `form:"artist_id"`
}

// Search returns a page of albums filtered by artist, title or year.
//
// @Summary      Search albums
// @Tags         albums
// @Produce      json
// @Security     BearerAuth
// @Param        artist_id  query     string  false  "Artist id filter"
// @Param        title      query     string  false  "Title filter (case-insensitive substring)"
// @Param        year       query     int     false  "Release year filter"
// @Param        page       query     int     false  "Page number, 1-based"
// @Param        limit      query     int     false  "Page size"
// @Success      200        {object}  ports.AlbumPage
// @Failure      401        {object}  map[string]string
// @Router       /api/albums [get]
func (h *AlbumHandler) Search(c echo.Context) error {
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	year, _ := strconv.Atoi(c.QueryParam("year"))

	result, err := h.albums.Search(c.Request().Context(), ports.SearchAlbumsInput{
		ArtistID: c.QueryParam("artist_id"),
		Title:    c.QueryParam("title"),
		Year:     year,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get returns one album with its songs.
//
// @Summary      Get an album
// @Tags         albums
// @Produce      json
// @Security     BearerAuth
// @Param        albumId  path      string  true  "Album id"
// @Success      200      {object}  ports.AlbumDetail
// @Failure      404      {object}  map[string]string
// @Router       /api/albums/{albumId} [get]
func (h *AlbumHandler) Get(c echo.Context) error {
	detail, err := h.albums.Get(c.Request().Context(), c.Param("albumId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Create adds an album under an existing artist. Admin only.
//
// @Summary      Create an album
// @Tags         albums
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        title      formData  string  true   "Album title"
// @Param        year       formData  int     true   "Release year"
// @Param        artist_id  formData  string  true   "Owning artist id"
// @Param        image      formData  file    false  "Cover image"
// @Success      201        {object}  domain.Album
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/albums [post]
func (h *AlbumHandler) Create(c echo.Context) error {
	var req albumRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Title == "" || req.ArtistID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and artist_id are required")
	}

	cover, err := c.FormFile("image")
	if err != nil {
		cover = nil
	}

	album, err := h.albums.Create(c.Request().Context(), ports.AlbumInput{
		Title:    req.Title,
		Year:     req.Year,
		ArtistID: req.ArtistID,
	}, cover)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, album)
}

// Update partially updates an album. Admin only.
//
// @Summary      Update an album
// @Tags         albums
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        albumId  path      string  true   "Album id"
// @Param        image    formData  file    false  "Cover image"
// @Success      200      {object}  domain.Album
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /api/albums/{albumId} [put]
func (h *AlbumHandler) Update(c echo.Context) error {
	var req albumRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	cover, err := c.FormFile("image")
	if err != nil {
		cover = nil
	}

	album, err := h.albums.Update(c.Request().Context(), c.Param("albumId"), ports.AlbumInput{
		Title: req.Title,
		Year:  req.Year,
	}, cover)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, album)
}

// Delete removes an album and its songs. The asset folder is cleaned up
// asynchronously. Admin only.
//
// @Summary      Delete an album
// @Tags         albums
// @Produce      json
// @Security     BearerAuth
// @Param        albumId  path  string  true  "Album id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/albums/{albumId} [delete]
func (h *AlbumHandler) Delete(c echo.Context) error {
	if err := h.albums.Delete(c.Request().Context(), c.Param("albumId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
