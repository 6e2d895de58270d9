package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/melodia/music-catalog-api/internal/core/ports"
)

// ArtistHandler handles catalog operations on artists.
type ArtistHandler struct {
	artists ports.ArtistService
}

func NewArtistHandler(artists ports.ArtistService) *ArtistHandler {
	return &ArtistHandler{artists: artists}
}

type artistRequest struct {
	Name        string `form:"name"`
	Description string `form:"description"`
}

// List returns a page of artists, optionally filtered by name.
//
// @Summary      List artists
// @Tags         artists
// @Produce      json
// @Security     BearerAuth
// @Param        name   query     string  false  "Name filter (case-insensitive substring)"
// @Param        page   query     int     false  "Page number, 1-based"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  ports.ArtistPage
// @Failure      401    {object}  map[string]string
// @Router       /api/artists [get]
func (h *ArtistHandler) List(c echo.Context) error {
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	result, err := h.artists.List(c.Request().Context(), ports.ListArtistsInput{
		Name:  c.QueryParam("name"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get returns one artist with their albums.
//
// @Summary      Get an artist
// @Tags         artists
// @Produce      json
// @Security     BearerAuth
// @Param        artistId  path      string  true  "Artist id"
// @Success      200       {object}  ports.ArtistDetail
// @Failure      404       {object}  map[string]string
// @Router       /api/artists/{artistId} [get]
func (h *ArtistHandler) Get(c echo.Context) error {
	detail, err := h.artists.Get(c.Request().Context(), c.Param("artistId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Create adds an artist with an optional image. Admin only.
//
// @Summary      Create an artist
// @Tags         artists
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        name   formData  string  true   "Artist name"
// @Param        image  formData  file    false  "Artist image"
// @Success      201    {object}  domain.Artist
// @Failure      400    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /api/artists [post]
func (h *ArtistHandler) Create(c echo.Context) error {
	var req artistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}

	artist, err := h.artists.Create(c.Request().Context(), ports.ArtistInput{
		Name:        req.Name,
		Description: req.Description,
	}, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, artist)
}

// Update partially updates an artist. Admin only.
//
// @Summary      Update an artist
// @Tags         artists
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        artistId  path      string  true   "Artist id"
// @Param        image     formData  file    false  "Artist image"
// @Success      200       {object}  domain.Artist
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /api/artists/{artistId} [put]
func (h *ArtistHandler) Update(c echo.Context) error {
	var req artistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}

	artist, err := h.artists.Update(c.Request().Context(), c.Param("artistId"), ports.ArtistInput{
		Name:        req.Name,
		Description: req.Description,
	}, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artist)
}

// Delete removes an artist and cascades over their albums and songs. Asset
// folders are cleaned up asynchronously. Admin only.
//
// @Summary      Delete an artist
// @Tags         artists
// @Produce      json
// @Security     BearerAuth
// @Param        artistId  path  string  true  "Artist id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/artists/{artistId} [delete]
func (h *ArtistHandler) Delete(c echo.Context) error {
	if err := h.artists.Delete(c.Request().Context(), c.Param("artistId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
