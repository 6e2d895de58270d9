package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/melodia/music-catalog-api/internal/core/domain"
)

func TestResolveError_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrTokenInvalid, http.StatusUnauthorized},
		{domain.ErrSessionRevoked, http.StatusForbidden},
		{domain.ErrSessionStoreUnavailable, http.StatusServiceUnavailable},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrArtistNotFound, http.StatusNotFound},
		{domain.ErrAlbumNotFound, http.StatusNotFound},
		{domain.ErrSongNotFound, http.StatusNotFound},
		{domain.ErrEmailExists, http.StatusConflict},
		{domain.ErrAdminExists, http.StatusConflict},
		{domain.ErrInvalidRole, http.StatusBadRequest},
		{domain.ErrNothingToUpdate, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		code, _ := resolveError(tc.err, zerolog.Nop(), c)
		if code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestResolveError_WrappedDomainError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	wrapped := fmt.Errorf("%w: session get: connection refused", domain.ErrSessionStoreUnavailable)
	code, _ := resolveError(wrapped, zerolog.Nop(), c)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
}

func TestResolveError_EchoHTTPError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	code, msg := resolveError(echo.NewHTTPError(http.StatusTeapot, "short and stout"), zerolog.Nop(), c)
	if code != http.StatusTeapot || msg != "short and stout" {
		t.Fatalf("unexpected mapping: %d %q", code, msg)
	}
}

func TestHTTPErrorHandler_RendersEnvelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrSessionRevoked, c)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "session revoked" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}
