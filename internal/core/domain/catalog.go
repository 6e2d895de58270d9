package domain

import "time"

// Artist is a performer with a catalog of albums.
type Artist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       Asset     `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Album groups songs under an artist.
type Album struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Year       int       `json:"year"`
	ArtistID   string    `json:"artist_id"`
	CoverImage Asset     `json:"cover_image"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Song is a single track belonging to an album.
type Song struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Number    int       `json:"number"`
	Duration  int       `json:"duration"` // seconds
	AlbumID   string    `json:"album_id"`
	File      Asset     `json:"file"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
