package domain

import "errors"

// Authentication and session errors. The session manager owns the
// classification; the HTTP layer only maps these to status codes.
var (
	// ErrTokenInvalid marks a malformed token or a failed signature check.
	// The payload of such a token must never be trusted and the session
	// store is never touched for it.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrSessionRevoked covers every "no live session" case: logout,
	// supersession by a newer login, or a stale token that forced the
	// active session to be deleted.
	ErrSessionRevoked = errors.New("session revoked, please login again")

	// ErrNoSession is returned by the session store when no record exists
	// for an identity. Absence is a meaningful value, not a fault.
	ErrNoSession = errors.New("no active session")

	// ErrSessionStoreUnavailable marks an infrastructure fault talking to
	// the session store. It must never be presented as "please login again".
	ErrSessionStoreUnavailable = errors.New("session store unavailable")

	ErrInvalidCredentials = errors.New("incorrect credentials")
)

// Catalog errors.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email passed already exists")
	ErrAdminExists     = errors.New("the administrator type user already exists, there should only be one")
	ErrInvalidRole     = errors.New("invalid role")
	ErrArtistNotFound  = errors.New("artist not found")
	ErrAlbumNotFound   = errors.New("album not found")
	ErrSongNotFound    = errors.New("song not found")
	ErrNothingToUpdate = errors.New("at least one field must be sent")
)
