package ports

import (
	"context"
	"time"

	"github.com/melodia/music-catalog-api/internal/core/domain"
)

// TokenStatus is the outcome of a signature-and-expiry check. The three
// values are mutually exclusive and callers branch on them directly instead
// of inspecting error strings.
type TokenStatus int

const (
	// TokenValid: signature and expiry both passed, payload trustworthy.
	TokenValid TokenStatus = iota
	// TokenExpired: signature passed, only the time check failed. The
	// payload is still trustworthy and may feed the refresh path.
	TokenExpired
	// TokenInvalid: malformed token or signature mismatch. The payload
	// must not be read.
	TokenInvalid
)

// VerifyResult carries the classification and, for TokenValid and
// TokenExpired only, the embedded identity.
type VerifyResult struct {
	Status   TokenStatus
	Identity domain.Identity
}

// TokenCodec signs and verifies bearer tokens with a fixed asymmetric key
// pair loaded once at process start.
type TokenCodec interface {
	// Create produces a signed token embedding identity with an expiry of
	// ttl from now. ttl <= 0 falls back to the codec default.
	Create(identity domain.Identity, ttl time.Duration) (string, error)

	// Verify checks the signature against the public key, then the expiry.
	Verify(token string) VerifyResult

	// DecodeUnsafe extracts the payload without checking the signature.
	// Only for tokens that already passed a signature check in the same
	// call chain.
	DecodeUnsafe(token string) (domain.Identity, error)
}

// SessionStore holds at most one current token per identity. Absence of a
// record is a meaningful value (domain.ErrNoSession), distinct from an
// infrastructure fault (domain.ErrSessionStoreUnavailable).
type SessionStore interface {
	Get(ctx context.Context, userID string) (string, error)
	Set(ctx context.Context, userID, token string) error
	Delete(ctx context.Context, userID string) error

	// Replace atomically swaps the stored token only while it still equals
	// oldToken. It reports whether the swap happened and the value on
	// record afterwards ("" when the session is gone).
	Replace(ctx context.Context, userID, oldToken, newToken string) (swapped bool, current string, err error)
}

// LoginResult is returned on successful credential verification.
type LoginResult struct {
	User  *domain.User
	Token string
}

// Auth is a successful authentication. RefreshedToken is non-empty when the
// presented token was expired and a replacement was issued; the transport
// layer must surface it to the client.
type Auth struct {
	Identity       domain.Identity
	RefreshedToken string
}

// SessionManager orchestrates login, logout and the verify-or-refresh
// protocol enforcing a single live session per identity.
type SessionManager interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, userID string) error
	Authenticate(ctx context.Context, token string) (*Auth, error)
}
