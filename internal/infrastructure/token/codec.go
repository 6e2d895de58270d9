// Package token implements the RS256 bearer-token codec. The key pair is
// loaded once at process start and is read-only afterwards; a loading fault
// is fatal at startup, never per-call.
package token

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

const defaultTTL = 15 * 24 * time.Hour

// claims embeds the identity under the "data" claim alongside the standard
// issued-at/expires-at claims.
type claims struct {
	Data domain.Identity `json:"data"`
	jwt.RegisteredClaims
}

// Codec signs tokens with the private key and verifies them with the public
// key only. Safe for concurrent use.
type Codec struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
	ttl     time.Duration
}

// NewCodec parses a PEM-encoded RSA key pair. ttl <= 0 selects the 15-day
// default.
func NewCodec(privatePEM, publicPEM []byte, ttl time.Duration) (*Codec, error) {
	private, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	public, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Codec{private: private, public: public, ttl: ttl}, nil
}

// Load reads the PEM key pair from disk and builds a Codec.
func Load(privatePath, publicPath string, ttl time.Duration) (*Codec, error) {
	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	return NewCodec(privatePEM, publicPEM, ttl)
}

// TTL returns the default token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Create signs a new token embedding identity, expiring ttl from now.
func (c *Codec) Create(identity domain.Identity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims{
		Data: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := t.SignedString(c.private)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify classifies a presented token as valid, expired or invalid. The
// identity is populated only for the first two: an expired token still has a
// good signature, so its payload is trustworthy.
func (c *Codec) Verify(token string) ports.VerifyResult {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.public, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) &&
			!errors.Is(err, jwt.ErrTokenSignatureInvalid) &&
			!errors.Is(err, jwt.ErrTokenMalformed) {
			if cl, ok := parsed.Claims.(*claims); ok {
				return ports.VerifyResult{Status: ports.TokenExpired, Identity: cl.Data}
			}
		}
		return ports.VerifyResult{Status: ports.TokenInvalid}
	}

	cl, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return ports.VerifyResult{Status: ports.TokenInvalid}
	}
	return ports.VerifyResult{Status: ports.TokenValid, Identity: cl.Data}
}

// DecodeUnsafe reads the payload without checking the signature. Callers
// must only pass tokens that already passed a signature check.
func (c *Codec) DecodeUnsafe(token string) (domain.Identity, error) {
	var cl claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &cl); err != nil {
		return domain.Identity{}, fmt.Errorf("decode token: %w", err)
	}
	return cl.Data, nil
}
