package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

const defaultTokenTTL = 15 * 24 * time.Hour

// SessionManager enforces a single live session per identity. The session
// store is the only source of truth for which token is authoritative; this
// service never caches session state across calls.
type SessionManager struct {
	users    ports.UserRepository
	codec    ports.TokenCodec
	sessions ports.SessionStore
	tokenTTL time.Duration
	logger   zerolog.Logger
}

func NewSessionManager(users ports.UserRepository, codec ports.TokenCodec, sessions ports.SessionStore, tokenTTL time.Duration, logger zerolog.Logger) *SessionManager {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &SessionManager{
		users:    users,
		codec:    codec,
		sessions: sessions,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Login verifies the credentials, issues a fresh token and unconditionally
// overwrites any stored session for that identity: a second login always
// wins, silently invalidating the earlier device's token.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := m.codec.Create(user.Identity(), m.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	if err := m.sessions.Set(ctx, user.ID, token); err != nil {
		return nil, err
	}

	m.logger.Info().Str("user_id", user.ID).Msg("session opened")
	return &ports.LoginResult{User: user, Token: token}, nil
}

// Logout deletes the stored session. After this call any token for the
// identity fails authentication, expired or not. Logging out without an
// active session is a no-op.
func (m *SessionManager) Logout(ctx context.Context, userID string) error {
	if err := m.sessions.Delete(ctx, userID); err != nil {
		return err
	}
	m.logger.Info().Str("user_id", userID).Msg("session closed")
	return nil
}

// Authenticate classifies the presented token and, when it is expired but
// still the one on record, transparently issues a replacement.
//
// Ordering is load-bearing: the stale/mismatch check always runs before the
// expiry branch, so a token can never be refreshed unless it is exactly the
// stored value.
func (m *SessionManager) Authenticate(ctx context.Context, token string) (*ports.Auth, error) {
	res := m.codec.Verify(token)
	if res.Status == ports.TokenInvalid {
		// Terminal: the payload is untrusted, the store is never touched.
		return nil, domain.ErrTokenInvalid
	}

	identity := res.Identity

	stored, err := m.sessions.Get(ctx, identity.ID)
	if errors.Is(err, domain.ErrNoSession) {
		// Logged out, or superseded and then revoked. Even a fresh,
		// well-signed token fails here.
		return nil, domain.ErrSessionRevoked
	}
	if err != nil {
		return nil, err
	}

	if stored != token {
		// A stale or replayed token is treated as evidence of compromise:
		// drop the live session too and force everyone to re-login.
		if derr := m.sessions.Delete(ctx, identity.ID); derr != nil {
			m.logger.Warn().Err(derr).Str("user_id", identity.ID).Msg("failed to drop stale session")
		}
		m.logger.Warn().Str("user_id", identity.ID).Msg("stale token presented, session revoked")
		return nil, domain.ErrSessionRevoked
	}

	if res.Status == ports.TokenValid {
		return &ports.Auth{Identity: identity}, nil
	}

	// Expired but matching: issue a replacement.
	return m.refresh(ctx, identity, token)
}

// refresh swaps the expired token for a newly signed one. The write is
// conditional on the stored value still being the presented token; losing
// that race means another caller already refreshed, and their token is
// returned instead of being overwritten.
func (m *SessionManager) refresh(ctx context.Context, identity domain.Identity, expired string) (*ports.Auth, error) {
	newToken, err := m.codec.Create(identity, m.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("create refreshed token: %w", err)
	}

	swapped, current, err := m.sessions.Replace(ctx, identity.ID, expired, newToken)
	if err != nil {
		return nil, err
	}

	switch {
	case swapped:
		m.logger.Info().Str("user_id", identity.ID).Msg("token refreshed")
		return &ports.Auth{Identity: identity, RefreshedToken: newToken}, nil
	case current == "":
		// Session vanished between the match check and the write.
		return nil, domain.ErrSessionRevoked
	default:
		// Lost a concurrent refresh; adopt the winner's token.
		m.logger.Info().Str("user_id", identity.ID).Msg("concurrent refresh, adopting current token")
		return &ports.Auth{Identity: identity, RefreshedToken: current}, nil
	}
}
