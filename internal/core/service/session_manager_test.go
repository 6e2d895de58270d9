package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

// fakeCodec hands out sequenced token strings and remembers the
// classification of every token it issued. Unknown strings verify as
// invalid, mirroring a failed signature check.
type fakeCodec struct {
	issued map[string]ports.VerifyResult
	seq    int
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{issued: make(map[string]ports.VerifyResult)}
}

func (f *fakeCodec) Create(identity domain.Identity, _ time.Duration) (string, error) {
	f.seq++
	tok := fmt.Sprintf("tok-%d", f.seq)
	f.issued[tok] = ports.VerifyResult{Status: ports.TokenValid, Identity: identity}
	return tok, nil
}

func (f *fakeCodec) Verify(token string) ports.VerifyResult {
	if res, ok := f.issued[token]; ok {
		return res
	}
	return ports.VerifyResult{Status: ports.TokenInvalid}
}

func (f *fakeCodec) DecodeUnsafe(token string) (domain.Identity, error) {
	if res, ok := f.issued[token]; ok {
		return res.Identity, nil
	}
	return domain.Identity{}, errors.New("unknown token")
}

// expire ages a previously issued token past its lifetime.
func (f *fakeCodec) expire(token string) {
	res := f.issued[token]
	res.Status = ports.TokenExpired
	f.issued[token] = res
}

// stubSessionStore is an in-memory SessionStore with the same observable
// semantics as the Redis one, plus failure injection.
type stubSessionStore struct {
	sessions map[string]string
	down     bool
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]string)}
}

func (s *stubSessionStore) Get(_ context.Context, userID string) (string, error) {
	if s.down {
		return "", fmt.Errorf("%w: connection refused", domain.ErrSessionStoreUnavailable)
	}
	tok, ok := s.sessions[userID]
	if !ok {
		return "", domain.ErrNoSession
	}
	return tok, nil
}

func (s *stubSessionStore) Set(_ context.Context, userID, token string) error {
	if s.down {
		return fmt.Errorf("%w: connection refused", domain.ErrSessionStoreUnavailable)
	}
	s.sessions[userID] = token
	return nil
}

func (s *stubSessionStore) Delete(_ context.Context, userID string) error {
	if s.down {
		return fmt.Errorf("%w: connection refused", domain.ErrSessionStoreUnavailable)
	}
	delete(s.sessions, userID)
	return nil
}

func (s *stubSessionStore) Replace(_ context.Context, userID, oldToken, newToken string) (bool, string, error) {
	if s.down {
		return false, "", fmt.Errorf("%w: connection refused", domain.ErrSessionStoreUnavailable)
	}
	current, ok := s.sessions[userID]
	if !ok {
		return false, "", nil
	}
	if current != oldToken {
		return false, current, nil
	}
	s.sessions[userID] = newToken
	return true, newToken, nil
}

type stubUserRepo struct {
	byEmail map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byEmail: make(map[string]*domain.User)}
	for _, u := range users {
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if u.ID == "" {
		u.ID = fmt.Sprintf("u%d", len(r.byEmail)+1)
	}
	r.byEmail[u.Email] = u
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range r.byEmail {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func testUser(t *testing.T, id, email, password, role string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &domain.User{ID: id, Email: email, PasswordHash: string(hash), Role: role}
}

func newTestManager(t *testing.T, users ...*domain.User) (*SessionManager, *fakeCodec, *stubSessionStore) {
	t.Helper()
	codec := newFakeCodec()
	store := newStubSessionStore()
	mgr := NewSessionManager(newStubUserRepo(users...), codec, store, time.Hour, zerolog.Nop())
	return mgr, codec, store
}

func TestSessionManager_FreshTokenRoundTrip(t *testing.T) {
	mgr, _, _ := newTestManager(t, testUser(t, "u1", "a@b.co", "pass123456", domain.RoleAdmin))
	ctx := context.Background()

	login, err := mgr.Login(ctx, "a@b.co", "pass123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.Token == "" {
		t.Fatalf("expected a token")
	}

	auth, err := mgr.Authenticate(ctx, login.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if auth.Identity != (domain.Identity{ID: "u1", Role: domain.RoleAdmin}) {
		t.Fatalf("unexpected identity: %+v", auth.Identity)
	}
	if auth.RefreshedToken != "" {
		t.Fatalf("fresh token must not trigger a refresh")
	}
}

func TestSessionManager_TransparentRefresh(t *testing.T) {
	mgr, codec, _ := newTestManager(t, testUser(t, "u1", "a@b.co", "pass123456", domain.RoleUser))
	ctx := context.Background()

	login, err := mgr.Login(ctx, "a@b.co", "pass123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	codec.expire(login.Token)

	auth, err := mgr.Authenticate(ctx, login.Token)
	if err != nil {
		t.Fatalf("Authenticate expired: %v", err)
	}
	if auth.RefreshedToken == "" || auth.RefreshedToken == login.Token {
		t.Fatalf("expected a brand-new replacement token, got %q", auth.RefreshedToken)
	}

	// The replacement authenticates without further refresh.
	auth2, err := mgr.Authenticate(ctx, auth.RefreshedToken)
	if err != nil {
		t.Fatalf("Authenticate refreshed: %v", err)
	}
	if auth2.RefreshedToken != "" {
		t.Fatalf("refreshed token should not refresh again")
	}
}

func TestSessionManager_RevocationOnLogout(t *testing.T) {
	mgr, _, _ := newTestManager(t, testUser(t, "u1", "a@b.co", "pass123456", domain.RoleUser))
	ctx := context.Background()

	login, _ := mgr.Login(ctx, "a@b.co", "pass123456")
	if err := mgr.Logout(ctx, "u1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	// Still time-valid, still well-signed, but the session is gone.
	if _, err := mgr.Authenticate(ctx, login.Token); !errors.Is(err, domain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestSessionManager_StaleTokenForcesRevocation(t *testing.T) {
	mgr, codec, store := newTestManager(t, testUser(t, "u1", "a@b.co", "pass123456", domain.RoleUser))
	ctx := context.Background()

	login, _ := mgr.Login(ctx, "a@b.co", "pass123456")
	t1 := login.Token

	codec.expire(t1)
	auth, err := mgr.Authenticate(ctx, t1)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	t2 := auth.RefreshedToken

	// Replaying the superseded token fails and tears down the session.
	if _, err := mgr.Authenticate(ctx, t1); !errors.Is(err, domain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked for stale token, got %v", err)
	}
	if _, ok := store.sessions["u1"]; ok {
		t.Fatalf("stale token must delete the stored session")
	}

	// The fail-secure choice: the legitimate holder of t2 is forced out too.
	if _, err := mgr.Authenticate(ctx, t2); !errors.Is(err, domain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked for legitimate token after teardown, got %v", err)
	}
}

func TestSessionManager_InvalidTokenLeavesStoreUntouched(t *testing.T) {
	mgr, _, store := newTestManager(t, testUser(t, "u1", "a@b.co", "pass123456", domain.RoleUser))
	ctx := context.Background()

	login, _ := mgr.Login(ctx, "a@b.co", "pass123456")

	if _, err := mgr.Authenticate(ctx, "tampered-garbage"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	// Unlike the stale-token case, the stored session survives.
	if store.sessions["u1"] != login.Token {
		t.Fatalf("invalid token must not touch the stored session")
	}
}

func TestSessionManager_SecondLoginSupersedesFirst(t *testing.T) {
	mgr, _, _ := newTestManager(t, testUser(t, "u1", "a@b.co", "pass123456", domain.RoleUser))
	ctx := context.Background()

	first, _ := mgr.Login(ctx, "a@b.co", "pass123456")
	second, _ := mgr.Login(ctx, "a@b.co", "pass123456")
	if first.Token == second.Token {
		t.Fatalf("each login must issue a distinct token")
	}

	if _, err := mgr.Authenticate(ctx, first.Token); !errors.Is(err, domain.ErrSessionRevoked) {
		t.Fatalf("expected first token to be superseded, got %v", err)
	}
	if _, err := mgr.Authenticate(ctx, second.Token); err != nil {
		t.Fatalf("second token should authenticate: %v", err)
	}
}

func TestSessionManager_IdempotentLogout(t *testing.T) {
	mgr, _, store := newTestManager(t, testUser(t, "u1", "a@b.co", "pass123456", domain.RoleUser))

	if err := mgr.Logout(context.Background(), "u1"); err != nil {
		t.Fatalf("logout without session must not error: %v", err)
	}
	if len(store.sessions) != 0 {
		t.Fatalf("store should stay empty")
	}
}

func TestSessionManager_StoreUnavailableIsNotRevoked(t *testing.T) {
	mgr, _, store := newTestManager(t, testUser(t, "u1", "a@b.co", "pass123456", domain.RoleUser))
	ctx := context.Background()

	login, _ := mgr.Login(ctx, "a@b.co", "pass123456")
	store.down = true

	_, err := mgr.Authenticate(ctx, login.Token)
	if !errors.Is(err, domain.ErrSessionStoreUnavailable) {
		t.Fatalf("expected ErrSessionStoreUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrSessionRevoked) {
		t.Fatalf("an infrastructure fault must not masquerade as a revocation")
	}
}

func TestSessionManager_LostRefreshRaceAdoptsWinner(t *testing.T) {
	mgr, codec, store := newTestManager(t, testUser(t, "u1", "a@b.co", "pass123456", domain.RoleUser))
	ctx := context.Background()

	login, _ := mgr.Login(ctx, "a@b.co", "pass123456")
	codec.expire(login.Token)

	// Simulate a concurrent winner: between this caller's match check and
	// its conditional write, the stored value moves on.
	winner, err := codec.Create(domain.Identity{ID: "u1", Role: domain.RoleUser}, time.Hour)
	if err != nil {
		t.Fatalf("create winner token: %v", err)
	}
	raceStore := &racingStore{stubSessionStore: store, flipTo: winner, userID: "u1", presented: login.Token}
	raced := NewSessionManager(newStubUserRepo(testUser(t, "u1", "a@b.co", "pass123456", domain.RoleUser)), codec, raceStore, time.Hour, zerolog.Nop())

	auth, err := raced.Authenticate(ctx, login.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if auth.RefreshedToken != winner {
		t.Fatalf("expected the winner's token %q, got %q", winner, auth.RefreshedToken)
	}
	if store.sessions["u1"] != winner {
		t.Fatalf("the loser must not overwrite the winner's session")
	}
}

// racingStore reports the presented token on Get, then flips the stored
// value before the conditional write runs.
type racingStore struct {
	*stubSessionStore
	flipTo    string
	userID    string
	presented string
	flipped   bool
}

func (s *racingStore) Get(ctx context.Context, userID string) (string, error) {
	if userID == s.userID && !s.flipped {
		s.flipped = true
		s.sessions[s.userID] = s.flipTo
		return s.presented, nil
	}
	return s.stubSessionStore.Get(ctx, userID)
}

func TestSessionManager_LoginFailures(t *testing.T) {
	mgr, _, store := newTestManager(t, testUser(t, "u1", "a@b.co", "pass123456", domain.RoleUser))
	ctx := context.Background()

	if _, err := mgr.Login(ctx, "a@b.co", "wrong-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := mgr.Login(ctx, "ghost@b.co", "pass123456"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email must look identical to a bad password, got %v", err)
	}
	if _, err := mgr.Login(ctx, "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
	if len(store.sessions) != 0 {
		t.Fatalf("failed logins must not create sessions")
	}
}
