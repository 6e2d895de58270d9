package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/melodia/music-catalog-api/internal/core/domain"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionStore(client, time.Hour), mr
}

func TestSessionStore_GetAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Get(context.Background(), "u1"); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionStore_SetGet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "u1", "tok-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "tok-1" {
		t.Fatalf("expected tok-1, got %q", got)
	}

	// Key layout and TTL binding (2x token lifetime).
	if !mr.Exists("userKeyu1") {
		t.Fatalf("expected key userKeyu1 in store")
	}
	if ttl := mr.TTL("userKeyu1"); ttl != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %v", ttl)
	}
}

func TestSessionStore_SetOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_ = store.Set(ctx, "u1", "tok-1")
	_ = store.Set(ctx, "u1", "tok-2")

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "tok-2" {
		t.Fatalf("expected tok-2, got %q", got)
	}
}

func TestSessionStore_DeleteIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_ = store.Set(ctx, "u1", "tok-1")
	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Second delete on an absent session must not error.
	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after delete, got %v", err)
	}
}

func TestSessionStore_Replace(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_ = store.Set(ctx, "u1", "tok-old")

	swapped, current, err := store.Replace(ctx, "u1", "tok-old", "tok-new")
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if !swapped || current != "tok-new" {
		t.Fatalf("expected swap to tok-new, got swapped=%v current=%q", swapped, current)
	}

	// Losing the race: the stored value moved on, so the condition fails
	// and the caller learns the winner's token.
	swapped, current, err = store.Replace(ctx, "u1", "tok-old", "tok-other")
	if err != nil {
		t.Fatalf("Replace mismatch: %v", err)
	}
	if swapped {
		t.Fatalf("expected no swap on mismatch")
	}
	if current != "tok-new" {
		t.Fatalf("expected current tok-new, got %q", current)
	}
}

func TestSessionStore_ReplaceAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	swapped, current, err := store.Replace(context.Background(), "u1", "tok-old", "tok-new")
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if swapped || current != "" {
		t.Fatalf("expected no swap and empty current, got swapped=%v current=%q", swapped, current)
	}
}

func TestSessionStore_Unavailable(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	mr.Close()

	if _, err := store.Get(ctx, "u1"); !errors.Is(err, domain.ErrSessionStoreUnavailable) {
		t.Fatalf("expected ErrSessionStoreUnavailable, got %v", err)
	}
	if err := store.Set(ctx, "u1", "tok"); !errors.Is(err, domain.ErrSessionStoreUnavailable) {
		t.Fatalf("expected ErrSessionStoreUnavailable, got %v", err)
	}
	if err := store.Delete(ctx, "u1"); !errors.Is(err, domain.ErrSessionStoreUnavailable) {
		t.Fatalf("expected ErrSessionStoreUnavailable, got %v", err)
	}
	if _, _, err := store.Replace(ctx, "u1", "a", "b"); !errors.Is(err, domain.ErrSessionStoreUnavailable) {
		t.Fatalf("expected ErrSessionStoreUnavailable, got %v", err)
	}
}
