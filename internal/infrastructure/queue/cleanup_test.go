package queue

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/melodia/music-catalog-api/internal/core/domain"
)

type recordingStorage struct {
	mu      sync.Mutex
	deleted []string
	failOn  string
	done    chan string
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{done: make(chan string, 16)}
}

func (r *recordingStorage) Save(ctx context.Context, file *multipart.FileHeader, folder string) (*domain.Asset, error) {
	panic("not used")
}

func (r *recordingStorage) Delete(ctx context.Context, key string) error {
	return nil
}

func (r *recordingStorage) DeleteFolder(ctx context.Context, prefix string) error {
	r.mu.Lock()
	r.deleted = append(r.deleted, prefix)
	r.mu.Unlock()
	r.done <- prefix
	if prefix == r.failOn {
		return errors.New("boom")
	}
	return nil
}

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-ch:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for cleanup of %q", want)
		}
	}
}

func TestCleanupDispatcher_DeletesEnqueuedFolders(t *testing.T) {
	storage := newRecordingStorage()
	d := NewCleanupDispatcher(2, storage, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("artists/a1")
	d.Enqueue("artists/a1/albums/b1")

	waitFor(t, storage.done, "artists/a1")
	waitFor(t, storage.done, "artists/a1/albums/b1")
}

func TestCleanupDispatcher_KeepsWorkingAfterFailure(t *testing.T) {
	storage := newRecordingStorage()
	storage.failOn = "artists/broken"
	d := NewCleanupDispatcher(1, storage, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("artists/broken")
	d.Enqueue("artists/ok")

	waitFor(t, storage.done, "artists/broken")
	waitFor(t, storage.done, "artists/ok")
}

func TestCleanupDispatcher_SameFolderSameWorker(t *testing.T) {
	d := NewCleanupDispatcher(4, newRecordingStorage(), zerolog.Nop())

	first := d.shardIndex("artists/a1")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("artists/a1"); got != first {
			t.Fatalf("shard index not stable: %d vs %d", got, first)
		}
	}
}
