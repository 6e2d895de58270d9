// Package queue runs asynchronous asset-folder cleanup after cascade
// deletes, so removing an artist or album never blocks on the asset store.
package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/melodia/music-catalog-api/internal/api/metrics"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// CleanupDispatcher routes folder deletions to a fixed set of workers using
// consistent hashing on the folder path, so repeated deletes of the same
// folder stay ordered.
type CleanupDispatcher struct {
	workers []chan string
	assets  ports.AssetStorage
	log     zerolog.Logger
}

// NewCleanupDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCleanupDispatcher(numWorkers int, assets ports.AssetStorage, log zerolog.Logger) *CleanupDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &CleanupDispatcher{
		workers: make([]chan string, numWorkers),
		assets:  assets,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *CleanupDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a folder to the worker responsible for it. Non-blocking up
// to channelBuffer capacity.
func (d *CleanupDispatcher) Enqueue(folder string) {
	d.workers[d.shardIndex(folder)] <- folder
}

func (d *CleanupDispatcher) shardIndex(folder string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(folder))
	return int(h.Sum32()) % len(d.workers)
}

func (d *CleanupDispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case folder, ok := <-ch:
			if !ok {
				return
			}
			if err := d.assets.DeleteFolder(ctx, folder); err != nil {
				metrics.AssetCleanupsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("folder", folder).
					Int("worker_id", id).
					Msg("asset cleanup failed")
				continue
			}
			metrics.AssetCleanupsTotal.WithLabelValues("ok").Inc()
			d.log.Debug().Str("folder", folder).Msg("asset folder removed")
		}
	}
}
