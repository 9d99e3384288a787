// Package usage meters authenticated API traffic per school. Requests are
// counted into in-memory buckets keyed by (school, date, path) and flushed
// periodically to the usage store as deltas, so a burst of traffic costs one
// map increment, not one database write.
package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/opencampus/campus/internal/domain"
)

type bucket struct {
	schoolID    uuid.UUID
	date        string
	path        string
	calls       int64
	totalTimeMS int64
}

// Aggregator accumulates call counts and flushes them on an interval.
type Aggregator struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	store         domain.UsageRepository
	flushInterval time.Duration

	quit chan struct{}
	wg   sync.WaitGroup
}

func NewAggregator(store domain.UsageRepository, flushInterval time.Duration) *Aggregator {
	return &Aggregator{
		buckets:       make(map[string]*bucket),
		store:         store,
		flushInterval: flushInterval,
		quit:          make(chan struct{}),
	}
}

// Start launches the background flusher. Call Stop to drain on shutdown.
func (a *Aggregator) Start() {
	a.wg.Add(1)
	go a.flusher()
}

// Stop signals the flusher, waits for it, and performs a final flush so no
// metered calls are lost on shutdown.
func (a *Aggregator) Stop() {
	close(a.quit)
	a.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("usage: final flush failed")
	}
}

// Record counts one API call. Safe for concurrent use; never blocks the
// request path on storage.
func (a *Aggregator) Record(schoolID uuid.UUID, path string, elapsed time.Duration) {
	date := time.Now().UTC().Format("2006-01-02")
	key := fmt.Sprintf("%s:%s:%s", schoolID, date, path)

	a.mu.Lock()
	b, ok := a.buckets[key]
	if !ok {
		b = &bucket{schoolID: schoolID, date: date, path: path}
		a.buckets[key] = b
	}
	b.calls++
	b.totalTimeMS += elapsed.Milliseconds()
	a.mu.Unlock()
}

func (a *Aggregator) flusher() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := a.Flush(ctx); err != nil {
				log.Warn().Err(err).Msg("usage: flush failed, deltas retained")
			}
			cancel()
		case <-a.quit:
			return
		}
	}
}

// Flush swaps the bucket map for an empty one and persists the captured
// deltas. On storage failure the deltas are merged back into the live map so
// nothing is lost; they ride along with the next flush.
func (a *Aggregator) Flush(ctx context.Context) error {
	a.mu.Lock()
	if len(a.buckets) == 0 {
		a.mu.Unlock()
		return nil
	}
	captured := a.buckets
	a.buckets = make(map[string]*bucket)
	a.mu.Unlock()

	deltas := make([]domain.UsageDelta, 0, len(captured))
	for _, b := range captured {
		deltas = append(deltas, domain.UsageDelta{
			SchoolID:    b.schoolID,
			Date:        b.date,
			Path:        b.path,
			Calls:       b.calls,
			TotalTimeMS: b.totalTimeMS,
		})
	}

	if err := a.store.RecordBatch(ctx, deltas); err != nil {
		a.mergeBack(captured)
		return fmt.Errorf("usage.Flush: %w", err)
	}
	return nil
}

func (a *Aggregator) mergeBack(captured map[string]*bucket) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for key, old := range captured {
		if b, ok := a.buckets[key]; ok {
			b.calls += old.calls
			b.totalTimeMS += old.totalTimeMS
		} else {
			a.buckets[key] = old
		}
	}
}
