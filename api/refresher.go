/*
refresher.go - Background snapshot refresher

PURPOSE:
  Keeps every location engine's snapshot warm. Refreshes on two triggers:
  a periodic ticker, and store change notifications (Subscribe), so a write
  from one request is visible to validations on other engines quickly.

DESIGN:
  - One background goroutine, one ticker
  - Store notifications collapse into a single-slot channel; a burst of
    writes causes one refresh, not N
  - The Subscribe callback must stay non-blocking: the SQLite store fires
    it while holding its write lock

CONFIGURATION:
  - Interval: ticker period (default: 30 seconds)

USAGE:
  refresher := NewSnapshotRefresher(handler, 30*time.Second)
  refresher.Start()
  // ... later
  refresher.Stop()

SEE ALSO:
  - schedule/snapshot.go: Snapshot lifecycle
  - store/sqlite/sqlite.go: Subscribe
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"
)

// SnapshotRefresher keeps engine snapshots fresh in the background.
type SnapshotRefresher struct {
	Handler  *Handler
	Interval time.Duration

	ticker *time.Ticker
	kick   chan struct{}
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSnapshotRefresher creates a refresher and hooks it to store changes.
func NewSnapshotRefresher(h *Handler, interval time.Duration) *SnapshotRefresher {
	sr := &SnapshotRefresher{
		Handler:  h,
		Interval: interval,
		kick:     make(chan struct{}, 1),
		stop:     make(chan bool),
	}
	h.Store.Subscribe(func() {
		select {
		case sr.kick <- struct{}{}:
		default:
		}
	})
	return sr
}

// Start begins the refresher.
func (sr *SnapshotRefresher) Start() {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	sr.ticker = time.NewTicker(sr.Interval)
	sr.wg.Add(1)

	go sr.run()

	log.Printf("[Refresher] Started with interval: %v", sr.Interval)
}

// Stop stops the refresher.
func (sr *SnapshotRefresher) Stop() {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if sr.ticker != nil {
		sr.ticker.Stop()
		close(sr.stop)
		sr.wg.Wait()
		log.Println("[Refresher] Stopped")
	}
}

func (sr *SnapshotRefresher) run() {
	defer sr.wg.Done()

	for {
		select {
		case <-sr.ticker.C:
			sr.refreshAll()
		case <-sr.kick:
			sr.refreshAll()
		case <-sr.stop:
			return
		}
	}
}

func (sr *SnapshotRefresher) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, eng := range sr.Handler.Engines() {
		if err := eng.Refresh(ctx); err != nil {
			log.Printf("[Refresher] Error refreshing location %s: %v", eng.Location(), err)
		}
	}
}
