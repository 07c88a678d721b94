// Package refresher re-fetches the dataset on a fixed interval and
// publishes an update only when the remote content actually changed.
// Failures are best-effort: a bad cycle is logged and retried on the
// next tick, never surfaced to the user.
package refresher

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/syllascope/syllascope/pkg/course"
	"github.com/syllascope/syllascope/pkg/dataset"
)

// DefaultInterval between refresh cycles.
const DefaultInterval = 5 * time.Minute

// Update carries a changed dataset to the subscriber. The subscriber is
// expected to re-normalize and re-render without touching filter or
// open-card state.
type Update struct {
	Courses []course.Course
	Raw     string
	Hash    string
}

type Refresher struct {
	loader   *dataset.Loader
	interval time.Duration
	log      *logrus.Logger

	updates  chan Update
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New builds a Refresher around the loader's always-network fetch path.
// A non-positive interval selects DefaultInterval.
func New(loader *dataset.Loader, interval time.Duration, log *logrus.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{
		loader:   loader,
		interval: interval,
		log:      log,
		updates:  make(chan Update, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Updates delivers at most the latest pending update; a newer update
// replaces an undrained older one (last write wins).
func (r *Refresher) Updates() <-chan Update { return r.updates }

// Done is closed once the refresh loop has exited.
func (r *Refresher) Done() <-chan struct{} { return r.done }

// Start runs one cycle immediately, then one per interval, until Stop.
func (r *Refresher) Start() {
	go r.run()
}

// Stop ends the loop. Idempotent; an in-flight fetch is abandoned.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Refresher) run() {
	defer close(r.done)
	r.cycle()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.cycle()
		}
	}
}

// cycle fetches fresh content and compares its hash to the stored one.
// Equal hashes are a no-op so subscribers are never forced into a
// pointless re-render.
func (r *Refresher) cycle() {
	ctx := context.Background()

	res, err := r.loader.FetchFresh(ctx)
	if err != nil {
		r.logDebugf("background refresh skipped: %v", err)
		return
	}

	rec, err := r.loader.Store.Get(ctx)
	if err != nil {
		r.logDebugf("background refresh cache read: %v", err)
	}
	if rec != nil && rec.ContentHash == res.Hash {
		return
	}

	if err := r.loader.Store.Put(ctx, res.Raw, r.loader.Version, res.Hash); err != nil {
		r.logWarnf("background refresh could not persist dataset: %v", err)
	}

	// Replace any undrained update with the newest one.
	select {
	case <-r.updates:
	default:
	}
	r.updates <- Update{Courses: res.Courses, Raw: res.Raw, Hash: res.Hash}
}

func (r *Refresher) logDebugf(format string, args ...interface{}) {
	if r.log != nil {
		r.log.Debugf(format, args...)
	}
}

func (r *Refresher) logWarnf(format string, args ...interface{}) {
	if r.log != nil {
		r.log.Warnf(format, args...)
	}
}
