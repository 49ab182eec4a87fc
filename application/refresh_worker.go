package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/interfaces"
	"github.com/gambizardonkick/Shuffle-Live-tracker/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// RefreshWorkerConfig holds the refresh worker settings
type RefreshWorkerConfig struct {
	Interval         time.Duration
	FetchTimeout     time.Duration
	RaffleWebhookURL string
}

// RefreshWorker periodically fetches wager snapshots, accrues raffle tickets,
// refreshes the leaderboard and publishes rounds whose results are due.
// At most one cycle runs at a time; ticks arriving during a cycle are skipped.
type RefreshWorker struct {
	source      interfaces.WagerSnapshotSource
	raffle      RaffleEngine
	leaderboard LeaderboardRefresher
	windows     WindowLocator
	sink        interfaces.NotificationSink
	config      RefreshWorkerConfig
	now         func() time.Time

	running atomic.Bool
}

// NewRefreshWorker creates a new refresh worker
func NewRefreshWorker(
	source interfaces.WagerSnapshotSource,
	raffle RaffleEngine,
	leaderboard LeaderboardRefresher,
	windows WindowLocator,
	sink interfaces.NotificationSink,
	config RefreshWorkerConfig,
) *RefreshWorker {
	return &RefreshWorker{
		source:      source,
		raffle:      raffle,
		leaderboard: leaderboard,
		windows:     windows,
		sink:        sink,
		config:      config,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Start runs a cycle immediately and then on every interval until ctx is done or the
// returned stop function is called. Stop waits for a running cycle to finish.
func (w *RefreshWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})
	done := make(chan struct{})
	var cycles sync.WaitGroup

	// only the loop goroutine adds to cycles, so waiting on done orders every Add before Wait
	runAsync := func() {
		cycles.Add(1)
		go func() {
			defer cycles.Done()
			w.RunCycle(ctx)
		}()
	}

	go func() {
		defer close(done)
		log.WithField("interval", w.config.Interval).Info("Refresh worker started")

		ticker := time.NewTicker(w.config.Interval)
		defer ticker.Stop()

		runAsync()
		for {
			select {
			case <-ctx.Done():
				log.Info("Refresh worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Refresh worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				runAsync()
			}
		}
	}()

	var stopOnce sync.Once
	return func() {
		stopOnce.Do(func() { close(stopChan) })
		<-done
		cycles.Wait()
	}
}

// RunCycle performs one refresh cycle. It returns false without doing anything if
// another cycle is still in flight. A panic inside the cycle is logged and recorded
// as a failed cycle so the worker keeps ticking.
func (w *RefreshWorker) RunCycle(ctx context.Context) (ran bool) {
	if !w.running.CompareAndSwap(false, true) {
		observability.RecordSkippedTick()
		log.Warn("Skipping refresh tick, previous cycle still running")
		return false
	}
	defer w.running.Store(false)

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Refresh cycle panicked")
			observability.RecordRefreshCycle("failure", time.Since(start))
			ran = true
		}
	}()

	now := w.now()

	w.raffle.Rotate(now)

	failures := 0
	fetched := make(map[int64]bool)
	for _, round := range w.raffle.PendingRounds() {
		entries, ok := w.fetch(ctx, round.Window)
		fetched[round.Window.Index] = true
		if !ok {
			failures++
			continue
		}

		result, err := w.raffle.Accrue(round.Key, entries)
		if err != nil {
			log.WithError(err).WithField("round", round.Key).Error("Failed to accrue tickets")
		} else {
			observability.RecordTicketsIssued(result.Issued)
		}
		w.leaderboard.Refresh(round.Window, entries, now)
	}

	// a published current round still needs its leaderboard kept fresh
	if current := w.windows.WindowAt(now); !fetched[current.Index] {
		if entries, ok := w.fetch(ctx, current); ok {
			w.leaderboard.Refresh(current, entries, now)
		} else {
			failures++
		}
	}

	for _, round := range w.raffle.Publish(now) {
		observability.RecordRoundPublished()
		w.notifyDraw(ctx, round)
	}

	result := "success"
	if failures > 0 {
		result = "failure"
	}
	observability.RecordRefreshCycle(result, time.Since(start))
	return true
}

// fetch loads one window's snapshot. On failure nothing is returned and the
// caller leaves all cached state as it was.
func (w *RefreshWorker) fetch(ctx context.Context, window entities.Window) ([]entities.WagerEntry, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, w.config.FetchTimeout)
	defer cancel()

	entries, err := w.source.FetchWagers(fetchCtx, window)
	observability.RecordFetch(err == nil)
	if err != nil {
		log.WithError(err).WithField("window", window.Key()).Warn("Wager snapshot fetch failed, keeping previous state")
		return nil, false
	}

	log.WithFields(log.Fields{
		"window":  window.Key(),
		"entries": len(entries),
	}).Debug("Fetched wager snapshot")
	return entries, true
}

func (w *RefreshWorker) notifyDraw(ctx context.Context, round *entities.RaffleRound) {
	if w.config.RaffleWebhookURL == "" || w.sink == nil {
		return
	}

	if err := w.sink.NotifyDraw(ctx, w.config.RaffleWebhookURL, round); err != nil {
		log.WithError(err).WithField("round", round.Key).Error("Failed to send draw notification")
	}
}
