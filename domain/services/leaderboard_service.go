package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/events"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/interfaces"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/utils"

	log "github.com/sirupsen/logrus"
)

// BuildLeaderboard ranks entries by wagered amount (ties by username), keeps the top size
// rows and masks usernames for display
func BuildLeaderboard(w entities.Window, entries []entities.WagerEntry, size int, at time.Time) *entities.Leaderboard {
	ranked := entities.NormalizeEntries(entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if c := ranked[i].Wagered.Cmp(ranked[j].Wagered); c != 0 {
			return c > 0
		}
		return ranked[i].Username < ranked[j].Username
	})
	if size >= 0 && len(ranked) > size {
		ranked = ranked[:size]
	}

	board := entities.EmptyLeaderboard(w)
	board.UpdatedAt = at
	for i, entry := range ranked {
		amount := utils.RoundAmount(entry.Wagered)
		board.Entries = append(board.Entries, entities.LeaderboardEntry{
			Rank:          i + 1,
			Username:      utils.MaskUsername(entry.Username),
			Wagered:       amount,
			WeightedWager: amount,
		})
	}
	return board
}

// LeaderboardService caches the current and previous window leaderboards
type LeaderboardService struct {
	source    interfaces.WagerSnapshotSource
	scheduler *RoundScheduler
	size      int
	publisher interfaces.EventPublisher

	current  atomic.Pointer[entities.Leaderboard]
	previous atomic.Pointer[entities.Leaderboard]

	// serializes on-demand fetches of the previous window
	fetchMu sync.Mutex
}

// NewLeaderboardService creates a leaderboard service showing size rows
func NewLeaderboardService(
	source interfaces.WagerSnapshotSource,
	scheduler *RoundScheduler,
	size int,
	publisher interfaces.EventPublisher,
) *LeaderboardService {
	return &LeaderboardService{
		source:    source,
		scheduler: scheduler,
		size:      size,
		publisher: publisher,
	}
}

// Refresh rebuilds the leaderboard for w from a fetched snapshot. Snapshots of the
// window before the current one refresh the previous-window cache instead.
func (s *LeaderboardService) Refresh(w entities.Window, entries []entities.WagerEntry, at time.Time) *entities.Leaderboard {
	board := BuildLeaderboard(w, entries, s.size, at)

	switch current := s.scheduler.WindowAt(at); {
	case w.Index == current.Index:
		s.current.Store(board)
	case w.Index == current.Index-1:
		s.previous.Store(board)
		return board
	default:
		return board
	}

	log.WithFields(log.Fields{
		"window":  board.WindowKey,
		"entries": len(board.Entries),
	}).Info("Updated leaderboard")

	if s.publisher != nil {
		if err := s.publisher.Publish(events.LeaderboardRefreshedEvent{
			WindowKey: board.WindowKey,
			Entries:   len(board.Entries),
			UpdatedAt: at,
		}); err != nil {
			log.WithError(err).Error("Failed to publish leaderboard event")
		}
	}
	return board
}

// Current returns the cached leaderboard for the window containing now.
// Until the first successful refresh of that window the last cached board is served,
// or an empty one.
func (s *LeaderboardService) Current(now time.Time) *entities.Leaderboard {
	if board := s.current.Load(); board != nil {
		return board
	}
	return entities.EmptyLeaderboard(s.scheduler.WindowAt(now))
}

// Previous returns the leaderboard of the window before the one containing now,
// fetching it on first use. A failed fetch falls back to the last cached board.
func (s *LeaderboardService) Previous(ctx context.Context, now time.Time) (*entities.Leaderboard, error) {
	window := s.scheduler.PreviousWindow(now)
	if board := s.previous.Load(); board != nil && board.WindowKey == window.Key() {
		return board, nil
	}

	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	if board := s.previous.Load(); board != nil && board.WindowKey == window.Key() {
		return board, nil
	}

	entries, err := s.source.FetchWagers(ctx, window)
	if err != nil {
		if cached := s.previous.Load(); cached != nil {
			log.WithError(err).WithField("window", window.Key()).Warn("Serving stale previous leaderboard")
			return cached, nil
		}
		return nil, fmt.Errorf("failed to fetch previous leaderboard: %w", err)
	}

	board := BuildLeaderboard(window, entries, s.size, now)
	s.previous.Store(board)
	return board, nil
}
