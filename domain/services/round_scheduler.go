package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
)

var ErrInvalidSchedule = errors.New("invalid round schedule")

// ComputeWindow returns the window of periodDays whole UTC days containing now.
// Windows are laid end to end from anchor in both directions, so the result
// depends only on its arguments.
func ComputeWindow(now, anchor time.Time, periodDays int) entities.Window {
	anchor = truncateToDay(anchor)
	period := time.Duration(periodDays) * 24 * time.Hour

	elapsed := now.UTC().Sub(anchor)
	index := int64(elapsed / period)
	if elapsed < 0 && elapsed%period != 0 {
		index--
	}

	start := anchor.AddDate(0, 0, int(index)*periodDays)
	return entities.Window{
		Index: index,
		Start: start,
		End:   start.AddDate(0, 0, periodDays-1),
	}
}

// RoundScheduler derives raffle windows and round visibility from wall-clock time
type RoundScheduler struct {
	anchor        time.Time
	periodDays    int
	visibleOffset time.Duration
}

// NewRoundScheduler validates the schedule. visibleOffset shifts when a round's results
// become public relative to the end of its window. It may not be positive and must be
// shorter than one period, which keeps at most two rounds live at any instant.
func NewRoundScheduler(anchor time.Time, periodDays int, visibleOffset time.Duration) (*RoundScheduler, error) {
	if periodDays <= 0 {
		return nil, fmt.Errorf("%w: period must be at least one day, got %d", ErrInvalidSchedule, periodDays)
	}
	period := time.Duration(periodDays) * 24 * time.Hour
	if visibleOffset <= -period || visibleOffset > 0 {
		return nil, fmt.Errorf("%w: visible offset %s must be within (-%s, 0]", ErrInvalidSchedule, visibleOffset, period)
	}

	return &RoundScheduler{
		anchor:        truncateToDay(anchor),
		periodDays:    periodDays,
		visibleOffset: visibleOffset,
	}, nil
}

// Period returns the length of one window
func (s *RoundScheduler) Period() time.Duration {
	return time.Duration(s.periodDays) * 24 * time.Hour
}

// WindowAt returns the window containing now
func (s *RoundScheduler) WindowAt(now time.Time) entities.Window {
	return ComputeWindow(now, s.anchor, s.periodDays)
}

// PreviousWindow returns the window immediately before the one containing now
func (s *RoundScheduler) PreviousWindow(now time.Time) entities.Window {
	current := s.WindowAt(now)
	return ComputeWindow(current.Start.Add(-time.Nanosecond), s.anchor, s.periodDays)
}

// NewRound creates an empty round for window w
func (s *RoundScheduler) NewRound(w entities.Window) *entities.RaffleRound {
	visibleFrom := w.EndBoundary().Add(s.visibleOffset)
	return &entities.RaffleRound{
		Key:          w.Key(),
		Window:       w,
		VisibleFrom:  visibleFrom,
		VisibleUntil: visibleFrom.Add(s.Period()),
		Ledger:       entities.NewTicketLedger(),
	}
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
