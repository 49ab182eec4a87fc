package services

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/events"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/interfaces"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/utils"

	log "github.com/sirupsen/logrus"
)

var (
	ErrRoundNotFound = errors.New("raffle round not found")
	ErrRoundClosed   = errors.New("raffle round no longer accrues tickets")
)

// raffleState is never mutated after it is stored; writers build a new one
type raffleState struct {
	live    []*entities.RaffleRound // not yet archived, oldest first
	archive []*entities.RaffleRound // oldest first
}

// RaffleService owns every raffle round. Writers are serialized and publish a new
// immutable state with a single pointer swap, so readers never block and never see
// a partially applied update.
type RaffleService struct {
	scheduler   *RoundScheduler
	accrual     *AccrualEngine
	draws       *DrawEngine
	winnerCount int
	publisher   interfaces.EventPublisher

	mu    sync.Mutex
	state atomic.Pointer[raffleState]
}

// NewRaffleService creates a raffle service with no rounds; the first Rotate creates them
func NewRaffleService(
	scheduler *RoundScheduler,
	accrual *AccrualEngine,
	draws *DrawEngine,
	winnerCount int,
	publisher interfaces.EventPublisher,
) *RaffleService {
	s := &RaffleService{
		scheduler:   scheduler,
		accrual:     accrual,
		draws:       draws,
		winnerCount: winnerCount,
		publisher:   publisher,
	}
	s.state.Store(&raffleState{})
	return s
}

// Rotate brings the round set in line with now: it opens a round for the current window
// and archives rounds whose visibility has ended. A round reaching the archive without
// having been published is published first with the tickets it holds.
// On a cold start the previous window's round is reopened if it is still relevant,
// so its tickets can be rebuilt from the source's cumulative totals.
func (s *RaffleService) Rotate(now time.Time) {
	s.mu.Lock()

	current := s.state.Load()
	next := &raffleState{
		live:    make([]*entities.RaffleRound, 0, len(current.live)+2),
		archive: current.archive,
	}
	var emitted []events.Event

	window := s.scheduler.WindowAt(now)
	live := append([]*entities.RaffleRound(nil), current.live...)
	if len(live) == 0 {
		previous := s.scheduler.NewRound(s.scheduler.PreviousWindow(now))
		if previous.StateAt(now) != entities.RoundStateArchived {
			live = append(live, previous)
			s.logRoundOpened(previous)
		}
	}
	if len(live) == 0 || live[len(live)-1].Window.Index < window.Index {
		round := s.scheduler.NewRound(window)
		live = append(live, round)
		s.logRoundOpened(round)
	}

	for _, round := range live {
		if round.StateAt(now) != entities.RoundStateArchived {
			next.live = append(next.live, round)
			continue
		}

		if !round.Published {
			var published []events.Event
			round, published = s.publishRound(round, now)
			emitted = append(emitted, published...)
		}
		round = round.Archive(now)
		next.archive = append(next.archive[:len(next.archive):len(next.archive)], round)
		emitted = append(emitted, events.RoundArchivedEvent{
			RoundKey:   round.Key,
			ArchivedAt: now,
		})

		log.WithFields(log.Fields{
			"round":   round.Key,
			"tickets": round.Tickets().TotalTickets(),
		}).Info("Archived raffle round")
	}

	s.state.Store(next)
	s.mu.Unlock()

	s.emit(emitted)
}

// Accrue applies a wager snapshot to the round identified by key
func (s *RaffleService) Accrue(key string, entries []entities.WagerEntry) (AccrualResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state.Load()
	index := findRound(current.live, key)
	if index < 0 {
		return AccrualResult{}, fmt.Errorf("%w: %s", ErrRoundNotFound, key)
	}
	round := current.live[index]
	if !round.CanAccrue() {
		return AccrualResult{}, fmt.Errorf("%w: %s", ErrRoundClosed, key)
	}

	ledger := round.Ledger.Clone()
	result := s.accrual.Accrue(ledger, entries)

	live := append([]*entities.RaffleRound(nil), current.live...)
	live[index] = round.WithLedger(ledger)
	s.state.Store(&raffleState{live: live, archive: current.archive})

	if result.Issued > 0 {
		log.WithFields(log.Fields{
			"round":       key,
			"issued":      result.Issued,
			"new_holders": result.NewHolders,
			"shuffled":    result.Shuffled,
			"total":       ledger.TotalTickets(),
		}).Info("Issued raffle tickets")
	}

	return result, nil
}

// Publish freezes every unpublished round whose results are due and draws its winners.
// It returns the rounds published by this call.
func (s *RaffleService) Publish(now time.Time) []*entities.RaffleRound {
	s.mu.Lock()

	current := s.state.Load()
	live := append([]*entities.RaffleRound(nil), current.live...)
	var published []*entities.RaffleRound
	var emitted []events.Event

	for i, round := range live {
		if round.Published || now.Before(round.VisibleFrom) {
			continue
		}
		var roundEvents []events.Event
		live[i], roundEvents = s.publishRound(round, now)
		published = append(published, live[i])
		emitted = append(emitted, roundEvents...)
	}

	if len(published) > 0 {
		s.state.Store(&raffleState{live: live, archive: current.archive})
	}
	s.mu.Unlock()

	s.emit(emitted)
	return published
}

// PendingRounds returns the rounds that still accept tickets, oldest first
func (s *RaffleService) PendingRounds() []*entities.RaffleRound {
	var pending []*entities.RaffleRound
	for _, round := range s.state.Load().live {
		if round.CanAccrue() {
			pending = append(pending, round)
		}
	}
	return pending
}

// CurrentRound returns the round of the newest window, or nil before the first Rotate
func (s *RaffleService) CurrentRound() *entities.RaffleRound {
	live := s.state.Load().live
	if len(live) == 0 {
		return nil
	}
	return live[len(live)-1]
}

// VisibleRound returns the newest published round that has not been archived
func (s *RaffleService) VisibleRound() *entities.RaffleRound {
	live := s.state.Load().live
	for i := len(live) - 1; i >= 0; i-- {
		if live[i].Published {
			return live[i]
		}
	}
	return nil
}

// Round looks up a live or archived round by key
func (s *RaffleService) Round(key string) (*entities.RaffleRound, bool) {
	state := s.state.Load()
	if i := findRound(state.live, key); i >= 0 {
		return state.live[i], true
	}
	if i := findRound(state.archive, key); i >= 0 {
		return state.archive[i], true
	}
	return nil, false
}

// ArchivedRounds returns archived rounds, newest first
func (s *RaffleService) ArchivedRounds() []*entities.RaffleRound {
	archive := s.state.Load().archive
	rounds := make([]*entities.RaffleRound, 0, len(archive))
	for i := len(archive) - 1; i >= 0; i-- {
		rounds = append(rounds, archive[i])
	}
	return rounds
}

// DrawResults returns every completed draw, newest first
func (s *RaffleService) DrawResults() []*entities.DrawResult {
	state := s.state.Load()
	var results []*entities.DrawResult
	for i := len(state.live) - 1; i >= 0; i-- {
		if state.live[i].Draw != nil {
			results = append(results, state.live[i].Draw)
		}
	}
	for i := len(state.archive) - 1; i >= 0; i-- {
		if state.archive[i].Draw != nil {
			results = append(results, state.archive[i].Draw)
		}
	}
	return results
}

// UserTickets returns username's holdings in the current round
func (s *RaffleService) UserTickets(username string) entities.UserTickets {
	holding := entities.UserTickets{Username: username, TicketNumbers: []int64{}}
	round := s.CurrentRound()
	if round == nil {
		return holding
	}
	tickets := round.Ledger.TicketsByUser[username]
	holding.TicketNumbers = append(holding.TicketNumbers, tickets...)
	holding.TicketCount = len(tickets)
	return holding
}

func (s *RaffleService) publishRound(round *entities.RaffleRound, now time.Time) (*entities.RaffleRound, []events.Event) {
	draw := s.draws.Draw(round.Key, round.Ledger, s.winnerCount, now)
	published := round.Publish(now, draw)

	log.WithFields(log.Fields{
		"round":            round.Key,
		"tickets":          draw.TotalTickets,
		"winners":          len(draw.Winners),
		"with_replacement": draw.WithReplacement,
	}).Info("Published raffle round")

	return published, []events.Event{
		events.RoundPublishedEvent{
			RoundKey:     round.Key,
			WindowStart:  round.Window.StartDate(),
			WindowEnd:    round.Window.EndDate(),
			TotalTickets: draw.TotalTickets,
			Participants: draw.SourceSnapshot.DistinctHolders(),
			PublishedAt:  now,
		},
		events.DrawCompletedEvent{
			RoundKey:        round.Key,
			Winners:         utils.MaskUsernames(draw.WinnerNames()),
			WithReplacement: draw.WithReplacement,
			TotalTickets:    draw.TotalTickets,
			DrawnAt:         draw.DrawnAt,
		},
	}
}

func (s *RaffleService) emit(emitted []events.Event) {
	if s.publisher == nil {
		return
	}
	for _, event := range emitted {
		if err := s.publisher.Publish(event); err != nil {
			log.WithError(err).WithField("event_type", event.Type()).Error("Failed to publish raffle event")
		}
	}
}

func (s *RaffleService) logRoundOpened(round *entities.RaffleRound) {
	log.WithFields(log.Fields{
		"round":         round.Key,
		"visible_from":  round.VisibleFrom,
		"visible_until": round.VisibleUntil,
	}).Info("Opened raffle round")
}

func findRound(rounds []*entities.RaffleRound, key string) int {
	for i, round := range rounds {
		if round.Key == key {
			return i
		}
	}
	return -1
}
