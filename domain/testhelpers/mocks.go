package testhelpers

import (
	"context"
	"sync"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockWagerSnapshotSource is a mock implementation of WagerSnapshotSource
type MockWagerSnapshotSource struct {
	mock.Mock
}

func (m *MockWagerSnapshotSource) FetchWagers(ctx context.Context, window entities.Window) ([]entities.WagerEntry, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.WagerEntry), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockNotificationSink is a mock implementation of NotificationSink
type MockNotificationSink struct {
	mock.Mock
}

func (m *MockNotificationSink) NotifyBet(ctx context.Context, webhookURL string, bet *entities.Bet, stats *entities.StatsView) error {
	args := m.Called(ctx, webhookURL, bet, stats)
	return args.Error(0)
}

func (m *MockNotificationSink) NotifyStats(ctx context.Context, webhookURL string, report *entities.StatsReport) error {
	args := m.Called(ctx, webhookURL, report)
	return args.Error(0)
}

func (m *MockNotificationSink) NotifyDraw(ctx context.Context, webhookURL string, round *entities.RaffleRound) error {
	args := m.Called(ctx, webhookURL, round)
	return args.Error(0)
}

// RecordingPublisher keeps every published event in order
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *RecordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// Types returns the recorded event types in order
func (p *RecordingPublisher) Types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.EventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type()
	}
	return types
}

// SequenceRandom replays fixed values, each reduced modulo n
type SequenceRandom struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequenceRandom creates a random source cycling through values
func NewSequenceRandom(values ...int) *SequenceRandom {
	return &SequenceRandom{values: values}
}

func (r *SequenceRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}
