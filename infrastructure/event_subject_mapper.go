package infrastructure

import (
	"fmt"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/events"
)

// EventStreamName is the JetStream stream holding every tracker event
const EventStreamName = "tracker_events"

var subjectsByType = map[events.EventType]string{
	events.EventTypeRoundPublished:       "raffle.round.published",
	events.EventTypeRoundArchived:        "raffle.round.archived",
	events.EventTypeDrawCompleted:        "raffle.draw.completed",
	events.EventTypeLeaderboardRefreshed: "leaderboard.refreshed",
	events.EventTypeBetTracked:           "bets.tracked",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByType[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByType {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns every subject this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"raffle.round.published",
		"raffle.round.archived",
		"raffle.draw.completed",
		"leaderboard.refreshed",
		"bets.tracked",
	}
}
