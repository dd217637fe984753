package infrastructure

import (
	"fmt"

	"tipster/domain/events"
)

// EventSubjectMapper maps domain events to NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

var subjectsByType = map[events.EventType]string{
	events.EventTypePredictionsSubmitted: "tipster.predictions.submitted",
	events.EventTypeMatchCreated:         "tipster.matches.created",
	events.EventTypeMatchResultRecorded:  "tipster.matches.result_recorded",
	events.EventTypeMatchLocked:          "tipster.matches.locked",
}

// MapEventToSubject converts a domain event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByType[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("tipster.unknown.%s", event.Type())
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

// GetAllSubjects returns all subjects this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"tipster.predictions.submitted",
		"tipster.matches.created",
		"tipster.matches.result_recorded",
		"tipster.matches.locked",
	}
}
