package events

import (
	"time"
)

// EventType identifies a domain event
type EventType string

const (
	EventTypePredictionsSubmitted EventType = "predictions_submitted"
	EventTypeMatchCreated         EventType = "match_created"
	EventTypeMatchResultRecorded  EventType = "match_result_recorded"
	EventTypeMatchLocked          EventType = "match_locked"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PredictionsSubmittedEvent is raised after a user's predictions are committed
type PredictionsSubmittedEvent struct {
	UserID   string  `json:"user_id"`
	Matchday int     `json:"matchday"`
	MatchIDs []int64 `json:"match_ids"`
}

func (e PredictionsSubmittedEvent) Type() EventType {
	return EventTypePredictionsSubmitted
}

// MatchCreatedEvent is raised when an admin adds a fixture
type MatchCreatedEvent struct {
	MatchID   int64     `json:"match_id"`
	Matchday  int       `json:"matchday"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	MatchDate time.Time `json:"match_date"`
}

func (e MatchCreatedEvent) Type() EventType {
	return EventTypeMatchCreated
}

// MatchResultRecordedEvent is raised when the actual score of a match is stored
type MatchResultRecordedEvent struct {
	MatchID   int64  `json:"match_id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

func (e MatchResultRecordedEvent) Type() EventType {
	return EventTypeMatchResultRecorded
}

// MatchLockedEvent is raised once when a match enters its lock window
type MatchLockedEvent struct {
	MatchID   int64     `json:"match_id"`
	Matchday  int       `json:"matchday"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	MatchDate time.Time `json:"match_date"`
}

func (e MatchLockedEvent) Type() EventType {
	return EventTypeMatchLocked
}
