package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType labels lifecycle events emitted by the service.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventQuizGenerated  EventType = "quiz.generated"
	EventQuizScored     EventType = "quiz.scored"
)

// Event is the envelope published to the event topic. Publishing is
// best-effort: a failed publish is logged and never fails the request that
// produced it.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "study-service",
		Data:      data,
	}
}

type UserRegisteredEvent struct {
	Username string `json:"username"`
}

type QuizGeneratedEvent struct {
	UserID        string `json:"user_id"`
	QuestionCount int    `json:"question_count"`
}

type QuizScoredEvent struct {
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
	Total  int    `json:"total"`
}
