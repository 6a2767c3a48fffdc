package model

import (
	"time"
	"unicode/utf8"

	"github.com/tutorhub/tutorhub/internal/apperr"
)

type SessionKind string

const (
	SessionKindOpen     SessionKind = "open"       // group session, capacity up to MaxCapacity
	SessionKindOneOnOne SessionKind = "one_on_one" // capacity is always exactly 1
)

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusOver      SessionStatus = "over"
)

const (
	MaxTitleLength = 120
	MinCapacity    = 1
	MaxCapacity    = 50
)

type Session struct {
	ID        int64         `json:"id"`
	TutorID   int64         `json:"tutor_id"`
	Title     string        `json:"title"`
	Kind      SessionKind   `json:"kind"`
	Status    SessionStatus `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Capacity  int           `json:"capacity"`
	Location  string        `json:"location"`
	CreatedAt time.Time     `json:"created_at"`

	// Derived fields, never stored (populated from the enrollments table
	// in the same query that reads the session).
	EnrolledCount int     `json:"enrolled_count"`
	CourseIDs     []int64 `json:"course_ids,omitempty"`
}

// NewSessionInput carries the caller-supplied fields for session creation.
type NewSessionInput struct {
	Title     string
	Kind      SessionKind
	CourseIDs []int64
	StartTime time.Time
	EndTime   time.Time
	Capacity  int
	Location  string
}

// Validate checks the input against a fixed clock reading and normalizes
// it: one-on-one sessions get capacity forced to 1. Course ownership is
// checked separately against the store.
func (in *NewSessionInput) Validate(now time.Time) error {
	if in.Title == "" {
		return apperr.Validation("title is required")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return apperr.Validation("title exceeds %d characters", MaxTitleLength)
	}
	if len(in.CourseIDs) == 0 {
		return apperr.Validation("at least one course is required")
	}
	if in.Kind != SessionKindOpen && in.Kind != SessionKindOneOnOne {
		return apperr.Validation("kind must be %q or %q", SessionKindOpen, SessionKindOneOnOne)
	}
	if !in.StartTime.After(now) {
		return apperr.Validation("start time must be in the future")
	}
	if !in.EndTime.After(in.StartTime) {
		return apperr.Validation("end time must be after start time")
	}

	if in.Kind == SessionKindOneOnOne {
		in.Capacity = 1
	} else if in.Capacity < MinCapacity || in.Capacity > MaxCapacity {
		return apperr.Validation("capacity must be between %d and %d", MinCapacity, MaxCapacity)
	}

	return nil
}

// HasSeat reports whether the session can take one more enrollment given
// the current count.
func (s *Session) HasSeat(enrolled int) bool {
	return enrolled < s.Capacity
}
