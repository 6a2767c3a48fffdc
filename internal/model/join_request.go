package model

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusDenied   RequestStatus = "denied"
)

// JoinRequest is a student's ask to occupy one seat in a session.
// TutorID is denormalized from the session so the tutor's pending queue
// can be listed without a join.
type JoinRequest struct {
	ID          int64         `json:"id"`
	SessionID   int64         `json:"session_id"`
	StudentID   int64         `json:"student_id"`
	TutorID     int64         `json:"tutor_id"`
	Status      RequestStatus `json:"status"`
	Message     string        `json:"message,omitempty"`
	MessageRef  *string       `json:"message_ref,omitempty"` // public id of the announcing notification
	CreatedAt   time.Time     `json:"created_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`

	// Populated for roster views.
	Student *User `json:"student,omitempty"`
}

func (r *JoinRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsActive reports whether the request still claims a seat: pending
// requests await a decision, accepted ones back a live enrollment.
func (r *JoinRequest) IsActive() bool {
	return r.Status == RequestStatusPending || r.Status == RequestStatusAccepted
}

// CanRespond reports whether a tutor decision (accept or deny) is legal
// from the current status. Only pending requests can be decided; the only
// way back to pending after a denial is a fresh request.
func (r *JoinRequest) CanRespond() bool {
	return r.Status == RequestStatusPending
}
