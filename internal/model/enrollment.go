package model

import "time"

// Enrollment is a confirmed occupied seat in a session. The (session,
// student) pair is unique; the count of enrollments for a session never
// exceeds its capacity.
type Enrollment struct {
	SessionID  int64     `json:"session_id"`
	StudentID  int64     `json:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at"`

	// Populated for roster views.
	Student *User `json:"student,omitempty"`
}
