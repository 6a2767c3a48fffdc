package model

import "time"

// Course is a subject a tutor teaches. A session may only be associated
// with courses owned by its tutor.
type Course struct {
	ID        int64     `json:"id"`
	TutorID   int64     `json:"tutor_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
