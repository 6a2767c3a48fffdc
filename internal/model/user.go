package model

import "time"

type Role string

const (
	RoleTutor   Role = "tutor"
	RoleStudent Role = "student"
)

// User is owned by the auth collaborator; carried here read-only because
// sessions, requests and messages reference it.
type User struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsTutor() bool {
	return u.Role == RoleTutor
}
