package service

import (
	"context"

	"github.com/tutorhub/tutorhub/internal/model"
)

// Store interfaces are declared here, on the consumer side, so the
// lifecycle services can be tested against an in-memory implementation.
// The pgx repositories satisfy them as-is.

type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	AddCourses(ctx context.Context, sessionID int64, courseIDs []int64) error
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Session, error)
	GetByTutorID(ctx context.Context, tutorID int64) ([]*model.Session, error)
	DeleteCourses(ctx context.Context, sessionID int64) error
	Delete(ctx context.Context, id int64) error
}

type CourseStore interface {
	CountOwned(ctx context.Context, tutorID int64, courseIDs []int64) (int, error)
}

type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	CountBySession(ctx context.Context, sessionID int64) (int, error)
	Exists(ctx context.Context, sessionID, studentID int64) (bool, error)
	GetBySession(ctx context.Context, sessionID int64) ([]*model.Enrollment, error)
	Delete(ctx context.Context, sessionID, studentID int64) (int64, error)
	DeleteBySession(ctx context.Context, sessionID int64) (int64, error)
}

type RequestStore interface {
	Create(ctx context.Context, request *model.JoinRequest) error
	GetByID(ctx context.Context, id int64) (*model.JoinRequest, error)
	GetByPair(ctx context.Context, sessionID, studentID int64) (*model.JoinRequest, error)
	GetPendingBySession(ctx context.Context, sessionID int64) ([]*model.JoinRequest, error)
	UpdateStatus(ctx context.Context, id int64, status model.RequestStatus) error
	SetMessageRef(ctx context.Context, id int64, ref string) error
	DeleteDenied(ctx context.Context, sessionID, studentID int64) error
	DowngradeAccepted(ctx context.Context, sessionID, studentID int64) (int64, error)
	DeleteBySession(ctx context.Context, sessionID int64) (int64, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type MessageStore interface {
	Create(ctx context.Context, message *model.Message) error
	GetFolder(ctx context.Context, userID int64, folder model.Folder) ([]*model.Message, error)
	SetRead(ctx context.Context, messageID, userID int64, read bool) (int64, error)
	SetFolder(ctx context.Context, messageID, userID int64, folder model.Folder) (int64, error)
}

// Stores bundles the stores for one unit of work: either the shared pool
// or a single transaction.
type Stores struct {
	Sessions    SessionStore
	Courses     CourseStore
	Enrollments EnrollmentStore
	Requests    RequestStore
	Users       UserStore
	Messages    MessageStore
}

// DB hands out store bundles. Stores() serves plain reads; InTx runs fn
// against transaction-bound stores, committing on nil and rolling back
// otherwise.
type DB interface {
	Stores() Stores
	InTx(ctx context.Context, fn func(st Stores) error) error
}
