// Package api exposes the coordination core over HTTP. Handlers stay
// thin: bind and validate the payload, read the caller's identity, call
// one service method, wrap the result in the response envelope.
package api

import (
	"context"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/service"
	"go.uber.org/zap"
)

// Service interfaces are declared on the consumer side so handler tests
// can stub them without a database.

type SessionService interface {
	Create(ctx context.Context, tutorID int64, input model.NewSessionInput) (*model.Session, error)
	Get(ctx context.Context, sessionID int64) (*model.Session, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]*model.Session, error)
	Roster(ctx context.Context, tutorID, sessionID int64) (*service.Roster, error)
	Delete(ctx context.Context, tutorID, sessionID int64) (int, error)
}

type RequestService interface {
	Create(ctx context.Context, studentID, sessionID int64, note string) (*model.JoinRequest, error)
	Accept(ctx context.Context, tutorID, requestID int64) error
	Deny(ctx context.Context, tutorID, requestID int64, reason string) error
	Status(ctx context.Context, studentID, sessionID int64) (service.RequestState, error)
}

type EnrollmentService interface {
	Unenroll(ctx context.Context, studentID, sessionID int64) error
	Remove(ctx context.Context, tutorID, sessionID, studentID int64) error
}

type NotificationService interface {
	Inbox(ctx context.Context, userID int64) ([]*model.Message, error)
	Sent(ctx context.Context, userID int64) ([]*model.Message, error)
	MarkRead(ctx context.Context, userID, messageID int64) error
	Trash(ctx context.Context, userID, messageID int64) error
}

type Handler struct {
	sessions      SessionService
	requests      RequestService
	enrollments   EnrollmentService
	notifications NotificationService
	logger        *zap.Logger
}

func NewHandler(
	sessions SessionService,
	requests RequestService,
	enrollments EnrollmentService,
	notifications NotificationService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		sessions:      sessions,
		requests:      requests,
		enrollments:   enrollments,
		notifications: notifications,
		logger:        logger,
	}
}
