package service

import (
	"context"

	"github.com/tutorhub/tutorhub/internal/apperr"
	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository/base"
	"go.uber.org/zap"
)

// RequestState is what a student sees when asking "where do I stand with
// this session".
type RequestState string

const (
	StateEnrolled RequestState = "enrolled"
	StatePending  RequestState = "pending"
	StateAccepted RequestState = "accepted"
	StateDenied   RequestState = "denied"
	StateNone     RequestState = "none"
)

// RequestService owns the join-request lifecycle: pending on creation,
// accepted or denied by the tutor, and back to pending only by replacing
// a denied request with a fresh one.
type RequestService struct {
	db            DB
	notifications *NotificationService
	logger        *zap.Logger
}

func NewRequestService(db DB, notifications *NotificationService, logger *zap.Logger) *RequestService {
	return &RequestService{
		db:            db,
		notifications: notifications,
		logger:        logger,
	}
}

// Create files a pending request for the student and notifies the tutor.
// The whole check-and-insert runs behind the session row lock so a
// request racing an accept observes the post-accept enrollment count.
func (s *RequestService) Create(ctx context.Context, studentID, sessionID int64, note string) (*model.JoinRequest, error) {
	var created *model.JoinRequest

	err := s.db.InTx(ctx, func(st Stores) error {
		session, err := st.Sessions.GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound("session not found")
		}
		if session.TutorID == studentID {
			return apperr.SelfRequest("you cannot request to join your own session")
		}

		student, err := st.Users.GetByID(ctx, studentID)
		if err != nil {
			return err
		}
		if student == nil {
			return apperr.NotFound("student account not found")
		}

		count, err := st.Enrollments.CountBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.HasSeat(count) {
			return apperr.CapacityExceeded("session is already full")
		}

		enrolled, err := st.Enrollments.Exists(ctx, sessionID, studentID)
		if err != nil {
			return err
		}
		if enrolled {
			return apperr.AlreadyEnrolled("you are already enrolled in this session")
		}

		prior, err := st.Requests.GetByPair(ctx, sessionID, studentID)
		if err != nil {
			return err
		}
		if prior != nil {
			switch prior.Status {
			case model.RequestStatusPending:
				return apperr.DuplicateRequest("you already have a pending request for this session")
			case model.RequestStatusAccepted:
				return apperr.DuplicateRequest("your request for this session was already accepted")
			case model.RequestStatusDenied:
				// A denied request is replaced, not resurrected.
				if err := st.Requests.DeleteDenied(ctx, sessionID, studentID); err != nil {
					return err
				}
			}
		}

		request := &model.JoinRequest{
			SessionID: sessionID,
			StudentID: studentID,
			TutorID:   session.TutorID,
			Status:    model.RequestStatusPending,
			Message:   note,
		}
		if err := st.Requests.Create(ctx, request); err != nil {
			return err
		}

		message, err := s.notifications.Send(ctx, st, JoinRequestDraft(session, student, note))
		if err != nil {
			return err
		}
		if err := st.Requests.SetMessageRef(ctx, request.ID, message.PublicID); err != nil {
			return err
		}
		request.MessageRef = &message.PublicID

		created = request
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}

	s.logger.Info("Join request created",
		zap.Int64("request_id", created.ID),
		zap.Int64("session_id", sessionID),
		zap.Int64("student_id", studentID),
	)

	return created, nil
}

// Accept flips a pending request to accepted, enrolls the student and
// notifies them. Capacity is rechecked at accept time under the session
// row lock: several requests may be pending against a single seat.
func (s *RequestService) Accept(ctx context.Context, tutorID, requestID int64) error {
	request, err := s.db.Stores().Requests.GetByID(ctx, requestID)
	if err != nil {
		return asAppError(err)
	}
	if request == nil {
		return apperr.NotFound("request not found")
	}
	if request.TutorID != tutorID {
		return apperr.Authorization("no permission to respond to this request")
	}

	err = s.db.InTx(ctx, func(st Stores) error {
		session, err := st.Sessions.GetByIDForUpdate(ctx, request.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound("session not found")
		}

		// Re-read under the lock: a concurrent accept or deny may have
		// decided this request since the pre-check above.
		current, err := st.Requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.NotFound("request not found")
		}
		if !current.CanRespond() {
			return apperr.InvalidState("request is not pending (current status: %s)", current.Status)
		}

		count, err := st.Enrollments.CountBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		if !session.HasSeat(count) {
			return apperr.CapacityExceeded("session is already full")
		}

		if err := st.Requests.UpdateStatus(ctx, requestID, model.RequestStatusAccepted); err != nil {
			return err
		}

		enrollment := &model.Enrollment{SessionID: session.ID, StudentID: current.StudentID}
		if err := st.Enrollments.Create(ctx, enrollment); err != nil {
			if base.IsUniqueViolation(err) {
				return apperr.DuplicateEnrollment("student is already enrolled in this session")
			}
			return err
		}

		_, err = s.notifications.Send(ctx, st, AcceptedDraft(session, current.StudentID))
		return err
	})
	if err != nil {
		return asAppError(err)
	}

	s.logger.Info("Join request accepted",
		zap.Int64("request_id", requestID),
		zap.Int64("tutor_id", tutorID),
	)

	return nil
}

// Deny flips a pending request to denied and notifies the student with
// the tutor's optional reason. Enrollments are never touched.
func (s *RequestService) Deny(ctx context.Context, tutorID, requestID int64, reason string) error {
	request, err := s.db.Stores().Requests.GetByID(ctx, requestID)
	if err != nil {
		return asAppError(err)
	}
	if request == nil {
		return apperr.NotFound("request not found")
	}
	if request.TutorID != tutorID {
		return apperr.Authorization("no permission to respond to this request")
	}

	err = s.db.InTx(ctx, func(st Stores) error {
		session, err := st.Sessions.GetByIDForUpdate(ctx, request.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound("session not found")
		}

		current, err := st.Requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.NotFound("request not found")
		}
		if !current.CanRespond() {
			return apperr.InvalidState("request is not pending (current status: %s)", current.Status)
		}

		if err := st.Requests.UpdateStatus(ctx, requestID, model.RequestStatusDenied); err != nil {
			return err
		}

		_, err = s.notifications.Send(ctx, st, DeniedDraft(session, current.StudentID, reason))
		return err
	})
	if err != nil {
		return asAppError(err)
	}

	s.logger.Info("Join request denied",
		zap.Int64("request_id", requestID),
		zap.Int64("tutor_id", tutorID),
	)

	return nil
}

// Status answers a student's standing with a session. An enrollment wins
// over whatever the request row says.
func (s *RequestService) Status(ctx context.Context, studentID, sessionID int64) (RequestState, error) {
	st := s.db.Stores()

	session, err := st.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return "", asAppError(err)
	}
	if session == nil {
		return "", apperr.NotFound("session not found")
	}

	enrolled, err := st.Enrollments.Exists(ctx, sessionID, studentID)
	if err != nil {
		return "", asAppError(err)
	}
	if enrolled {
		return StateEnrolled, nil
	}

	request, err := st.Requests.GetByPair(ctx, sessionID, studentID)
	if err != nil {
		return "", asAppError(err)
	}
	if request == nil {
		return StateNone, nil
	}

	switch request.Status {
	case model.RequestStatusPending:
		return StatePending, nil
	case model.RequestStatusAccepted:
		return StateAccepted, nil
	default:
		return StateDenied, nil
	}
}
