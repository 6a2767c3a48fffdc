package service

import (
	"context"
	"time"

	"github.com/tutorhub/tutorhub/internal/apperr"
	"github.com/tutorhub/tutorhub/internal/model"
	"go.uber.org/zap"
)

// Roster is the tutor's view of a session: confirmed attendees in
// first-come order plus the requests still awaiting a decision.
type Roster struct {
	Session         *model.Session       `json:"session"`
	Capacity        int                  `json:"capacity"`
	EnrolledCount   int                  `json:"enrolled_count"`
	Enrollments     []*model.Enrollment  `json:"enrollments"`
	PendingRequests []*model.JoinRequest `json:"pending_requests"`
}

// SessionService owns session creation, read-back and the cancellation
// cascade.
type SessionService struct {
	db            DB
	notifications *NotificationService
	logger        *zap.Logger
}

func NewSessionService(db DB, notifications *NotificationService, logger *zap.Logger) *SessionService {
	return &SessionService{
		db:            db,
		notifications: notifications,
		logger:        logger,
	}
}

// Create validates the input and persists the session together with its
// course associations in one transaction.
func (s *SessionService) Create(ctx context.Context, tutorID int64, input model.NewSessionInput) (*model.Session, error) {
	if err := input.Validate(time.Now()); err != nil {
		return nil, err
	}

	courseIDs := dedupe(input.CourseIDs)
	owned, err := s.db.Stores().Courses.CountOwned(ctx, tutorID, courseIDs)
	if err != nil {
		return nil, asAppError(err)
	}
	if owned != len(courseIDs) {
		return nil, apperr.Validation("one or more courses are not taught by you")
	}

	session := &model.Session{
		TutorID:   tutorID,
		Title:     input.Title,
		Kind:      input.Kind,
		Status:    model.SessionStatusScheduled,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Capacity:  input.Capacity,
		Location:  input.Location,
		CourseIDs: courseIDs,
	}

	err = s.db.InTx(ctx, func(st Stores) error {
		if err := st.Sessions.Create(ctx, session); err != nil {
			return err
		}
		return st.Sessions.AddCourses(ctx, session.ID, courseIDs)
	})
	if err != nil {
		return nil, asAppError(err)
	}

	s.logger.Info("Session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("tutor_id", tutorID),
		zap.String("kind", string(session.Kind)),
		zap.Int("capacity", session.Capacity),
	)

	return session, nil
}

// Get returns the session with its derived enrolled count.
func (s *SessionService) Get(ctx context.Context, sessionID int64) (*model.Session, error) {
	session, err := s.db.Stores().Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, asAppError(err)
	}
	if session == nil {
		return nil, apperr.NotFound("session not found")
	}
	return session, nil
}

// ListByTutor returns the tutor's sessions, soonest first.
func (s *SessionService) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Session, error) {
	sessions, err := s.db.Stores().Sessions.GetByTutorID(ctx, tutorID)
	if err != nil {
		return nil, asAppError(err)
	}
	return sessions, nil
}

// Roster returns the tutor-only management view of a session.
func (s *SessionService) Roster(ctx context.Context, tutorID, sessionID int64) (*Roster, error) {
	st := s.db.Stores()

	session, err := st.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, asAppError(err)
	}
	if session == nil {
		return nil, apperr.NotFound("session not found")
	}
	if session.TutorID != tutorID {
		return nil, apperr.Authorization("no permission to manage this session")
	}

	enrollments, err := st.Enrollments.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, asAppError(err)
	}
	pending, err := st.Requests.GetPendingBySession(ctx, sessionID)
	if err != nil {
		return nil, asAppError(err)
	}

	return &Roster{
		Session:         session,
		Capacity:        session.Capacity,
		EnrolledCount:   len(enrollments),
		Enrollments:     enrollments,
		PendingRequests: pending,
	}, nil
}

// Delete cancels a session and runs the whole cascade in one
// transaction: every pending requester and every enrolled student gets a
// cancellation notification, and only then are the request, enrollment,
// course-association and session rows removed. Returns how many students
// were notified.
func (s *SessionService) Delete(ctx context.Context, tutorID, sessionID int64) (int, error) {
	var notified int

	err := s.db.InTx(ctx, func(st Stores) error {
		session, err := st.Sessions.GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound("session not found")
		}
		if session.TutorID != tutorID {
			return apperr.Authorization("no permission to delete this session")
		}

		pending, err := st.Requests.GetPendingBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		enrolled, err := st.Enrollments.GetBySession(ctx, sessionID)
		if err != nil {
			return err
		}

		drafts := CancellationDrafts(session, pending, enrolled)
		for _, draft := range drafts {
			if _, err := s.notifications.Send(ctx, st, draft); err != nil {
				return err
			}
		}

		if _, err := st.Requests.DeleteBySession(ctx, sessionID); err != nil {
			return err
		}
		if _, err := st.Enrollments.DeleteBySession(ctx, sessionID); err != nil {
			return err
		}
		if err := st.Sessions.DeleteCourses(ctx, sessionID); err != nil {
			return err
		}
		if err := st.Sessions.Delete(ctx, sessionID); err != nil {
			return err
		}

		notified = len(drafts)
		return nil
	})
	if err != nil {
		return 0, asAppError(err)
	}

	s.logger.Info("Session cancelled",
		zap.Int64("session_id", sessionID),
		zap.Int64("tutor_id", tutorID),
		zap.Int("notified", notified),
	)

	return notified, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
