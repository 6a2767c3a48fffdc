package service

import (
	"context"

	"github.com/tutorhub/tutorhub/internal/apperr"
	"go.uber.org/zap"
)

// EnrollmentService owns seat release: student-initiated unenroll and
// tutor-initiated removal. Seats are only ever taken through
// RequestService.Accept, so both paths here release state and keep the
// request record consistent with "no longer enrolled".
type EnrollmentService struct {
	db            DB
	notifications *NotificationService
	logger        *zap.Logger
}

func NewEnrollmentService(db DB, notifications *NotificationService, logger *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		db:            db,
		notifications: notifications,
		logger:        logger,
	}
}

// Unenroll removes the student's own enrollment, downgrades their
// accepted request to denied and tells the tutor a seat opened up.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, sessionID int64) error {
	err := s.db.InTx(ctx, func(st Stores) error {
		session, err := st.Sessions.GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound("session not found")
		}

		deleted, err := st.Enrollments.Delete(ctx, sessionID, studentID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return apperr.NotFound("you are not enrolled in this session")
		}

		if _, err := st.Requests.DowngradeAccepted(ctx, sessionID, studentID); err != nil {
			return err
		}

		_, err = s.notifications.Send(ctx, st, SpotFreedDraft(session, studentID))
		return err
	})
	if err != nil {
		return asAppError(err)
	}

	s.logger.Info("Student unenrolled",
		zap.Int64("session_id", sessionID),
		zap.Int64("student_id", studentID),
	)

	return nil
}

// Remove is the tutor-initiated variant of Unenroll: same state changes,
// but the notification goes to the removed student and names the tutor
// as the contact point.
func (s *EnrollmentService) Remove(ctx context.Context, tutorID, sessionID, studentID int64) error {
	err := s.db.InTx(ctx, func(st Stores) error {
		session, err := st.Sessions.GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound("session not found")
		}
		if session.TutorID != tutorID {
			return apperr.Authorization("no permission to manage this session")
		}

		tutor, err := st.Users.GetByID(ctx, tutorID)
		if err != nil {
			return err
		}
		if tutor == nil {
			return apperr.NotFound("tutor account not found")
		}

		deleted, err := st.Enrollments.Delete(ctx, sessionID, studentID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return apperr.NotFound("student is not enrolled in this session")
		}

		if _, err := st.Requests.DowngradeAccepted(ctx, sessionID, studentID); err != nil {
			return err
		}

		_, err = s.notifications.Send(ctx, st, RemovalDraft(session, tutor, studentID))
		return err
	})
	if err != nil {
		return asAppError(err)
	}

	s.logger.Info("Student removed from session",
		zap.Int64("session_id", sessionID),
		zap.Int64("student_id", studentID),
		zap.Int64("tutor_id", tutorID),
	)

	return nil
}
