package service

import (
	"fmt"

	"github.com/tutorhub/tutorhub/internal/model"
)

// Notification drafts are built as pure values from current state and
// executed inside the same transaction as the state change they announce.

const sessionTimeLayout = "Mon, 02 Jan 2006 15:04"

func describeKind(kind model.SessionKind) string {
	if kind == model.SessionKindOneOnOne {
		return "one-on-one session"
	}
	return "open group session"
}

func describeWindow(session *model.Session) string {
	return fmt.Sprintf("%s to %s",
		session.StartTime.Format(sessionTimeLayout),
		session.EndTime.Format("15:04"))
}

// JoinRequestDraft announces a new join request to the owning tutor.
func JoinRequestDraft(session *model.Session, student *model.User, note string) model.MessageDraft {
	body := fmt.Sprintf(
		"%s wants to join %q (%s).\nWhen: %s\nWhere: %s",
		student.FullName, session.Title, describeKind(session.Kind), describeWindow(session), session.Location,
	)
	if note != "" {
		body += "\n\nStudent's note: " + note
	}

	return model.MessageDraft{
		SenderID:   student.ID,
		ReceiverID: session.TutorID,
		Subject:    fmt.Sprintf("Join request: %s", session.Title),
		Body:       body,
		Kind:       model.MessageKindJoinRequest,
	}
}

// AcceptedDraft tells the student their request was accepted.
func AcceptedDraft(session *model.Session, studentID int64) model.MessageDraft {
	return model.MessageDraft{
		SenderID:   session.TutorID,
		ReceiverID: studentID,
		Subject:    fmt.Sprintf("Accepted: %s", session.Title),
		Body: fmt.Sprintf(
			"Your request to join %q was accepted. See you on %s at %s.",
			session.Title, describeWindow(session), session.Location,
		),
		Kind: model.MessageKindRequestAccepted,
	}
}

// DeniedDraft tells the student their request was denied, with the
// tutor's optional reason.
func DeniedDraft(session *model.Session, studentID int64, reason string) model.MessageDraft {
	body := fmt.Sprintf("Your request to join %q was denied.", session.Title)
	if reason != "" {
		body += "\n\nTutor's note: " + reason
	}

	return model.MessageDraft{
		SenderID:   session.TutorID,
		ReceiverID: studentID,
		Subject:    fmt.Sprintf("Denied: %s", session.Title),
		Body:       body,
		Kind:       model.MessageKindRequestDenied,
	}
}

// RemovalDraft tells a student the tutor removed them from the session.
func RemovalDraft(session *model.Session, tutor *model.User, studentID int64) model.MessageDraft {
	return model.MessageDraft{
		SenderID:   session.TutorID,
		ReceiverID: studentID,
		Subject:    fmt.Sprintf("Removed from session: %s", session.Title),
		Body: fmt.Sprintf(
			"You were removed from %q scheduled for %s. Contact %s if you believe this is a mistake.",
			session.Title, describeWindow(session), tutor.FullName,
		),
		Kind: model.MessageKindRemoved,
	}
}

// SpotFreedDraft tells the tutor a student unenrolled and a seat opened.
func SpotFreedDraft(session *model.Session, studentID int64) model.MessageDraft {
	return model.MessageDraft{
		SenderID:   studentID,
		ReceiverID: session.TutorID,
		Subject:    fmt.Sprintf("Spot freed: %s", session.Title),
		Body: fmt.Sprintf(
			"A student left %q (%s). One seat is available again.",
			session.Title, describeWindow(session),
		),
		Kind: model.MessageKindSpotFreed,
	}
}

// CancellationDrafts builds one notification per pending requester and
// one per enrolled student for a session being cancelled. The slice is
// deterministic: pending requesters first (request order), then attendees
// (enrollment order).
func CancellationDrafts(session *model.Session, pending []*model.JoinRequest, enrolled []*model.Enrollment) []model.MessageDraft {
	body := fmt.Sprintf(
		"The session %q scheduled for %s was cancelled by the tutor.",
		session.Title, describeWindow(session),
	)
	subject := fmt.Sprintf("Session cancelled: %s", session.Title)

	drafts := make([]model.MessageDraft, 0, len(pending)+len(enrolled))
	for _, request := range pending {
		drafts = append(drafts, model.MessageDraft{
			SenderID:   session.TutorID,
			ReceiverID: request.StudentID,
			Subject:    subject,
			Body:       body,
			Kind:       model.MessageKindSessionCancelled,
		})
	}
	for _, enrollment := range enrolled {
		drafts = append(drafts, model.MessageDraft{
			SenderID:   session.TutorID,
			ReceiverID: enrollment.StudentID,
			Subject:    subject,
			Body:       body,
			Kind:       model.MessageKindSessionCancelled,
		})
	}

	return drafts
}
