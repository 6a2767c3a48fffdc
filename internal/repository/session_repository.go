package repository

import (
	"context"
	"fmt"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository/base"
)

type SessionRepository struct {
	db base.Querier
}

func NewSessionRepository(db base.Querier) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts the session row. Course associations are inserted
// separately via AddCourses so both run in the caller's transaction.
func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (tutor_id, title, kind, status, start_time, end_time, capacity, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		session.TutorID,
		session.Title,
		session.Kind,
		session.Status,
		session.StartTime,
		session.EndTime,
		session.Capacity,
		session.Location,
	).Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// AddCourses links the session to the given courses.
func (r *SessionRepository) AddCourses(ctx context.Context, sessionID int64, courseIDs []int64) error {
	query := `
		INSERT INTO session_courses (session_id, course_id)
		SELECT $1, unnest($2::bigint[])
	`

	_, err := r.db.Exec(ctx, query, sessionID, courseIDs)
	if err != nil {
		return fmt.Errorf("add session courses: %w", err)
	}

	return nil
}

// GetByID returns the session with its derived enrolled count and course
// ids, or nil if absent. The count is read in the same statement so it is
// never stale relative to the session row.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	query := `
		SELECT s.id, s.tutor_id, s.title, s.kind, s.status, s.start_time, s.end_time,
		       s.capacity, s.location, s.created_at,
		       (SELECT count(*) FROM enrollments e WHERE e.session_id = s.id),
		       coalesce((SELECT array_agg(sc.course_id ORDER BY sc.course_id)
		                 FROM session_courses sc WHERE sc.session_id = s.id), '{}')
		FROM sessions s
		WHERE s.id = $1
	`

	var session model.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.TutorID,
		&session.Title,
		&session.Kind,
		&session.Status,
		&session.StartTime,
		&session.EndTime,
		&session.Capacity,
		&session.Location,
		&session.CreatedAt,
		&session.EnrolledCount,
		&session.CourseIDs,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return &session, nil
}

// GetByIDForUpdate locks the session row for the rest of the transaction.
// Every capacity check runs behind this lock so that concurrent accepts
// and new requests against the same session serialize.
func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Session, error) {
	query := `
		SELECT id, tutor_id, title, kind, status, start_time, end_time, capacity, location, created_at
		FROM sessions
		WHERE id = $1
		FOR UPDATE
	`

	var session model.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.TutorID,
		&session.Title,
		&session.Kind,
		&session.Status,
		&session.StartTime,
		&session.EndTime,
		&session.Capacity,
		&session.Location,
		&session.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session for update: %w", err)
	}

	return &session, nil
}

// GetByTutorID returns the tutor's sessions, soonest first.
func (r *SessionRepository) GetByTutorID(ctx context.Context, tutorID int64) ([]*model.Session, error) {
	query := `
		SELECT s.id, s.tutor_id, s.title, s.kind, s.status, s.start_time, s.end_time,
		       s.capacity, s.location, s.created_at,
		       (SELECT count(*) FROM enrollments e WHERE e.session_id = s.id)
		FROM sessions s
		WHERE s.tutor_id = $1
		ORDER BY s.start_time
	`

	rows, err := r.db.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get sessions by tutor: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		var session model.Session
		err := rows.Scan(
			&session.ID,
			&session.TutorID,
			&session.Title,
			&session.Kind,
			&session.Status,
			&session.StartTime,
			&session.EndTime,
			&session.Capacity,
			&session.Location,
			&session.CreatedAt,
			&session.EnrolledCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}

// DeleteCourses removes the session's course associations.
func (r *SessionRepository) DeleteCourses(ctx context.Context, sessionID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM session_courses WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session courses: %w", err)
	}
	return nil
}

// Delete removes the session row.
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
