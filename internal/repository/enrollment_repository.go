package repository

import (
	"context"
	"fmt"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository/base"
)

type EnrollmentRepository struct {
	db base.Querier
}

func NewEnrollmentRepository(db base.Querier) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts the enrollment. A primary-key violation (the pair
// already exists) surfaces as a unique violation for the caller to map.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (session_id, student_id)
		VALUES ($1, $2)
		RETURNING enrolled_at
	`

	err := r.db.QueryRow(ctx, query, enrollment.SessionID, enrollment.StudentID).
		Scan(&enrollment.EnrolledAt)
	if err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}

	return nil
}

// CountBySession returns the current number of enrollments. Callers doing
// a capacity check must hold the session row lock in the same transaction.
func (r *EnrollmentRepository) CountBySession(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM enrollments WHERE session_id = $1`, sessionID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}

// Exists reports whether the student is enrolled in the session.
func (r *EnrollmentRepository) Exists(ctx context.Context, sessionID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE session_id = $1 AND student_id = $2)`,
		sessionID, studentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// GetBySession returns the session's enrollments with student names,
// oldest first.
func (r *EnrollmentRepository) GetBySession(ctx context.Context, sessionID int64) ([]*model.Enrollment, error) {
	query := `
		SELECT e.session_id, e.student_id, e.enrolled_at, u.id, u.full_name, u.role, u.created_at
		FROM enrollments e
		JOIN users u ON u.id = e.student_id
		WHERE e.session_id = $1
		ORDER BY e.enrolled_at
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get enrollments by session: %w", err)
	}
	defer rows.Close()

	var enrollments []*model.Enrollment
	for rows.Next() {
		var enrollment model.Enrollment
		var student model.User
		err := rows.Scan(
			&enrollment.SessionID,
			&enrollment.StudentID,
			&enrollment.EnrolledAt,
			&student.ID,
			&student.FullName,
			&student.Role,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollment.Student = &student
		enrollments = append(enrollments, &enrollment)
	}

	return enrollments, rows.Err()
}

// Delete removes one enrollment and returns how many rows went away.
func (r *EnrollmentRepository) Delete(ctx context.Context, sessionID, studentID int64) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM enrollments WHERE session_id = $1 AND student_id = $2`,
		sessionID, studentID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete enrollment: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteBySession removes all enrollments of a session (cancellation
// cascade).
func (r *EnrollmentRepository) DeleteBySession(ctx context.Context, sessionID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("delete enrollments by session: %w", err)
	}
	return tag.RowsAffected(), nil
}
