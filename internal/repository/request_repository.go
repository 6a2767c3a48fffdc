package repository

import (
	"context"
	"fmt"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository/base"
)

type RequestRepository struct {
	db base.Querier
}

func NewRequestRepository(db base.Querier) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a new pending request. The partial unique index on
// active (session, student) pairs surfaces a unique violation if a race
// slips past the service-level checks.
func (r *RequestRepository) Create(ctx context.Context, request *model.JoinRequest) error {
	query := `
		INSERT INTO join_requests (session_id, student_id, tutor_id, status, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		request.SessionID,
		request.StudentID,
		request.TutorID,
		request.Status,
		request.Message,
	).Scan(&request.ID, &request.CreatedAt)

	if err != nil {
		return fmt.Errorf("create join request: %w", err)
	}

	return nil
}

// GetByID returns the request or nil if absent.
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*model.JoinRequest, error) {
	query := `
		SELECT id, session_id, student_id, tutor_id, status, message, message_ref, created_at, responded_at
		FROM join_requests
		WHERE id = $1
	`

	var request model.JoinRequest
	err := r.db.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.SessionID,
		&request.StudentID,
		&request.TutorID,
		&request.Status,
		&request.Message,
		&request.MessageRef,
		&request.CreatedAt,
		&request.RespondedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get join request by id: %w", err)
	}

	return &request, nil
}

// GetByPair returns the most recent request for the (session, student)
// pair, or nil. At most one active request exists at a time; older denied
// ones are deleted on re-request, so "most recent" is the live one.
func (r *RequestRepository) GetByPair(ctx context.Context, sessionID, studentID int64) (*model.JoinRequest, error) {
	query := `
		SELECT id, session_id, student_id, tutor_id, status, message, message_ref, created_at, responded_at
		FROM join_requests
		WHERE session_id = $1 AND student_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var request model.JoinRequest
	err := r.db.QueryRow(ctx, query, sessionID, studentID).Scan(
		&request.ID,
		&request.SessionID,
		&request.StudentID,
		&request.TutorID,
		&request.Status,
		&request.Message,
		&request.MessageRef,
		&request.CreatedAt,
		&request.RespondedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get join request by pair: %w", err)
	}

	return &request, nil
}

// GetPendingBySession returns the session's pending requests with student
// names, oldest first.
func (r *RequestRepository) GetPendingBySession(ctx context.Context, sessionID int64) ([]*model.JoinRequest, error) {
	query := `
		SELECT jr.id, jr.session_id, jr.student_id, jr.tutor_id, jr.status, jr.message,
		       jr.message_ref, jr.created_at, jr.responded_at,
		       u.id, u.full_name, u.role, u.created_at
		FROM join_requests jr
		JOIN users u ON u.id = jr.student_id
		WHERE jr.session_id = $1 AND jr.status = $2
		ORDER BY jr.created_at
	`

	rows, err := r.db.Query(ctx, query, sessionID, model.RequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("get pending requests by session: %w", err)
	}
	defer rows.Close()

	var requests []*model.JoinRequest
	for rows.Next() {
		var request model.JoinRequest
		var student model.User
		err := rows.Scan(
			&request.ID,
			&request.SessionID,
			&request.StudentID,
			&request.TutorID,
			&request.Status,
			&request.Message,
			&request.MessageRef,
			&request.CreatedAt,
			&request.RespondedAt,
			&student.ID,
			&student.FullName,
			&student.Role,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan join request: %w", err)
		}
		request.Student = &student
		requests = append(requests, &request)
	}

	return requests, rows.Err()
}

// UpdateStatus flips the request status and stamps responded_at.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status model.RequestStatus) error {
	query := `
		UPDATE join_requests
		SET status = $2, responded_at = now()
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}

	return nil
}

// SetMessageRef records the public id of the notification that announced
// the request.
func (r *RequestRepository) SetMessageRef(ctx context.Context, id int64, ref string) error {
	_, err := r.db.Exec(ctx, `UPDATE join_requests SET message_ref = $2 WHERE id = $1`, id, ref)
	if err != nil {
		return fmt.Errorf("set request message ref: %w", err)
	}
	return nil
}

// DeleteDenied removes a prior denied request for the pair, clearing the
// way for a fresh pending one.
func (r *RequestRepository) DeleteDenied(ctx context.Context, sessionID, studentID int64) error {
	query := `
		DELETE FROM join_requests
		WHERE session_id = $1 AND student_id = $2 AND status = $3
	`

	_, err := r.db.Exec(ctx, query, sessionID, studentID, model.RequestStatusDenied)
	if err != nil {
		return fmt.Errorf("delete denied request: %w", err)
	}

	return nil
}

// DowngradeAccepted flips an accepted request for the pair to denied.
// Used when the corresponding enrollment is removed, so request state
// never claims a seat that is gone.
func (r *RequestRepository) DowngradeAccepted(ctx context.Context, sessionID, studentID int64) (int64, error) {
	query := `
		UPDATE join_requests
		SET status = $3, responded_at = now()
		WHERE session_id = $1 AND student_id = $2 AND status = $4
	`

	tag, err := r.db.Exec(ctx, query, sessionID, studentID, model.RequestStatusDenied, model.RequestStatusAccepted)
	if err != nil {
		return 0, fmt.Errorf("downgrade accepted request: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteBySession removes all requests of a session (cancellation
// cascade).
func (r *RequestRepository) DeleteBySession(ctx context.Context, sessionID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM join_requests WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("delete requests by session: %w", err)
	}
	return tag.RowsAffected(), nil
}
