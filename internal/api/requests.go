package api

import (
	"github.com/labstack/echo/v4"
	"github.com/tutorhub/tutorhub/internal/apperr"
	"github.com/tutorhub/tutorhub/internal/model"
)

type createJoinRequest struct {
	Message string `json:"message"`
}

type denyRequest struct {
	Reason string `json:"reason"`
}

// CreateJoinRequest handles POST /v1/sessions/:id/requests.
func (h *Handler) CreateJoinRequest(c echo.Context) error {
	id, isStudent := requireRole(c, model.RoleStudent)
	if !isStudent {
		return forbiddenRole(c, model.RoleStudent)
	}

	sessionID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req createJoinRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request body"))
	}

	request, err := h.requests.Create(c.Request().Context(), id.UserID, sessionID, req.Message)
	if err != nil {
		return fail(c, err)
	}

	return created(c, "join request sent", map[string]int64{"request_id": request.ID})
}

// AcceptRequest handles POST /v1/requests/:id/accept.
func (h *Handler) AcceptRequest(c echo.Context) error {
	id, isTutor := requireRole(c, model.RoleTutor)
	if !isTutor {
		return forbiddenRole(c, model.RoleTutor)
	}

	requestID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.requests.Accept(c.Request().Context(), id.UserID, requestID); err != nil {
		return fail(c, err)
	}

	return ok(c, "request accepted, student enrolled", nil)
}

// DenyRequest handles POST /v1/requests/:id/deny.
func (h *Handler) DenyRequest(c echo.Context) error {
	id, isTutor := requireRole(c, model.RoleTutor)
	if !isTutor {
		return forbiddenRole(c, model.RoleTutor)
	}

	requestID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req denyRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request body"))
	}

	if err := h.requests.Deny(c.Request().Context(), id.UserID, requestID, req.Reason); err != nil {
		return fail(c, err)
	}

	return ok(c, "request denied", nil)
}

// RequestStatus handles GET /v1/sessions/:id/request-status.
func (h *Handler) RequestStatus(c echo.Context) error {
	id, isStudent := requireRole(c, model.RoleStudent)
	if !isStudent {
		return forbiddenRole(c, model.RoleStudent)
	}

	sessionID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	state, err := h.requests.Status(c.Request().Context(), id.UserID, sessionID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, "request status", map[string]string{"status": string(state)})
}

// Unenroll handles DELETE /v1/sessions/:id/enrollment.
func (h *Handler) Unenroll(c echo.Context) error {
	id, isStudent := requireRole(c, model.RoleStudent)
	if !isStudent {
		return forbiddenRole(c, model.RoleStudent)
	}

	sessionID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.enrollments.Unenroll(c.Request().Context(), id.UserID, sessionID); err != nil {
		return fail(c, err)
	}

	return ok(c, "unenrolled from session", nil)
}

// RemoveStudent handles DELETE /v1/sessions/:id/students/:student_id.
func (h *Handler) RemoveStudent(c echo.Context) error {
	id, isTutor := requireRole(c, model.RoleTutor)
	if !isTutor {
		return forbiddenRole(c, model.RoleTutor)
	}

	sessionID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	studentID, err := pathID(c, "student_id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.enrollments.Remove(c.Request().Context(), id.UserID, sessionID, studentID); err != nil {
		return fail(c, err)
	}

	return ok(c, "student removed from session", nil)
}
