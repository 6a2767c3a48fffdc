package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tutorhub/tutorhub/internal/apperr"
	"github.com/tutorhub/tutorhub/internal/model"
)

type createSessionRequest struct {
	Title     string  `json:"title" validate:"required"`
	Kind      string  `json:"kind" validate:"required"`
	CourseIDs []int64 `json:"course_ids" validate:"required,min=1"`
	Start     string  `json:"start" validate:"required"`
	End       string  `json:"end" validate:"required"`
	Capacity  int     `json:"capacity"`
	Location  string  `json:"location"`
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

func parseWhen(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperr.Validation("%s is not a valid RFC3339 timestamp", field)
	}
	return t, nil
}

// CreateSession handles POST /v1/sessions.
func (h *Handler) CreateSession(c echo.Context) error {
	id, isTutor := requireRole(c, model.RoleTutor)
	if !isTutor {
		return forbiddenRole(c, model.RoleTutor)
	}

	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, apperr.Validation("invalid request body: %v", err))
	}

	start, err := parseWhen("start", req.Start)
	if err != nil {
		return fail(c, err)
	}
	end, err := parseWhen("end", req.End)
	if err != nil {
		return fail(c, err)
	}

	session, err := h.sessions.Create(c.Request().Context(), id.UserID, model.NewSessionInput{
		Title:     req.Title,
		Kind:      model.SessionKind(req.Kind),
		CourseIDs: req.CourseIDs,
		StartTime: start,
		EndTime:   end,
		Capacity:  req.Capacity,
		Location:  req.Location,
	})
	if err != nil {
		return fail(c, err)
	}

	return created(c, "session created", session)
}

// GetSession handles GET /v1/sessions/:id.
func (h *Handler) GetSession(c echo.Context) error {
	sessionID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	session, err := h.sessions.Get(c.Request().Context(), sessionID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, "session", session)
}

// ListMySessions handles GET /v1/sessions for tutors.
func (h *Handler) ListMySessions(c echo.Context) error {
	id, isTutor := requireRole(c, model.RoleTutor)
	if !isTutor {
		return forbiddenRole(c, model.RoleTutor)
	}

	sessions, err := h.sessions.ListByTutor(c.Request().Context(), id.UserID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, "sessions", sessions)
}

// GetRoster handles GET /v1/sessions/:id/roster.
func (h *Handler) GetRoster(c echo.Context) error {
	id, isTutor := requireRole(c, model.RoleTutor)
	if !isTutor {
		return forbiddenRole(c, model.RoleTutor)
	}

	sessionID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	roster, err := h.sessions.Roster(c.Request().Context(), id.UserID, sessionID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, "roster", roster)
}

// DeleteSession handles DELETE /v1/sessions/:id and reports how many
// students were notified by the cancellation cascade.
func (h *Handler) DeleteSession(c echo.Context) error {
	id, isTutor := requireRole(c, model.RoleTutor)
	if !isTutor {
		return forbiddenRole(c, model.RoleTutor)
	}

	sessionID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	notified, err := h.sessions.Delete(c.Request().Context(), id.UserID, sessionID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fmt.Sprintf("session cancelled, %d students notified", notified), map[string]int{
		"notified_count": notified,
	})
}
