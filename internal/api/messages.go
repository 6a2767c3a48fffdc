package api

import (
	"github.com/labstack/echo/v4"
)

// Inbox handles GET /v1/messages/inbox.
func (h *Handler) Inbox(c echo.Context) error {
	id := identity(c)

	messages, err := h.notifications.Inbox(c.Request().Context(), id.UserID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, "inbox", messages)
}

// SentMessages handles GET /v1/messages/sent.
func (h *Handler) SentMessages(c echo.Context) error {
	id := identity(c)

	messages, err := h.notifications.Sent(c.Request().Context(), id.UserID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, "sent", messages)
}

// MarkMessageRead handles POST /v1/messages/:id/read.
func (h *Handler) MarkMessageRead(c echo.Context) error {
	id := identity(c)

	messageID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.notifications.MarkRead(c.Request().Context(), id.UserID, messageID); err != nil {
		return fail(c, err)
	}

	return ok(c, "message marked as read", nil)
}

// TrashMessage handles POST /v1/messages/:id/trash.
func (h *Handler) TrashMessage(c echo.Context) error {
	id := identity(c)

	messageID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.notifications.Trash(c.Request().Context(), id.UserID, messageID); err != nil {
		return fail(c, err)
	}

	return ok(c, "message moved to trash", nil)
}
