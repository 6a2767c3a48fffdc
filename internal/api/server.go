package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer builds the echo instance with identity middleware and all
// routes registered.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = newPayloadValidator()

	e.Use(middleware.Recover())

	v1 := e.Group("/v1", WithIdentity)

	v1.POST("/sessions", h.CreateSession)
	v1.GET("/sessions", h.ListMySessions)
	v1.GET("/sessions/:id", h.GetSession)
	v1.DELETE("/sessions/:id", h.DeleteSession)
	v1.GET("/sessions/:id/roster", h.GetRoster)

	v1.POST("/sessions/:id/requests", h.CreateJoinRequest)
	v1.GET("/sessions/:id/request-status", h.RequestStatus)
	v1.POST("/requests/:id/accept", h.AcceptRequest)
	v1.POST("/requests/:id/deny", h.DenyRequest)

	v1.DELETE("/sessions/:id/enrollment", h.Unenroll)
	v1.DELETE("/sessions/:id/students/:student_id", h.RemoveStudent)

	v1.GET("/messages/inbox", h.Inbox)
	v1.GET("/messages/sent", h.SentMessages)
	v1.POST("/messages/:id/read", h.MarkMessageRead)
	v1.POST("/messages/:id/trash", h.TrashMessage)

	return e
}
