package api_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/tutorhub/tutorhub/internal/api"
	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/service"
	"go.uber.org/zap"
)

// Stubs implement the consumer-side service interfaces with overridable
// function fields, so each test wires only the calls it expects.

type stubSessions struct {
	create func(ctx context.Context, tutorID int64, input model.NewSessionInput) (*model.Session, error)
	get    func(ctx context.Context, sessionID int64) (*model.Session, error)
	list   func(ctx context.Context, tutorID int64) ([]*model.Session, error)
	roster func(ctx context.Context, tutorID, sessionID int64) (*service.Roster, error)
	delete func(ctx context.Context, tutorID, sessionID int64) (int, error)
}

func (s *stubSessions) Create(ctx context.Context, tutorID int64, input model.NewSessionInput) (*model.Session, error) {
	return s.create(ctx, tutorID, input)
}
func (s *stubSessions) Get(ctx context.Context, sessionID int64) (*model.Session, error) {
	return s.get(ctx, sessionID)
}
func (s *stubSessions) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Session, error) {
	return s.list(ctx, tutorID)
}
func (s *stubSessions) Roster(ctx context.Context, tutorID, sessionID int64) (*service.Roster, error) {
	return s.roster(ctx, tutorID, sessionID)
}
func (s *stubSessions) Delete(ctx context.Context, tutorID, sessionID int64) (int, error) {
	return s.delete(ctx, tutorID, sessionID)
}

type stubRequests struct {
	create func(ctx context.Context, studentID, sessionID int64, note string) (*model.JoinRequest, error)
	accept func(ctx context.Context, tutorID, requestID int64) error
	deny   func(ctx context.Context, tutorID, requestID int64, reason string) error
	status func(ctx context.Context, studentID, sessionID int64) (service.RequestState, error)
}

func (s *stubRequests) Create(ctx context.Context, studentID, sessionID int64, note string) (*model.JoinRequest, error) {
	return s.create(ctx, studentID, sessionID, note)
}
func (s *stubRequests) Accept(ctx context.Context, tutorID, requestID int64) error {
	return s.accept(ctx, tutorID, requestID)
}
func (s *stubRequests) Deny(ctx context.Context, tutorID, requestID int64, reason string) error {
	return s.deny(ctx, tutorID, requestID, reason)
}
func (s *stubRequests) Status(ctx context.Context, studentID, sessionID int64) (service.RequestState, error) {
	return s.status(ctx, studentID, sessionID)
}

type stubEnrollments struct {
	unenroll func(ctx context.Context, studentID, sessionID int64) error
	remove   func(ctx context.Context, tutorID, sessionID, studentID int64) error
}

func (s *stubEnrollments) Unenroll(ctx context.Context, studentID, sessionID int64) error {
	return s.unenroll(ctx, studentID, sessionID)
}
func (s *stubEnrollments) Remove(ctx context.Context, tutorID, sessionID, studentID int64) error {
	return s.remove(ctx, tutorID, sessionID, studentID)
}

type stubNotifications struct {
	inbox    func(ctx context.Context, userID int64) ([]*model.Message, error)
	sent     func(ctx context.Context, userID int64) ([]*model.Message, error)
	markRead func(ctx context.Context, userID, messageID int64) error
	trash    func(ctx context.Context, userID, messageID int64) error
}

func (s *stubNotifications) Inbox(ctx context.Context, userID int64) ([]*model.Message, error) {
	return s.inbox(ctx, userID)
}
func (s *stubNotifications) Sent(ctx context.Context, userID int64) ([]*model.Message, error) {
	return s.sent(ctx, userID)
}
func (s *stubNotifications) MarkRead(ctx context.Context, userID, messageID int64) error {
	return s.markRead(ctx, userID, messageID)
}
func (s *stubNotifications) Trash(ctx context.Context, userID, messageID int64) error {
	return s.trash(ctx, userID, messageID)
}

type testEnv struct {
	sessions      *stubSessions
	requests      *stubRequests
	enrollments   *stubEnrollments
	notifications *stubNotifications
	server        *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		sessions:      &stubSessions{},
		requests:      &stubRequests{},
		enrollments:   &stubEnrollments{},
		notifications: &stubNotifications{},
	}
	handler := api.NewHandler(env.sessions, env.requests, env.enrollments, env.notifications, zap.NewNop())
	env.server = api.NewServer(handler)
	return env
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func (env *testEnv) do(t *testing.T, method, path, body string, userID, role string) (int, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	var resp envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid envelope: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, resp
}
