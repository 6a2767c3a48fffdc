package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tutorhub/tutorhub/internal/model"
)

// memDB is an in-memory DB for exercising the lifecycle services without
// Postgres. It mirrors the schema's guarantees: unique (session, student)
// enrollment pairs, at most one active request per pair, and rollback of
// everything written inside a failed InTx.
type memDB struct {
	users          map[int64]*model.User
	courses        map[int64]*model.Course
	sessions       map[int64]*model.Session
	sessionCourses map[int64][]int64
	enrollments    []*model.Enrollment
	requests       []*model.JoinRequest
	messages       []*model.Message
	boxes          []*memBox
	nextID         int64

	// When set, MessageStore.Create fails and the surrounding
	// transaction rolls back.
	failSend bool
}

type memBox struct {
	MessageID int64
	UserID    int64
	Folder    model.Folder
	IsRead    bool
}

func newMemDB() *memDB {
	return &memDB{
		users:          make(map[int64]*model.User),
		courses:        make(map[int64]*model.Course),
		sessions:       make(map[int64]*model.Session),
		sessionCourses: make(map[int64][]int64),
		nextID:         1,
	}
}

func (db *memDB) id() int64 {
	id := db.nextID
	db.nextID++
	return id
}

func (db *memDB) addUser(name string, role model.Role) *model.User {
	u := &model.User{ID: db.id(), FullName: name, Role: role, CreatedAt: time.Now()}
	db.users[u.ID] = u
	return u
}

func (db *memDB) addCourse(tutorID int64, name string) *model.Course {
	c := &model.Course{ID: db.id(), TutorID: tutorID, Name: name, CreatedAt: time.Now()}
	db.courses[c.ID] = c
	return c
}

func (db *memDB) addSession(tutorID int64, kind model.SessionKind, capacity int) *model.Session {
	s := &model.Session{
		ID:        db.id(),
		TutorID:   tutorID,
		Title:     "Working through problem sets",
		Kind:      kind,
		Status:    model.SessionStatusScheduled,
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(26 * time.Hour),
		Capacity:  capacity,
		Location:  "Library, room 2B",
		CreatedAt: time.Now(),
	}
	db.sessions[s.ID] = s
	return s
}

// inbox returns the user's inbox messages, oldest first, for assertions.
func (db *memDB) inbox(userID int64) []*model.Message {
	var out []*model.Message
	for _, box := range db.boxes {
		if box.UserID != userID || box.Folder != model.FolderInbox {
			continue
		}
		for _, m := range db.messages {
			if m.ID == box.MessageID {
				out = append(out, m)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (db *memDB) sessionEnrollments(sessionID int64) []*model.Enrollment {
	var out []*model.Enrollment
	for _, e := range db.enrollments {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out
}

func (db *memDB) sessionRequests(sessionID int64) []*model.JoinRequest {
	var out []*model.JoinRequest
	for _, r := range db.requests {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out
}

func (db *memDB) snapshot() *memDB {
	cp := newMemDB()
	cp.nextID = db.nextID
	cp.failSend = db.failSend
	for id, u := range db.users {
		v := *u
		cp.users[id] = &v
	}
	for id, c := range db.courses {
		v := *c
		cp.courses[id] = &v
	}
	for id, s := range db.sessions {
		v := *s
		cp.sessions[id] = &v
	}
	for id, ids := range db.sessionCourses {
		cp.sessionCourses[id] = append([]int64(nil), ids...)
	}
	for _, e := range db.enrollments {
		v := *e
		cp.enrollments = append(cp.enrollments, &v)
	}
	for _, r := range db.requests {
		v := *r
		cp.requests = append(cp.requests, &v)
	}
	for _, m := range db.messages {
		v := *m
		cp.messages = append(cp.messages, &v)
	}
	for _, b := range db.boxes {
		v := *b
		cp.boxes = append(cp.boxes, &v)
	}
	return cp
}

func (db *memDB) restore(from *memDB) {
	db.users = from.users
	db.courses = from.courses
	db.sessions = from.sessions
	db.sessionCourses = from.sessionCourses
	db.enrollments = from.enrollments
	db.requests = from.requests
	db.messages = from.messages
	db.boxes = from.boxes
	db.nextID = from.nextID
}

func (db *memDB) Stores() Stores {
	return Stores{
		Sessions:    &memSessionStore{db},
		Courses:     &memCourseStore{db},
		Enrollments: &memEnrollmentStore{db},
		Requests:    &memRequestStore{db},
		Users:       &memUserStore{db},
		Messages:    &memMessageStore{db},
	}
}

func (db *memDB) InTx(ctx context.Context, fn func(st Stores) error) error {
	before := db.snapshot()
	if err := fn(db.Stores()); err != nil {
		db.restore(before)
		return err
	}
	return nil
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

type memSessionStore struct{ db *memDB }

func (s *memSessionStore) Create(ctx context.Context, session *model.Session) error {
	session.ID = s.db.id()
	session.CreatedAt = time.Now()
	stored := *session
	s.db.sessions[session.ID] = &stored
	return nil
}

func (s *memSessionStore) AddCourses(ctx context.Context, sessionID int64, courseIDs []int64) error {
	s.db.sessionCourses[sessionID] = append(s.db.sessionCourses[sessionID], courseIDs...)
	return nil
}

func (s *memSessionStore) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	stored, ok := s.db.sessions[id]
	if !ok {
		return nil, nil
	}
	session := *stored
	session.EnrolledCount = len(s.db.sessionEnrollments(id))
	session.CourseIDs = append([]int64(nil), s.db.sessionCourses[id]...)
	return &session, nil
}

func (s *memSessionStore) GetByIDForUpdate(ctx context.Context, id int64) (*model.Session, error) {
	return s.GetByID(ctx, id)
}

func (s *memSessionStore) GetByTutorID(ctx context.Context, tutorID int64) ([]*model.Session, error) {
	var out []*model.Session
	for id, stored := range s.db.sessions {
		if stored.TutorID != tutorID {
			continue
		}
		session, _ := s.GetByID(ctx, id)
		out = append(out, session)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *memSessionStore) DeleteCourses(ctx context.Context, sessionID int64) error {
	delete(s.db.sessionCourses, sessionID)
	return nil
}

func (s *memSessionStore) Delete(ctx context.Context, id int64) error {
	delete(s.db.sessions, id)
	return nil
}

type memCourseStore struct{ db *memDB }

func (s *memCourseStore) CountOwned(ctx context.Context, tutorID int64, courseIDs []int64) (int, error) {
	owned := 0
	for _, id := range courseIDs {
		if course, ok := s.db.courses[id]; ok && course.TutorID == tutorID {
			owned++
		}
	}
	return owned, nil
}

type memEnrollmentStore struct{ db *memDB }

func (s *memEnrollmentStore) Create(ctx context.Context, enrollment *model.Enrollment) error {
	for _, e := range s.db.enrollments {
		if e.SessionID == enrollment.SessionID && e.StudentID == enrollment.StudentID {
			return uniqueViolation()
		}
	}
	enrollment.EnrolledAt = time.Now()
	stored := *enrollment
	s.db.enrollments = append(s.db.enrollments, &stored)
	return nil
}

func (s *memEnrollmentStore) CountBySession(ctx context.Context, sessionID int64) (int, error) {
	return len(s.db.sessionEnrollments(sessionID)), nil
}

func (s *memEnrollmentStore) Exists(ctx context.Context, sessionID, studentID int64) (bool, error) {
	for _, e := range s.db.enrollments {
		if e.SessionID == sessionID && e.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memEnrollmentStore) GetBySession(ctx context.Context, sessionID int64) ([]*model.Enrollment, error) {
	var out []*model.Enrollment
	for _, stored := range s.db.enrollments {
		if stored.SessionID != sessionID {
			continue
		}
		e := *stored
		if u, ok := s.db.users[e.StudentID]; ok {
			student := *u
			e.Student = &student
		}
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrolledAt.Before(out[j].EnrolledAt) })
	return out, nil
}

func (s *memEnrollmentStore) Delete(ctx context.Context, sessionID, studentID int64) (int64, error) {
	kept := s.db.enrollments[:0]
	var deleted int64
	for _, e := range s.db.enrollments {
		if e.SessionID == sessionID && e.StudentID == studentID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.db.enrollments = kept
	return deleted, nil
}

func (s *memEnrollmentStore) DeleteBySession(ctx context.Context, sessionID int64) (int64, error) {
	kept := s.db.enrollments[:0]
	var deleted int64
	for _, e := range s.db.enrollments {
		if e.SessionID == sessionID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.db.enrollments = kept
	return deleted, nil
}

type memRequestStore struct{ db *memDB }

func (s *memRequestStore) Create(ctx context.Context, request *model.JoinRequest) error {
	for _, r := range s.db.requests {
		if r.SessionID == request.SessionID && r.StudentID == request.StudentID && r.IsActive() {
			return uniqueViolation()
		}
	}
	request.ID = s.db.id()
	request.CreatedAt = time.Now()
	stored := *request
	s.db.requests = append(s.db.requests, &stored)
	return nil
}

func (s *memRequestStore) GetByID(ctx context.Context, id int64) (*model.JoinRequest, error) {
	for _, stored := range s.db.requests {
		if stored.ID == id {
			r := *stored
			return &r, nil
		}
	}
	return nil, nil
}

func (s *memRequestStore) GetByPair(ctx context.Context, sessionID, studentID int64) (*model.JoinRequest, error) {
	var latest *model.JoinRequest
	for _, stored := range s.db.requests {
		if stored.SessionID != sessionID || stored.StudentID != studentID {
			continue
		}
		if latest == nil || stored.ID > latest.ID {
			latest = stored
		}
	}
	if latest == nil {
		return nil, nil
	}
	r := *latest
	return &r, nil
}

func (s *memRequestStore) GetPendingBySession(ctx context.Context, sessionID int64) ([]*model.JoinRequest, error) {
	var out []*model.JoinRequest
	for _, stored := range s.db.requests {
		if stored.SessionID != sessionID || !stored.IsPending() {
			continue
		}
		r := *stored
		if u, ok := s.db.users[r.StudentID]; ok {
			student := *u
			r.Student = &student
		}
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memRequestStore) UpdateStatus(ctx context.Context, id int64, status model.RequestStatus) error {
	for _, r := range s.db.requests {
		if r.ID == id {
			now := time.Now()
			r.Status = status
			r.RespondedAt = &now
			return nil
		}
	}
	return errors.New("request not found")
}

func (s *memRequestStore) SetMessageRef(ctx context.Context, id int64, ref string) error {
	for _, r := range s.db.requests {
		if r.ID == id {
			r.MessageRef = &ref
			return nil
		}
	}
	return errors.New("request not found")
}

func (s *memRequestStore) DeleteDenied(ctx context.Context, sessionID, studentID int64) error {
	kept := s.db.requests[:0]
	for _, r := range s.db.requests {
		if r.SessionID == sessionID && r.StudentID == studentID && r.Status == model.RequestStatusDenied {
			continue
		}
		kept = append(kept, r)
	}
	s.db.requests = kept
	return nil
}

func (s *memRequestStore) DowngradeAccepted(ctx context.Context, sessionID, studentID int64) (int64, error) {
	var affected int64
	for _, r := range s.db.requests {
		if r.SessionID == sessionID && r.StudentID == studentID && r.Status == model.RequestStatusAccepted {
			now := time.Now()
			r.Status = model.RequestStatusDenied
			r.RespondedAt = &now
			affected++
		}
	}
	return affected, nil
}

func (s *memRequestStore) DeleteBySession(ctx context.Context, sessionID int64) (int64, error) {
	kept := s.db.requests[:0]
	var deleted int64
	for _, r := range s.db.requests {
		if r.SessionID == sessionID {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.db.requests = kept
	return deleted, nil
}

type memUserStore struct{ db *memDB }

func (s *memUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	stored, ok := s.db.users[id]
	if !ok {
		return nil, nil
	}
	u := *stored
	return &u, nil
}

type memMessageStore struct{ db *memDB }

func (s *memMessageStore) Create(ctx context.Context, message *model.Message) error {
	if s.db.failSend {
		return errors.New("message store unavailable")
	}
	message.ID = s.db.id()
	message.PublicID = uuid.NewString()
	message.CreatedAt = time.Now()
	stored := *message
	s.db.messages = append(s.db.messages, &stored)
	s.db.boxes = append(s.db.boxes,
		&memBox{MessageID: message.ID, UserID: message.ReceiverID, Folder: model.FolderInbox},
		&memBox{MessageID: message.ID, UserID: message.SenderID, Folder: model.FolderSent, IsRead: true},
	)
	return nil
}

func (s *memMessageStore) GetFolder(ctx context.Context, userID int64, folder model.Folder) ([]*model.Message, error) {
	var out []*model.Message
	for _, box := range s.db.boxes {
		if box.UserID != userID || box.Folder != folder {
			continue
		}
		for _, stored := range s.db.messages {
			if stored.ID != box.MessageID {
				continue
			}
			m := *stored
			m.Folder = box.Folder
			m.IsRead = box.IsRead
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memMessageStore) SetRead(ctx context.Context, messageID, userID int64, read bool) (int64, error) {
	for _, box := range s.db.boxes {
		if box.MessageID == messageID && box.UserID == userID {
			box.IsRead = read
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memMessageStore) SetFolder(ctx context.Context, messageID, userID int64, folder model.Folder) (int64, error) {
	for _, box := range s.db.boxes {
		if box.MessageID == messageID && box.UserID == userID {
			box.Folder = folder
			return 1, nil
		}
	}
	return 0, nil
}
