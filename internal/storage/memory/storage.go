package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/storage"
)

// Storage is an in-memory implementation of storage.Storage used by tests
// and local development. The single mutex gives it the same
// exactly-one-winner rotation semantics as the Postgres conditional update.
type Storage struct {
	mu sync.Mutex

	nextUserID    int64
	nextSessionID int64
	nextCourseID  int64
	nextEventID   int64
	nextAssignID  int64

	users       map[int64]models.User
	sessions    map[string]models.RefreshSession
	courses     []models.Course
	events      []models.Event
	assignments []models.Assignment
}

func NewStorage() *Storage {
	return &Storage{
		users:    make(map[int64]models.User),
		sessions: make(map[string]models.RefreshSession),
	}
}

func (m *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, storage.ErrEmailExists
		}
	}

	m.nextUserID++
	user.ID = m.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	m.users[user.ID] = user
	return &user, nil
}

func (m *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getUserByIDLocked(id)
}

func (m *Storage) getUserByIDLocked(id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &u, nil
}

func (m *Storage) ListUsers(ctx context.Context, query string) ([]models.PublicUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	users := []models.PublicUser{}
	for id := m.nextUserID; id >= 1; id-- {
		u, ok := m.users[id]
		if !ok {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(u.FullName), query) &&
			!strings.Contains(strings.ToLower(u.Email), query) {
			continue
		}
		users = append(users, u.Public())
	}
	return users, nil
}

func (m *Storage) UpdateUser(ctx context.Context, id int64, upd models.UpdateUserRequest) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		for otherID, other := range m.users {
			if otherID != id && strings.EqualFold(other.Email, email) {
				return nil, storage.ErrEmailExists
			}
		}
		u.Email = email
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	m.users[id] = u
	return &u, nil
}

func (m *Storage) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	m.users[id] = u
	return nil
}

func (m *Storage) CreateSession(ctx context.Context, session models.RefreshSession) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createSessionLocked(session), nil
}

func (m *Storage) createSessionLocked(session models.RefreshSession) int64 {
	m.nextSessionID++
	session.ID = m.nextSessionID
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	m.sessions[session.TokenHash] = session
	return session.ID
}

func (m *Storage) GetActiveSessionByHash(ctx context.Context, tokenHash string) (*models.RefreshSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[tokenHash]
	if !ok || s.RevokedAt != nil {
		return nil, storage.ErrSessionNotFound
	}
	return &s, nil
}

func (m *Storage) RevokeSession(ctx context.Context, tokenHash string, replacedByHash *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revokeSessionLocked(tokenHash, replacedByHash)
}

func (m *Storage) revokeSessionLocked(tokenHash string, replacedByHash *string) error {
	s, ok := m.sessions[tokenHash]
	if !ok || s.RevokedAt != nil {
		return storage.ErrSessionNotFound
	}
	now := time.Now().UTC()
	s.RevokedAt = &now
	s.ReplacedByTokenHash = replacedByHash
	m.sessions[tokenHash] = s
	return nil
}

func (m *Storage) RevokeAllUserSessions(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for hash, s := range m.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			m.sessions[hash] = s
		}
	}
	return nil
}

func (m *Storage) RotateSessionTx(ctx context.Context, oldHash string, newSession models.RefreshSession) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.revokeSessionLocked(oldHash, &newSession.TokenHash); err != nil {
		return nil, err
	}
	m.createSessionLocked(newSession)
	return m.getUserByIDLocked(newSession.UserID)
}

func (m *Storage) DeleteUserTx(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return storage.ErrUserNotFound
	}
	now := time.Now().UTC()
	for hash, s := range m.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			m.sessions[hash] = s
		}
	}
	delete(m.users, userID)
	return nil
}

func (m *Storage) CreateCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextCourseID++
	course.ID = m.nextCourseID
	m.courses = append(m.courses, course)
	return &course, nil
}

func (m *Storage) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.courses {
		if c.ID == id {
			course := c
			return &course, nil
		}
	}
	return nil, storage.ErrCourseNotFound
}

func (m *Storage) ListCourses(ctx context.Context) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	courses := []models.Course{}
	for i := len(m.courses) - 1; i >= 0; i-- {
		courses = append(courses, m.courses[i])
	}
	return courses, nil
}

func (m *Storage) CreateEvent(ctx context.Context, event models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEventID++
	event.ID = m.nextEventID
	m.events = append(m.events, event)
	return &event, nil
}

func (m *Storage) ListEvents(ctx context.Context, courseID *int64) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := []models.Event{}
	for _, e := range m.events {
		if courseID != nil && (e.CourseID == nil || *e.CourseID != *courseID) {
			continue
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

func (m *Storage) CreateAssignment(ctx context.Context, assignment models.Assignment) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextAssignID++
	assignment.ID = m.nextAssignID
	m.assignments = append(m.assignments, assignment)
	return &assignment, nil
}

func (m *Storage) GetAssignmentByID(ctx context.Context, id int64) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.assignments {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, storage.ErrAssignmentNotFound
}

func (m *Storage) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Assignment{}, m.assignments...), nil
}

func (m *Storage) ListAssignmentsByCourse(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	assignments := []models.Assignment{}
	for _, a := range m.assignments {
		if a.CourseID == courseID {
			assignments = append(assignments, a)
		}
	}
	return assignments, nil
}
