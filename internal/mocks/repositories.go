package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/data-analyzer-api/internal/mirror"
	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/repository"
)

var errMockSink = errors.New("mock sink write failed")

// MockUserRepository is an in-memory implementation of UserRepository
type MockUserRepository struct {
	mu     sync.Mutex
	nextID int64
	Users  map[string]*models.User

	// PasswordUpdates records UpdatePassword calls for assertions
	PasswordUpdates []int64
}

// Verify interface compliance
var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		nextID: 1,
		Users:  make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID
	m.nextID++
	copied := *user
	m.Users[user.Username] = &copied
	return nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[username]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Users[username]
	return ok, nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.ID == id {
			user.Password = password
			m.PasswordUpdates = append(m.PasswordUpdates, id)
			return nil
		}
	}
	return nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

// MockFeedbackRepository is an in-memory implementation of FeedbackRepository
type MockFeedbackRepository struct {
	mu     sync.Mutex
	nextID int64
	Rows   map[int64]*models.Feedback
}

// Verify interface compliance
var _ repository.FeedbackRepository = (*MockFeedbackRepository)(nil)

func NewMockFeedbackRepository() *MockFeedbackRepository {
	return &MockFeedbackRepository{
		nextID: 1,
		Rows:   make(map[int64]*models.Feedback),
	}
}

func (m *MockFeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb.ID = m.nextID
	m.nextID++
	copied := *fb
	m.Rows[fb.ID] = &copied
	return nil
}

func (m *MockFeedbackRepository) ListRecent(ctx context.Context, limit int) ([]*models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.Rows))
	for id := range m.Rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var out []*models.Feedback
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		copied := *m.Rows[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MockFeedbackRepository) Delete(ctx context.Context, ids []int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := m.Rows[id]; ok {
			delete(m.Rows, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MockFeedbackRepository) Exists(ctx context.Context, username, feedback, feedbackAt string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, fb := range m.Rows {
		if fb.Username == username && fb.Feedback == feedback && fb.FeedbackAt == feedbackAt {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockFeedbackRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Rows), nil
}

// MockSink is an in-memory mirror sink recording every event
type MockSink struct {
	mu            sync.Mutex
	CreatedUsers  [][3]string
	Logins        []string
	FeedbackRows  [][3]string
	FailUserWrite bool
}

// Verify interface compliance
var _ mirror.Sink = (*MockSink)(nil)

func NewMockSink() *MockSink {
	return &MockSink{}
}

func (m *MockSink) UserCreated(username, createdAt, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUserWrite {
		return errMockSink
	}
	m.CreatedUsers = append(m.CreatedUsers, [3]string{username, createdAt, passwordHash})
	return nil
}

func (m *MockSink) LoginEvent(username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logins = append(m.Logins, username)
	return nil
}

func (m *MockSink) FeedbackSaved(username, feedback, feedbackAt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedbackRows = append(m.FeedbackRows, [3]string{username, feedback, feedbackAt})
	return nil
}
