package core

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"didacta-calendar/pkg/audit"
	"didacta-calendar/pkg/sessions"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) SaveEvent(ctx context.Context, event *Event) (*Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventRepository) GetEventById(ctx context.Context, id string) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventRepository) UpdateEvent(ctx context.Context, event *Event) (*Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventRepository) DeleteEvent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEventRepository) FindOverlapping(ctx context.Context, ownerId string, start time.Time, end time.Time) ([]Event, error) {
	args := m.Called(ctx, ownerId, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]Event), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetUserByRut(ctx context.Context, rut string) (*User, error) {
	args := m.Called(ctx, rut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetUserById(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*User), args.Error(1)
}

// memoryStore keeps sessions in a map; tokens are "token-<n>".
type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]sessions.Session
	issued   int
	err      error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: map[string]sessions.Session{}}
}

func (s *memoryStore) Create(_ context.Context, session sessions.Session) (*sessions.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	s.issued++
	session.Token = "token-" + strconv.Itoa(s.issued)
	s.sessions[session.Token] = session

	return &session, nil
}

func (s *memoryStore) Get(_ context.Context, token string) (*sessions.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	session, ok := s.sessions[token]
	if !ok {
		return nil, sessions.ErrSessionNotFound
	}

	return &session, nil
}

func (s *memoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	delete(s.sessions, token)

	return nil
}

// recordingSink collects audit entries and can be made to fail.
type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
	err     error
}

func (s *recordingSink) Log(_ context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)

	return s.err
}

func (s *recordingSink) Close(context.Context) error { return nil }

func (s *recordingSink) operations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ops := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		ops = append(ops, entry.Operation)
	}

	return ops
}

type fixedClock time.Time

func (c fixedClock) Today() time.Time {
	return time.Time(c)
}
