// Package memory implements the repository contracts on top of process memory.
// Nothing here survives a restart.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/maxviazov/user-directory-service/internal/model"
	"github.com/maxviazov/user-directory-service/internal/repository"
)

// maxIDAttempts bounds regeneration when the id source collides with a live or retired id.
const maxIDAttempts = 8

// IDFunc produces candidate record ids.
type IDFunc func() string

// Option customizes a UserStore.
type Option func(*UserStore)

// WithIDFunc overrides the uuid-based id source. Mostly useful in tests.
func WithIDFunc(fn IDFunc) Option {
	return func(s *UserStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// UserStore keeps users in insertion order behind a RWMutex.
// Writers are serialized; readers get a copy taken under the read lock.
type UserStore struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]model.User
	retired map[string]struct{}
	newID   IDFunc
}

// NewUserStore builds an empty store using uuid v4 ids.
func NewUserStore(opts ...Option) *UserStore {
	s := &UserStore{
		byID:    make(map[string]model.User),
		retired: make(map[string]struct{}),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *UserStore) Create(ctx context.Context, u model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.freshIDLocked()
	if err != nil {
		return model.User{}, err
	}
	u.ID = id
	s.byID[id] = u
	s.order = append(s.order, id)
	return u, nil
}

// freshIDLocked returns an id that is neither live nor retired. Caller holds mu.
func (s *UserStore) freshIDLocked() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, live := s.byID[id]; live {
			continue
		}
		if _, dead := s.retired[id]; dead {
			continue
		}
		return id, nil
	}
	return "", errors.New("memory store: could not generate a unique id")
}

func (s *UserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *UserStore) Update(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	s.byID[id] = u
	return u, nil
}

func (s *UserStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false, nil
	}
	delete(s.byID, id)
	s.retired[id] = struct{}{}
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *UserStore) All(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

// Len returns the number of live records.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

var _ repository.UserRepository = (*UserStore)(nil)
