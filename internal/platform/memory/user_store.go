package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/service/auth"
	"github.com/phrazzld/taskdeck/internal/store"
)

// MemoryUserStore implements store.UserStore over a mutex-guarded map,
// keyed by ID with a secondary index on normalized email.
type MemoryUserStore struct {
	mu      sync.RWMutex
	hasher  auth.PasswordHasher
	users   map[uuid.UUID]*domain.User
	byEmail map[string]uuid.UUID
}

// NewMemoryUserStore creates an empty in-memory user store using the given
// password hasher for new credentials.
func NewMemoryUserStore(hasher auth.PasswordHasher) *MemoryUserStore {
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	return &MemoryUserStore{
		hasher:  hasher,
		users:   make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

// Ensure MemoryUserStore implements store.UserStore interface
var _ store.UserStore = (*MemoryUserStore)(nil)

// Create implements store.UserStore.Create
func (s *MemoryUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	user.Password = ""

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}

	copied := *user
	s.users[user.ID] = &copied
	s.byEmail[user.Email] = user.ID
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *MemoryUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}
