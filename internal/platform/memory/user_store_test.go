package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/platform/memory"
	"github.com/phrazzld/taskdeck/internal/service/auth"
	"github.com/phrazzld/taskdeck/internal/store"
)

func newUserStore() *memory.MemoryUserStore {
	return memory.NewMemoryUserStore(auth.NewBcryptHasher(bcrypt.MinCost))
}

func newUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "Sup3r-secret")
	require.NoError(t, err)
	return user
}

func TestUserStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("hashes the password and clears the plaintext", func(t *testing.T) {
		t.Parallel()

		s := newUserStore()
		user := newUser(t, "person@example.com")

		require.NoError(t, s.Create(context.Background(), user))
		assert.Empty(t, user.Password)
		assert.NotEmpty(t, user.HashedPassword)

		stored, err := s.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.NoError(t, auth.NewBcryptVerifier().Compare(stored.HashedPassword, "Sup3r-secret"))
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		t.Parallel()

		s := newUserStore()
		require.NoError(t, s.Create(context.Background(), newUser(t, "person@example.com")))

		err := s.Create(context.Background(), newUser(t, "person@example.com"))
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid user rejected", func(t *testing.T) {
		t.Parallel()

		s := newUserStore()
		err := s.Create(context.Background(), &domain.User{ID: uuid.New(), Email: "person@example.com"})
		assert.ErrorIs(t, err, domain.ErrEmptyPassword)
	})
}

func TestUserStoreGet(t *testing.T) {
	t.Parallel()

	s := newUserStore()
	user := newUser(t, "person@example.com")
	require.NoError(t, s.Create(context.Background(), user))

	t.Run("by email", func(t *testing.T) {
		t.Parallel()

		found, err := s.GetByEmail(context.Background(), "person@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()

		_, err := s.GetByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
