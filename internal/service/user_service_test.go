package service

import (
	"context"
	"errors"
	"testing"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Name == "Alice" && u.Email == "alice@example.com"
		})).Return(nil).Once()

		user, err := NewUserService(repo, nopLogger()).CreateUser(ctx, &models.User{Name: " Alice ", Email: "alice@example.com "})
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
		repo.AssertExpectations(t)
	})

	t.Run("Invalid", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewUserService(repo, nopLogger())
		for _, u := range []*models.User{
			{Name: "", Email: "a@b.c"},
			{Name: "A", Email: ""},
			{Name: "A", Email: "no-at-sign"},
			{Name: "A", Email: "@example.com"},
			{Name: "A", Email: "a b@example.com"},
		} {
			_, err := s.CreateUser(ctx, u)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument, u.Email)
		}
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("CreateUser", ctx, mock.Anything).Return(database.ErrDuplicateEmail).Once()

		_, err := NewUserService(repo, nopLogger()).CreateUser(ctx, &models.User{Name: "A", Email: "a@b.c"})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("UpdateNotFound", func(t *testing.T) {
		repo := new(mockRepo)
		name := "Bob"
		repo.On("UpdateUser", ctx, int64(5), mock.Anything).Return(nil, database.ErrNotFound).Once()

		_, err := NewUserService(repo, nopLogger()).UpdateUser(ctx, 5, models.UserPatch{Name: &name})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UpdateDuplicate", func(t *testing.T) {
		repo := new(mockRepo)
		email := "taken@example.com"
		repo.On("UpdateUser", ctx, int64(5), mock.Anything).Return(nil, database.ErrDuplicateEmail).Once()

		_, err := NewUserService(repo, nopLogger()).UpdateUser(ctx, 5, models.UserPatch{Email: &email})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("UpdateBlankName", func(t *testing.T) {
		repo := new(mockRepo)
		blank := "   "
		_, err := NewUserService(repo, nopLogger()).UpdateUser(ctx, 5, models.UserPatch{Name: &blank})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("DeleteReferenced", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("DeleteUser", ctx, int64(5)).Return(database.ErrReferenced).Once()

		err := NewUserService(repo, nopLogger()).DeleteUser(ctx, 5)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("DeleteNotFound", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("DeleteUser", ctx, int64(5)).Return(database.ErrNotFound).Once()

		err := NewUserService(repo, nopLogger()).DeleteUser(ctx, 5)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("GetUsersError", func(t *testing.T) {
		repo := new(mockRepo)
		boom := errors.New("boom")
		repo.On("GetUsers", ctx).Return(nil, boom).Once()

		_, err := NewUserService(repo, nopLogger()).GetUsers(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestUserService_SQLite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := NewUserService(db, nopLogger())

	alice, err := s.CreateUser(ctx, &models.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, &models.User{Name: "Alice 2", Email: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	email := "alice@shareit.dev"
	updated, err := s.UpdateUser(ctx, alice.ID, models.UserPatch{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, "Alice", updated.Name)

	require.NoError(t, s.DeleteUser(ctx, alice.ID))
	_, err = s.GetUser(ctx, alice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
