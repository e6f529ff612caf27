package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Behnamfe76/user-auth-service/internal/domain"
	"github.com/Behnamfe76/user-auth-service/internal/repository"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func testUser(id string, role domain.UserRole) *domain.User {
	return &domain.User{ID: id, Name: "Test User", Email: id + "@example.com", Role: role}
}

func TestResolveReturnsStoredUser(t *testing.T) {
	store := &mockUserStore{}
	store.On("FindByID", mock.Anything, "u1").Return(testUser("u1", domain.UserRoleUser), nil).Once()

	user, err := NewIdentityResolver(store).Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	store.AssertExpectations(t)
}

func TestResolveMissingUser(t *testing.T) {
	store := &mockUserStore{}
	store.On("FindByID", mock.Anything, "gone").Return(nil, repository.ErrNotFound)

	_, err := NewIdentityResolver(store).Resolve(context.Background(), "gone")
	require.ErrorIs(t, err, ErrUserNoLongerExists)
}

func TestResolveNilRecordIsMissing(t *testing.T) {
	store := &mockUserStore{}
	store.On("FindByID", mock.Anything, "u1").Return(nil, nil)

	_, err := NewIdentityResolver(store).Resolve(context.Background(), "u1")
	require.ErrorIs(t, err, ErrUserNoLongerExists)
}

func TestResolveStoreFailure(t *testing.T) {
	cause := errors.New("connection refused")
	store := &mockUserStore{}
	store.On("FindByID", mock.Anything, "u1").Return(nil, cause)

	_, err := NewIdentityResolver(store).Resolve(context.Background(), "u1")
	require.ErrorIs(t, err, ErrServerError)
	assert.ErrorIs(t, err, cause)
}

func TestResolveAbandonsResultOfCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := &mockUserStore{}
	store.On("FindByID", mock.Anything, "u1").
		Run(func(mock.Arguments) { cancel() }).
		Return(testUser("u1", domain.UserRoleUser), nil)

	user, err := NewIdentityResolver(store).Resolve(ctx, "u1")
	require.ErrorIs(t, err, ErrServerError)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, user)
}

func TestResolveDoesNotCache(t *testing.T) {
	store := &mockUserStore{}
	store.On("FindByID", mock.Anything, "u1").Return(testUser("u1", domain.UserRoleUser), nil).Once()
	store.On("FindByID", mock.Anything, "u1").Return(nil, repository.ErrNotFound).Once()

	resolver := NewIdentityResolver(store)

	_, err := resolver.Resolve(context.Background(), "u1")
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), "u1")
	require.ErrorIs(t, err, ErrUserNoLongerExists)
	store.AssertNumberOfCalls(t, "FindByID", 2)
}
