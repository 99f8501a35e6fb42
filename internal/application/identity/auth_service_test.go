package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/revendo/backend/internal/domain/identity"
	"github.com/revendo/backend/internal/domain/shared"
	"github.com/revendo/backend/internal/infrastructure/auth"
	"github.com/revendo/backend/internal/infrastructure/config"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newTestAuthService(repo *mockUserRepo) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "revendo-test",
		MaxRefreshCount:        5,
	})
	return NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), AuthServiceConfig{
		MaxLoginAttempts: 3,
		LockDuration:     15 * time.Minute,
	}, zap.NewNop())
}

func TestRegister(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, shared.ErrNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	service := newTestAuthService(repo)
	resp, err := service.Register(context.Background(), RegisterRequest{
		Email:       "alice@example.com",
		Password:    "password1",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "Alice", resp.User.DisplayName)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	existing, err := identity.NewUser("alice@example.com", "password1")
	require.NoError(t, err)

	repo := new(mockUserRepo)
	repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(existing, nil)

	service := newTestAuthService(repo)
	_, err = service.Register(context.Background(), RegisterRequest{
		Email:    "alice@example.com",
		Password: "password1",
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	user, err := identity.NewUser("bob@example.com", "password1")
	require.NoError(t, err)

	repo := new(mockUserRepo)
	repo.On("FindByEmail", mock.Anything, "bob@example.com").Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	service := newTestAuthService(repo)
	resp, err := service.Login(context.Background(), LoginRequest{
		Email:    "bob@example.com",
		Password: "password1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLoginWrongPasswordLocksAccount(t *testing.T) {
	user, err := identity.NewUser("carol@example.com", "password1")
	require.NoError(t, err)

	repo := new(mockUserRepo)
	repo.On("FindByEmail", mock.Anything, "carol@example.com").Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	service := newTestAuthService(repo)
	for i := 0; i < 2; i++ {
		_, err = service.Login(context.Background(), LoginRequest{Email: "carol@example.com", Password: "wrong0000"})
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	}

	// third failure locks
	_, err = service.Login(context.Background(), LoginRequest{Email: "carol@example.com", Password: "wrong0000"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrInvalidCredentials)
	assert.True(t, user.IsLocked())

	// even the right password is rejected now
	_, err = service.Login(context.Background(), LoginRequest{Email: "carol@example.com", Password: "password1"})
	assert.Error(t, err)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, shared.ErrNotFound)

	service := newTestAuthService(repo)
	_, err := service.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "password1"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials, "unknown email is indistinguishable from a bad password")
}

func TestRefresh(t *testing.T) {
	user, err := identity.NewUser("dave@example.com", "password1")
	require.NoError(t, err)

	repo := new(mockUserRepo)
	repo.On("FindByEmail", mock.Anything, "dave@example.com").Return(user, nil)
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	service := newTestAuthService(repo)
	login, err := service.Login(context.Background(), LoginRequest{Email: "dave@example.com", Password: "password1"})
	require.NoError(t, err)

	refreshed, err := service.Refresh(context.Background(), RefreshRequest{RefreshToken: login.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Tokens.AccessToken)

	_, err = service.Refresh(context.Background(), RefreshRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestChangePasswordInvalidatesSessions(t *testing.T) {
	user, err := identity.NewUser("erin@example.com", "password1")
	require.NoError(t, err)

	repo := new(mockUserRepo)
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	service := newTestAuthService(repo)
	err = service.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		OldPassword: "password1",
		NewPassword: "password2",
	})
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("password2"))

	invalidated, err := service.blacklist.IsUserTokenInvalidated(context.Background(), user.ID.String(), time.Now().Add(-time.Second))
	require.NoError(t, err)
	assert.True(t, invalidated)
}
