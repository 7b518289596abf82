package account

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/teamcook/account-api/config"
	"github.com/teamcook/account-api/internal/api/auth"
	"github.com/teamcook/account-api/internal/types"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateAccount(ctx context.Context, account *types.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockRepository) GetAccountByID(ctx context.Context, id string) (*types.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *MockRepository) DeleteAccount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testHasher() auth.PasswordHasher {
	return auth.NewArgon2Hasher(auth.Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SecretKey: "test-signing-secret",
		AdminCode: "1234",
		TokenTTL:  24 * time.Hour,
		Issuer:    "account-api-test",
	}
}

func newTestService(repo Repository) (*ServiceImpl, *auth.JWTTokenService) {
	tokens := auth.NewTokenService(testAuthConfig())
	return NewService(repo, testHasher(), tokens, testAuthConfig(), slog.Default()), tokens
}

func TestSignup(t *testing.T) {
	t.Run("InvalidEmailCreatesNoRecord", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service, _ := newTestService(mockRepo)

		role, err := service.Signup(context.Background(), "not-an-email", "p1", "Ann", "")
		assert.Empty(t, role)
		assert.ErrorIs(t, err, types.ErrInvalidEmail)
		mockRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	})

	t.Run("UserRoleByDefault", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service, _ := newTestService(mockRepo)

		var created *types.Account
		mockRepo.On("CreateAccount", mock.Anything, mock.AnythingOfType("*types.Account")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*types.Account) }).
			Return(nil).Once()

		role, err := service.Signup(context.Background(), "a@b.com", "p1", "Ann", "")
		require.NoError(t, err)
		assert.Equal(t, types.RoleUser, role)

		require.NotNil(t, created)
		assert.Equal(t, "a@b.com", created.ID)
		assert.Equal(t, "Ann", created.Name)
		assert.Equal(t, types.RoleUser, created.Role)
		// Stored credential is never the plaintext.
		assert.NotEqual(t, "p1", created.PasswordHash)
		ok, err := testHasher().Verify("p1", created.PasswordHash)
		require.NoError(t, err)
		assert.True(t, ok)
		mockRepo.AssertExpectations(t)
	})

	t.Run("AdminRoleWithCorrectSecret", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service, _ := newTestService(mockRepo)

		mockRepo.On("CreateAccount", mock.Anything, mock.AnythingOfType("*types.Account")).Return(nil).Once()

		role, err := service.Signup(context.Background(), "boss@b.com", "p1", "Boss", "1234")
		require.NoError(t, err)
		assert.Equal(t, types.RoleAdmin, role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UserRoleWithWrongSecret", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service, _ := newTestService(mockRepo)

		mockRepo.On("CreateAccount", mock.Anything, mock.AnythingOfType("*types.Account")).Return(nil).Once()

		role, err := service.Signup(context.Background(), "a@b.com", "p1", "Ann", "4321")
		require.NoError(t, err)
		assert.Equal(t, types.RoleUser, role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DuplicateIDPropagatesConflict", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service, _ := newTestService(mockRepo)

		mockRepo.On("CreateAccount", mock.Anything, mock.AnythingOfType("*types.Account")).
			Return(types.ErrConflict).Once()

		_, err := service.Signup(context.Background(), "a@b.com", "p1", "Ann", "")
		assert.ErrorIs(t, err, types.ErrConflict)
		mockRepo.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	hasher := testHasher()
	storedHash, err := hasher.Hash("p1")
	if err != nil {
		t.Fatal(err)
	}
	stored := &types.Account{ID: "u@x.com", Name: "Ann", PasswordHash: storedHash, Role: types.RoleUser}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service, tokens := newTestService(mockRepo)

		mockRepo.On("GetAccountByID", mock.Anything, "u@x.com").Return(stored, nil).Once()

		token, role, err := service.Login(context.Background(), "u@x.com", "p1")
		require.NoError(t, err)
		assert.Equal(t, types.RoleUser, role)

		claims, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "u@x.com", claims.Subject)
		assert.Equal(t, types.RoleUser, claims.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service, _ := newTestService(mockRepo)

		mockRepo.On("GetAccountByID", mock.Anything, "u@x.com").Return(stored, nil).Once()

		token, _, err := service.Login(context.Background(), "u@x.com", "wrong")
		assert.Empty(t, token)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownIDGetsIdenticalError", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service, _ := newTestService(mockRepo)

		mockRepo.On("GetAccountByID", mock.Anything, "nobody@x.com").Return(nil, types.ErrNotFound).Once()

		token, _, err := service.Login(context.Background(), "nobody@x.com", "p1")
		assert.Empty(t, token)
		// Same sentinel as a wrong password: no account enumeration.
		assert.ErrorIs(t, err, types.ErrUnauthorized)
		mockRepo.AssertExpectations(t)
	})
}

func TestReadSelf(t *testing.T) {
	service, _ := newTestService(new(MockRepository))

	account := &types.Account{ID: "u@x.com", Name: "Ann", PasswordHash: "secret-hash", Role: types.RoleAdmin}
	profile := service.ReadSelf(account)

	assert.Equal(t, ProfileResponse{ID: "u@x.com", Name: "Ann", Role: types.RoleAdmin}, profile)
}

func TestDeleteSelf(t *testing.T) {
	hasher := testHasher()
	storedHash, err := hasher.Hash("p1")
	if err != nil {
		t.Fatal(err)
	}
	stored := &types.Account{ID: "u@x.com", Name: "Ann", PasswordHash: storedHash, Role: types.RoleUser}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service, _ := newTestService(mockRepo)

		mockRepo.On("DeleteAccount", mock.Anything, "u@x.com").Return(nil).Once()

		message, err := service.DeleteSelf(context.Background(), stored, "p1")
		require.NoError(t, err)
		assert.Contains(t, message, "Ann")
		mockRepo.AssertExpectations(t)
	})

	t.Run("WrongPasswordLeavesAccountUntouched", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service, _ := newTestService(mockRepo)

		message, err := service.DeleteSelf(context.Background(), stored, "wrong")
		assert.Empty(t, message)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
		mockRepo.AssertNotCalled(t, "DeleteAccount", mock.Anything, mock.Anything)
	})
}
