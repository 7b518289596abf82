package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/teamcook/account-api/config"
	"github.com/teamcook/account-api/internal/api/auth"
	"github.com/teamcook/account-api/internal/types"
)

// emailPattern: one or more of [A-Za-z0-9_.+-] before @, a domain label, a
// dot and a top-level segment.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

var _ Service = (*ServiceImpl)(nil)

// Service orchestrates signup, login, self-read and self-delete on top of
// the directory, the credential hasher and the token service.
type Service interface {
	Signup(ctx context.Context, id, password, name, secretKey string) (string, error)
	Login(ctx context.Context, id, password string) (string, string, error)
	ReadSelf(account *types.Account) ProfileResponse
	DeleteSelf(ctx context.Context, account *types.Account, password string) (string, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	repo      Repository
	hasher    auth.PasswordHasher
	tokens    auth.TokenService
	adminCode string
}

func NewService(repo Repository, hasher auth.PasswordHasher, tokens auth.TokenService, cfg config.AuthConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		adminCode: cfg.AdminCode,
	}
}

// Signup validates the id, assigns a role, hashes the password and inserts
// the record. Returns the assigned role. The admin role is granted iff
// secretKey matches the configured admin code; any other value silently
// falls back to a regular user.
func (s *ServiceImpl) Signup(ctx context.Context, id, password, name, secretKey string) (string, error) {
	if !emailPattern.MatchString(id) {
		return "", fmt.Errorf("signup %q: %w", id, types.ErrInvalidEmail)
	}

	role := types.RoleUser
	if secretKey != "" && secretKey == s.adminCode {
		role = types.RoleAdmin
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	account := &types.Account{
		ID:           id,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "Account created", slog.String("id", id), slog.String("role", role))
	return role, nil
}

// Login returns an access token and the stored role. A missing account and a
// wrong password collapse into the same types.ErrUnauthorized so the response
// never reveals whether the id exists.
func (s *ServiceImpl) Login(ctx context.Context, id, password string) (string, string, error) {
	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", "", types.ErrUnauthorized
		}
		return "", "", err
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil || !ok {
		if err != nil {
			s.logger.WarnContext(ctx, "Password verification failed", slog.String("id", id), slog.Any("error", err))
		}
		return "", "", types.ErrUnauthorized
	}

	token, err := s.tokens.Issue(account.ID, account.Role)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}
	return token, account.Role, nil
}

// ReadSelf projects the already-resolved identity. No storage access beyond
// what the resolver already did.
func (s *ServiceImpl) ReadSelf(account *types.Account) ProfileResponse {
	return ProfileResponse{
		ID:   account.ID,
		Name: account.Name,
		Role: account.Role,
	}
}

// DeleteSelf re-verifies the password against the stored hash — a fresh
// check, independent of the token that authenticated the request — then
// removes the record and returns a farewell containing the captured name.
// Outstanding tokens are not invalidated; they die at the resolver once the
// record is gone.
func (s *ServiceImpl) DeleteSelf(ctx context.Context, account *types.Account, password string) (string, error) {
	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil || !ok {
		return "", types.ErrUnauthorized
	}

	name := account.Name
	if err := s.repo.DeleteAccount(ctx, account.ID); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "Account deleted", slog.String("id", account.ID))
	return fmt.Sprintf("Account for %s has been permanently deleted.", name), nil
}
