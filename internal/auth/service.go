package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/optica-pos/optica-pos/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Authenticate validates username/password credentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken creates a bearer token for the user.
func (s *Service) IssueToken(ctx context.Context, userID int64) (string, error) {
	return s.tokens.Issue(ctx, userID)
}

// Resolve maps a bearer token to its user record, rejecting unknown tokens
// and deactivated accounts.
func (s *Service) Resolve(ctx context.Context, token string) (*User, error) {
	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, ErrTokenInvalid
	}
	return user, nil
}
