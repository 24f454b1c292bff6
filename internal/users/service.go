package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Register creates a new account. Duplicate username or email is rejected
// before the insert so the caller gets a specific message; the database
// unique constraints remain the final arbiter.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, httpx.Conflictf("username already registered")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, httpx.Conflictf("email already registered")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, User{
		Email:        req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, httpx.Conflictf("username or email already registered")
		}
		return nil, err
	}
	return user, nil
}

// List returns users with pagination. Admin only; the handler enforces that.
func (s *Service) List(ctx context.Context, limit, offset int) ([]User, error) {
	return s.repo.List(ctx, limit, offset)
}

// Get fetches a user by id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, httpx.NotFoundf("user not found")
		}
		return nil, err
	}
	return user, nil
}

// Update replaces the identified user's profile fields. A changed username or
// email must not collide with another account.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != current.Username {
		if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
			return nil, httpx.Conflictf("username already taken")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	if req.Email != current.Email {
		if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
			return nil, httpx.Conflictf("email already registered")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	current.Email = req.Email
	current.Username = req.Username
	current.FullName = req.FullName
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		current.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, *current); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, httpx.Conflictf("username or email already registered")
		}
		return nil, err
	}
	return current, nil
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return httpx.NotFoundf("user not found")
		}
		return err
	}
	return nil
}

// ToggleAdmin flips the admin flag and returns the updated record.
func (s *Service) ToggleAdmin(ctx context.Context, id int64) (*User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsAdmin = !user.IsAdmin
	if err := s.repo.SetAdmin(ctx, id, user.IsAdmin); err != nil {
		return nil, err
	}
	return user, nil
}
