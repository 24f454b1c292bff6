package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/optica-pos/optica-pos/internal/shared"
)

type memoryRepo struct {
	users map[int64]*User
}

func (m *memoryRepo) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) FindByID(_ context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func newTestService(t *testing.T, ttl time.Duration) (*Service, *miniredis.Miniredis, *memoryRepo) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &memoryRepo{users: map[int64]*User{
		1: {ID: 1, Email: "ana@optica.test", Username: "ana", FullName: "Ana R", PasswordHash: string(hash), IsActive: true},
		2: {ID: 2, Email: "off@optica.test", Username: "off", FullName: "Gone", PasswordHash: string(hash), IsActive: false},
	}}

	return NewService(repo, NewTokenStore(client, "test_token", ttl)), mr, repo
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestService(t, time.Minute)

	user, err := svc.Authenticate(context.Background(), "ana", "correct horse")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)

	_, err = svc.Authenticate(context.Background(), "ana", "wrong")
	require.True(t, errors.Is(err, shared.ErrInvalidCredentials))

	_, err = svc.Authenticate(context.Background(), "nobody", "correct horse")
	require.True(t, errors.Is(err, shared.ErrInvalidCredentials))

	_, err = svc.Authenticate(context.Background(), "off", "correct horse")
	require.True(t, errors.Is(err, shared.ErrInvalidCredentials))
}

func TestIssueAndResolveToken(t *testing.T) {
	svc, _, _ := newTestService(t, time.Minute)

	token, err := svc.IssueToken(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "ana", user.Username)

	_, err = svc.Resolve(context.Background(), "not-a-token")
	require.True(t, errors.Is(err, ErrTokenInvalid))

	_, err = svc.Resolve(context.Background(), "")
	require.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestResolveExpiredToken(t *testing.T) {
	svc, mr, _ := newTestService(t, time.Minute)

	token, err := svc.IssueToken(context.Background(), 1)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = svc.Resolve(context.Background(), token)
	require.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestResolveDeactivatedUser(t *testing.T) {
	svc, _, repo := newTestService(t, time.Minute)

	token, err := svc.IssueToken(context.Background(), 1)
	require.NoError(t, err)

	repo.users[1].IsActive = false

	_, err = svc.Resolve(context.Background(), token)
	require.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestRevokeToken(t *testing.T) {
	svc, _, _ := newTestService(t, time.Minute)

	token, err := svc.IssueToken(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, svc.tokens.Revoke(context.Background(), token))

	_, err = svc.Resolve(context.Background(), token)
	require.True(t, errors.Is(err, ErrTokenInvalid))
}
