package auth

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpin/config"
	"marketpin/internal/domain/entity"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/repository"
)

type fakeUserRepo struct {
	saved   map[string]*entity.User
	saveErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{saved: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Save(_ context.Context, user *entity.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}

	copied := *user
	r.saved[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := r.saved[id]; ok {
		copied := *u

		return &copied, nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.saved {
		if u.Email == email {
			copied := *u

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func mintIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}

func newTestSession(t *testing.T, tokenPath string) *tokenSession {
	t.Helper()

	cfg := &config.Config{
		Session: &config.SessionConfig{TokenPath: tokenPath},
	}
	svc, err := NewTokenSession(cfg, newFakeUserRepo(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	return svc.(*tokenSession)
}

func TestParseIDToken(t *testing.T) {
	session := newTestSession(t, filepath.Join(t.TempDir(), "token"))

	token := mintIDToken(t, jwt.MapClaims{
		"user_id": "uid-1",
		"email":   "grower@example.com",
		"name":    "Market Grower",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	user, err := session.ParseIDToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.ID)
	assert.Equal(t, "grower@example.com", user.Email)
	assert.Equal(t, "Market Grower", user.DisplayName)
	assert.Equal(t, entity.RoleUser, user.Role)
}

func TestParseIDToken_SubFallback(t *testing.T) {
	session := newTestSession(t, filepath.Join(t.TempDir(), "token"))

	token := mintIDToken(t, jwt.MapClaims{
		"sub": "uid-2",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	user, err := session.ParseIDToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-2", user.ID)
}

func TestParseIDToken_Expired(t *testing.T) {
	session := newTestSession(t, filepath.Join(t.TempDir(), "token"))

	token := mintIDToken(t, jwt.MapClaims{
		"user_id": "uid-1",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})

	_, err := session.ParseIDToken(token)
	assert.ErrorIs(t, err, domainerrors.ErrSessionExpired)
}

func TestParseIDToken_Garbage(t *testing.T) {
	session := newTestSession(t, filepath.Join(t.TempDir(), "token"))

	_, err := session.ParseIDToken("not-a-token")
	assert.Error(t, err)

	_, err = session.ParseIDToken("")
	assert.Error(t, err)
}

func TestCurrentUser(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token")
	session := newTestSession(t, tokenPath)

	token := mintIDToken(t, jwt.MapClaims{
		"user_id": "uid-1",
		"email":   "grower@example.com",
		"name":    "Market Grower",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, os.WriteFile(tokenPath, []byte(token+"\n"), 0o600))

	user, err := session.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.ID)

	// The profile lands in the local cache for offline restarts.
	repo := session.users.(*fakeUserRepo)
	assert.Contains(t, repo.saved, "uid-1")
}

func TestCurrentUser_NotLoggedIn(t *testing.T) {
	session := newTestSession(t, filepath.Join(t.TempDir(), "missing-token"))

	_, err := session.CurrentUser(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrNotLoggedIn)
}

func TestCurrentUser_SaveFailureIsLoggedNotFatal(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token")

	var logged bytes.Buffer
	cfg := &config.Config{
		Session: &config.SessionConfig{TokenPath: tokenPath},
	}
	repo := newFakeUserRepo()
	repo.saveErr = domainerrors.ErrStoreFailed

	svc, err := NewTokenSession(cfg, repo, slog.New(slog.NewTextHandler(&logged, nil)))
	require.NoError(t, err)

	token := mintIDToken(t, jwt.MapClaims{
		"user_id": "uid-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, os.WriteFile(tokenPath, []byte(token), 0o600))

	user, err := svc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.ID)
	assert.Contains(t, logged.String(), "level=WARN")
	assert.Contains(t, logged.String(), "uid-1")
}

func TestCurrentUser_KeepsCachedRole(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token")
	session := newTestSession(t, tokenPath)

	repo := session.users.(*fakeUserRepo)
	repo.saved["uid-1"] = &entity.User{
		ID:        "uid-1",
		Role:      entity.RoleAdmin,
		CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	token := mintIDToken(t, jwt.MapClaims{
		"user_id": "uid-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, os.WriteFile(tokenPath, []byte(token), 0o600))

	user, err := session.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)
	assert.Equal(t, 2025, user.CreatedAt.Year())
}
