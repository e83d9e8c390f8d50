// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"marketpin/config"
	"marketpin/internal/domain/entity"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/repository"
	"marketpin/internal/domain/service"
)

// tokenSession resolves the signed-in account from the ID token the auth flow
// leaves on disk. The token is parsed without signature verification: the
// identity provider already verified the credentials when it minted it, and
// this process only needs the profile claims, not a trust decision.
type tokenSession struct {
	tokenPath string
	users     repository.UserRepository
	logger    *slog.Logger
}

// NewTokenSession is the constructor for tokenSession.
func NewTokenSession(cfg *config.Config, users repository.UserRepository, logger *slog.Logger) (service.SessionService, error) {
	if cfg.Session == nil || cfg.Session.TokenPath == "" {
		return nil, errors.New("session token path must be configured")
	}

	return &tokenSession{
		tokenPath: cfg.Session.TokenPath,
		users:     users,
		logger:    logger,
	}, nil
}

// CurrentUser reads the stored ID token and returns the account it carries,
// refreshing the cached profile so it survives offline restarts.
func (s *tokenSession) CurrentUser(ctx context.Context) (*entity.User, error) {
	raw, err := os.ReadFile(s.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.ErrNotLoggedIn
		}

		return nil, domainerrors.ErrNotLoggedIn.WithDetails(err.Error())
	}

	user, err := s.ParseIDToken(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, err
	}

	// Cache refresh is best-effort. The parsed token already identifies the
	// user even when the local store is unavailable.
	if cached, findErr := s.users.FindByID(ctx, user.ID); findErr == nil {
		user.Role = cached.Role
		user.CreatedAt = cached.CreatedAt
	}
	if saveErr := s.users.Save(ctx, user); saveErr != nil {
		s.logger.Warn("Failed to refresh cached user profile",
			slog.String("user_id", user.ID),
			slog.Any("error", saveErr),
		)
	}

	return user, nil
}

// ParseIDToken extracts the profile claims from an ID token. Expired tokens
// return a session-expired error so the UI can prompt for re-login.
func (s *tokenSession) ParseIDToken(tokenString string) (*entity.User, error) {
	if tokenString == "" {
		return nil, domainerrors.ErrNotLoggedIn
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, domainerrors.ErrNotLoggedIn.WithDetails(err.Error())
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, domainerrors.ErrNotLoggedIn.WithDetails(err.Error())
	}
	if exp != nil && exp.Before(time.Now()) {
		return nil, domainerrors.ErrSessionExpired
	}

	uid := stringClaim(claims, "user_id")
	if uid == "" {
		uid = stringClaim(claims, "sub")
	}
	if uid == "" {
		return nil, domainerrors.ErrNotLoggedIn.WithDetails("token carries no user id")
	}

	return &entity.User{
		ID:          uid,
		Email:       stringClaim(claims, "email"),
		DisplayName: stringClaim(claims, "name"),
		Role:        entity.RoleUser,
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}

	return ""
}
