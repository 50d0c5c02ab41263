package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/mirror"
	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/repository"
	"github.com/data-analyzer-api/internal/validation"
)

// hexDigestRe matches the shape of a stored sha256 hex digest. Anything
// else in the password column is a legacy plaintext value.
var hexDigestRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

// authService is the concrete implementation of AuthService
type authService struct {
	users repository.UserRepository
	sink  mirror.Sink
	log   zerolog.Logger
}

// newAuthService creates a new AuthService
func newAuthService(users repository.UserRepository, sink mirror.Sink, log zerolog.Logger) *authService {
	return &authService{
		users: users,
		sink:  sink,
		log:   log.With().Str("service", "auth").Logger(),
	}
}

// HashPassword returns the lowercase hex sha256 digest of a password.
// Unsalted, matching the stored credential format.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IsDigest reports whether a stored password value has digest shape
func IsDigest(stored string) bool {
	return hexDigestRe.MatchString(stored)
}

// CreateAccount inserts a new user with a hashed password. Returns
// ErrUsernameTaken when the username is present. A successful insert is
// mirrored to the users export log best-effort.
func (s *authService) CreateAccount(ctx context.Context, username, password string) (*models.User, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	user := &models.User{
		Username:  username,
		Password:  HashPassword(password),
		CreatedAt: time.Now().Format(models.TimeLayout),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.sink.UserCreated(user.Username, user.CreatedAt, user.Password); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("Users export mirror write failed")
	}

	s.log.Info().Str("username", username).Int64("id", user.ID).Msg("Account created")
	return user, nil
}

// VerifyCredentials checks a login attempt. Digest-shaped stored values are
// compared by digest; legacy plaintext values are compared directly and
// rewritten to the digest on a successful match (migration on login). Any
// successful verification is mirrored to the activity log best-effort.
func (s *authService) VerifyCredentials(ctx context.Context, username, password string) (bool, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return false, nil
	}

	if IsDigest(user.Password) {
		if HashPassword(password) != user.Password {
			return false, nil
		}
		s.logLogin(username)
		return true, nil
	}

	// legacy plaintext value
	if user.Password != password {
		return false, nil
	}
	if err := s.users.UpdatePassword(ctx, user.ID, HashPassword(password)); err != nil {
		// the login itself still succeeds; migration retries next time
		s.log.Warn().Err(err).Str("username", username).Msg("Password digest migration failed")
	} else {
		s.log.Info().Str("username", username).Msg("Migrated legacy plaintext password to digest")
	}
	s.logLogin(username)
	return true, nil
}

// Count returns the total number of accounts
func (s *authService) Count(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}

func (s *authService) logLogin(username string) {
	if err := s.sink.LoginEvent(username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("Activity log mirror write failed")
	}
}
