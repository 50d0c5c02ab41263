// Package session manages the file-backed current-user marker. The marker
// is a single plain-text username: overwritten on login, removed on logout,
// and resolved against the credential store on every read so a stale marker
// pointing at a deleted user yields no session.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/repository"
)

// Manager reads and writes the session marker file. It is passed explicitly
// into every handler that needs the current user; there is no global state.
type Manager struct {
	path  string
	users repository.UserRepository
	log   zerolog.Logger
}

// NewManager creates a session manager over the given marker file
func NewManager(path string, users repository.UserRepository, log zerolog.Logger) *Manager {
	return &Manager{
		path:  path,
		users: users,
		log:   log.With().Str("component", "session").Logger(),
	}
}

// Current returns the logged-in user, or nil when there is no session or
// the marker points at a user that no longer exists.
func (m *Manager) Current(ctx context.Context) (*models.User, error) {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session marker: %w", err)
	}

	username := strings.TrimSpace(string(data))
	if username == "" {
		return nil, nil
	}

	user, err := m.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session user: %w", err)
	}
	return user, nil
}

// SetCurrent overwrites the marker with the given username
func (m *Manager) SetCurrent(username string) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(m.path, []byte(username), 0644)
}

// Clear removes the marker file; a no-op when it is already gone
func (m *Manager) Clear() error {
	err := os.Remove(m.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
