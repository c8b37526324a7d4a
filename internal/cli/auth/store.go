package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/martillo-dev/martillo/internal/logger"
)

const (
	configDirName   = "martillo"
	sessionFileName = "session.json"
)

// ErrCorruptRecord indicates the persisted session record exists but
// does not parse to a valid session. Callers treat it as "no session";
// it is exposed so the session context can clear the record.
var ErrCorruptRecord = errors.New("session record is corrupt")

// Store persists the session record as JSON at a fixed path,
// ~/.config/martillo/session.json by default.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore creates a store at the well-known per-user location
func DefaultStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	return NewStore(filepath.Join(homeDir, ".config", configDirName, sessionFileName)), nil
}

// Path returns the file path backing this store
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted session record. A missing record returns
// (nil, nil). A record that does not parse, or parses to a session
// violating the authenticated-iff-user-and-credential invariant,
// returns (nil, ErrCorruptRecord); it is never surfaced as a session.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Str("path", s.path).Msg("Stored session record is malformed")
		return nil, ErrCorruptRecord
	}

	if !sess.Valid() {
		log := logger.GetLogger()
		log.Warn().Str("path", s.path).Msg("Stored session record is structurally invalid")
		return nil, ErrCorruptRecord
	}

	return &sess, nil
}

// Save writes the session record, creating the parent directory if needed
func (s *Store) Save(sess Session) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	// 0600: the record holds a bearer credential
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}

	return nil
}

// Clear removes the session record. Clearing an absent record succeeds.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session record: %w", err)
	}
	return nil
}
