// ABOUTME: Persists the signed-in session (bearer token and user name)
// ABOUTME: Stores session.json in the config directory and inspects JWT expiry

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FileName is the session file inside the config directory
const FileName = "session.json"

// ErrNotFound is returned by Load when nobody is signed in
var ErrNotFound = errors.New("no saved session")

// Session is the locally persisted sign-in state
type Session struct {
	Token    string `json:"token"`
	UserName string `json:"userName,omitempty"`
}

// Valid reports whether the session carries a token
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// ExpiresAt returns the JWT exp claim. The signature is not verified because
// the client does not hold the signing key. ok is false for tokens without an
// exp claim or tokens that are not JWTs.
func (s *Session) ExpiresAt() (exp time.Time, ok bool) {
	if !s.Valid() {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}
	date, err := claims.GetExpirationTime()
	if err != nil || date == nil {
		return time.Time{}, false
	}
	return date.Time, true
}

// Expired reports whether the token's exp claim is at or before now.
// Tokens without a readable expiry never expire client-side.
func (s *Session) Expired(now time.Time) bool {
	if !s.Valid() {
		return true
	}
	exp, ok := s.ExpiresAt()
	if !ok {
		return false
	}
	return !now.Before(exp)
}

// Subject returns the JWT sub claim, which the backend sets to the user's email
func (s *Session) Subject() string {
	if !s.Valid() {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

// Store reads and writes the session file
type Store struct {
	dir string
}

// NewStore creates a store rooted at the config directory
func NewStore(configDir string) *Store {
	return &Store{dir: configDir}
}

// Path returns the location of the session file
func (st *Store) Path() string {
	return filepath.Join(st.dir, FileName)
}

// Load reads the saved session. A missing file, an unreadable body or an
// empty token all yield ErrNotFound.
func (st *Store) Load() (*Session, error) {
	data, err := os.ReadFile(st.Path())
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, ErrNotFound
	}
	if !s.Valid() {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Save writes the session with owner-only permissions
func (st *Store) Save(s *Session) error {
	if !s.Valid() {
		return errors.New("refusing to save a session without a token")
	}
	if err := os.MkdirAll(st.dir, 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temp file first so a crash never leaves a truncated session
	tmp, err := os.CreateTemp(st.dir, ".session-*")
	if err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return os.Rename(tmp.Name(), st.Path())
}

// Clear removes the saved session. Clearing when signed out is not an error.
func (st *Store) Clear() error {
	err := os.Remove(st.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
