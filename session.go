package semaphore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// SessionCookieName is the cookie Semaphore issues on a successful login.
const SessionCookieName = "semaphore"

// Session is the credential attached to authenticated requests: either the
// cookies issued by Login or an API token.
type Session struct {
	Cookies   []SessionCookie `json:"cookies,omitempty"`
	APIToken  string          `json:"api_token,omitempty"`
	Username  string          `json:"username,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// SessionCookie is a cookie captured from the login response.
type SessionCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitzero"`
}

// Valid reports whether the session still carries a usable credential.
func (s *Session) Valid() bool {
	if s == nil {
		return false
	}
	if s.APIToken != "" {
		return true
	}
	now := time.Now()
	for _, ck := range s.Cookies {
		if ck.Value != "" && (ck.Expires.IsZero() || ck.Expires.After(now)) {
			return true
		}
	}
	return false
}

// Token returns the opaque session token: the API token when set, otherwise
// the value of the Semaphore session cookie.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	if s.APIToken != "" {
		return s.APIToken
	}
	for _, ck := range s.Cookies {
		if ck.Name == SessionCookieName {
			return ck.Value
		}
	}
	if len(s.Cookies) > 0 {
		return s.Cookies[0].Value
	}
	return ""
}

// apply attaches the credential to an outgoing request.
func (s *Session) apply(req *http.Request) {
	if s.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIToken)
	}
	for _, ck := range s.Cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
}

// clone returns a deep copy so callers cannot mutate the client's session.
func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Cookies = append([]SessionCookie(nil), s.Cookies...)
	return &cp
}

// sessionFromCookies builds a session from login response cookies, dropping
// cookies the server asked to delete.
func sessionFromCookies(username string, cookies []*http.Cookie) *Session {
	s := &Session{Username: username, CreatedAt: time.Now()}
	for _, ck := range cookies {
		if ck.Value == "" || ck.MaxAge < 0 {
			continue
		}
		sc := SessionCookie{Name: ck.Name, Value: ck.Value}
		if !ck.Expires.IsZero() {
			sc.Expires = ck.Expires
		}
		if ck.MaxAge > 0 {
			sc.Expires = time.Now().Add(time.Duration(ck.MaxAge) * time.Second)
		}
		s.Cookies = append(s.Cookies, sc)
	}
	return s
}

// SessionStore persists a session between processes.
type SessionStore interface {
	// SaveSession stores the session, replacing any previous one.
	SaveSession(ctx context.Context, session *Session) error
	// LoadSession returns the stored session or ErrNoSession.
	LoadSession(ctx context.Context) (*Session, error)
	// DeleteSession removes the stored session. Deleting a missing session is not an error.
	DeleteSession(ctx context.Context) error
}

// FileSessionStore stores the session as JSON in a file.
type FileSessionStore struct {
	fs   afero.Fs
	path string
	mu   sync.RWMutex
}

// NewFileSessionStore creates a FileSessionStore on the OS filesystem.
func NewFileSessionStore(path string) *FileSessionStore {
	return NewFileSessionStoreFs(afero.NewOsFs(), path)
}

// NewFileSessionStoreFs creates a FileSessionStore on the given filesystem.
func NewFileSessionStoreFs(fsys afero.Fs, path string) *FileSessionStore {
	return &FileSessionStore{fs: fsys, path: path}
}

// Path returns the file the session is stored in.
func (f *FileSessionStore) Path() string {
	return f.path
}

// SaveSession writes the session to the file with owner-only permissions.
func (f *FileSessionStore) SaveSession(ctx context.Context, session *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	dir := filepath.Dir(f.path)
	if dir != "" && dir != "." {
		if err := f.fs.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to a temporary file first, then rename for atomicity
	tmpFile := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := f.fs.Rename(tmpFile, f.path); err != nil {
		f.fs.Remove(tmpFile)
		return fmt.Errorf("failed to save session file: %w", err)
	}

	return nil
}

// LoadSession reads the session from the file.
func (f *FileSessionStore) LoadSession(ctx context.Context) (*Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &session, nil
}

// DeleteSession removes the session file.
func (f *FileSessionStore) DeleteSession(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fs.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// MemorySessionStore stores the session in memory (useful for testing).
type MemorySessionStore struct {
	session *Session
	mu      sync.RWMutex
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// SaveSession stores a copy of the session.
func (m *MemorySessionStore) SaveSession(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = session.clone()
	return nil
}

// LoadSession returns a copy of the stored session.
func (m *MemorySessionStore) LoadSession(ctx context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return nil, ErrNoSession
	}
	return m.session.clone(), nil
}

// DeleteSession clears the stored session.
func (m *MemorySessionStore) DeleteSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
