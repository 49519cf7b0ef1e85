package semaphore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Auth     string `json:"auth"`
	Password string `json:"password"`
}

// LoginMetadata describes the login methods the server offers.
type LoginMetadata struct {
	LoginWithPassword bool           `json:"login_with_password"`
	OIDCProviders     []OIDCProvider `json:"oidc_providers"`
}

// OIDCProvider is an external identity provider configured on the server.
type OIDCProvider struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// CurrentUser is the account the session belongs to.
type CurrentUser struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Created  time.Time `json:"created"`
	Admin    bool      `json:"admin"`
	External bool      `json:"external"`
	Alert    bool      `json:"alert"`
}

// Ping checks that the server is reachable. It does not require a session.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.send(ctx, http.MethodGet, "/ping", nil, false)
	return err
}

// LoginMetadata returns the login methods the server offers.
// It does not require a session.
func (c *Client) LoginMetadata(ctx context.Context) (*LoginMetadata, error) {
	resp, err := c.send(ctx, http.MethodGet, "/auth/login", nil, false)
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[LoginMetadata](resp.body, "login metadata")
}

// Login authenticates with a username (or email) and password and stores the
// session cookie the server returns. Subsequent calls carry the cookie.
//
// A rejected login returns an error matching ErrInvalidCredentials and leaves
// the client without a session, in memory and in the session store.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username == "" {
		return ErrEmptyUsername
	}

	resp, err := c.send(ctx, http.MethodPost, "/auth/login", &loginRequest{Auth: username, Password: password}, false)
	if err != nil {
		c.dropSession(ctx)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return fmt.Errorf("%w: %w", ErrInvalidCredentials, apiErr)
		}
		return err
	}

	session := sessionFromCookies(username, resp.cookies)
	if !session.Valid() {
		c.dropSession(ctx)
		return fmt.Errorf("%w: login response carried no session cookie", ErrNotAuthenticated)
	}

	c.setSession(session)
	c.persistSession(ctx, session)
	if c.logger != nil {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "login", slog.String("username", username))
	}
	return nil
}

// UseAPIToken switches the client to bearer-token authentication.
func (c *Client) UseAPIToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyAPIToken
	}
	session := &Session{APIToken: token, CreatedAt: time.Now()}
	c.setSession(session)
	c.persistSession(ctx, session)
	return nil
}

// Logout ends the session on the server and clears it locally. The local
// session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.post(ctx, "/auth/logout", nil)

	c.setSession(nil)
	if c.sessionStore != nil {
		if derr := c.sessionStore.DeleteSession(ctx); derr != nil && err == nil {
			err = fmt.Errorf("semaphore: failed to delete stored session: %w", derr)
		}
	}
	return err
}

// WhoAmI returns the user the session belongs to.
func (c *Client) WhoAmI(ctx context.Context) (*CurrentUser, error) {
	data, err := c.get(ctx, "/user")
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[CurrentUser](data, "current user")
}

// IsAuthenticated reports whether the client holds a usable session.
// It does not contact the server.
func (c *Client) IsAuthenticated() bool {
	return c.currentSession() != nil
}

// Session returns a copy of the current session, or nil.
func (c *Client) Session() *Session {
	return c.currentSession().clone()
}

// currentSession returns the session if it is still valid.
func (c *Client) currentSession() *Session {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	if !c.session.Valid() {
		return nil
	}
	return c.session
}

func (c *Client) setSession(s *Session) {
	c.sessionMu.Lock()
	c.session = s
	c.sessionMu.Unlock()
}

// dropSession clears the session and deletes the stored one, if any. A store
// failure is logged since the caller already has an error to return.
func (c *Client) dropSession(ctx context.Context) {
	c.setSession(nil)
	if c.sessionStore == nil {
		return
	}
	if err := c.sessionStore.DeleteSession(ctx); err != nil && c.logger != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "failed to delete stored session", slog.String("error", err.Error()))
	}
}

// persistSession saves the session to the store, if any. A store failure is
// logged rather than failing the login that already succeeded.
func (c *Client) persistSession(ctx context.Context, s *Session) {
	if c.sessionStore == nil {
		return
	}
	if err := c.sessionStore.SaveSession(ctx, s); err != nil && c.logger != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "failed to persist session", slog.String("error", err.Error()))
	}
}
