// Package session owns the current login state for one CLI invocation:
// who is logged in, the login/register/logout operations, and the
// persisted session record that carries the state across invocations.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/martillo-dev/martillo/internal/cli/auth"
	"github.com/martillo-dev/martillo/internal/cli/client"
	"github.com/martillo-dev/martillo/internal/logger"
)

// Context is the single source of truth for the current session and the
// only writer of the persisted session record. Login and Register never
// return an error: expected failures (bad credentials, unreachable
// backend, a response missing its token) are logged and reported as
// false, so callers branch on one boolean instead of unpacking errors.
type Context struct {
	mu        sync.Mutex
	api       *client.Client
	store     *auth.Store
	session   auth.Session
	loading   bool
	listeners []func(auth.Session, bool)
	log       zerolog.Logger
}

// New constructs the context and restores the persisted session record.
// A valid record is adopted as the current session; a corrupt record is
// cleared and the empty session stands. When New returns, Loading
// reports false and the session is settled.
func New(api *client.Client, store *auth.Store) *Context {
	c := &Context{
		api:     api,
		store:   store,
		session: auth.Empty(),
		loading: true,
		log:     logger.GetLogger(),
	}

	sess, err := store.Load()
	if err != nil {
		if errors.Is(err, auth.ErrCorruptRecord) {
			if clearErr := store.Clear(); clearErr != nil {
				c.log.Warn().Err(clearErr).Msg("Failed to clear corrupt session record")
			}
		} else {
			c.log.Warn().Err(err).Msg("Failed to read session record")
		}
	} else if sess != nil {
		c.session = *sess
	}

	c.loading = false
	return c
}

// Session returns the current session value
func (c *Context) Session() auth.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Loading reports whether a login or register call is in flight
func (c *Context) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Subscribe registers fn to be called synchronously after every session
// or loading change, with the values as of that change
func (c *Context) Subscribe(fn func(sess auth.Session, loading bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Login authenticates against the platform. It returns true only when
// the response carries a token; the new session merges the response's
// user id and name with the email the caller supplied, since the
// backend does not echo the email back. On success the session is
// written to memory and to the record in one step, so overlapping
// logins resolve last-writer-wins on both.
func (c *Context) Login(email, password string) bool {
	c.setLoading(true)
	defer c.setLoading(false)

	resp, err := c.api.Login(email, password)
	if err != nil {
		c.log.Warn().Err(err).Msg("Login failed")
		return false
	}

	if resp.Token == "" {
		c.log.Warn().Msg("Login response carried no token")
		return false
	}

	user := auth.User{
		ID:    resp.UserID,
		Name:  resp.UserName,
		Email: email,
	}
	c.adopt(auth.Session{
		User:            &user,
		IsAuthenticated: true,
		Credential:      resp.Token,
	})

	return true
}

// Register creates an account and, on success, chains straight into
// Login with the same credentials — registration alone does not
// establish a session. The display name is split on the first space
// into first and last name; a single-token name gets an empty last
// name.
func (c *Context) Register(name, email, password string) bool {
	c.setLoading(true)
	defer c.setLoading(false)

	firstName, lastName := SplitName(name)

	resp, err := c.api.Register(client.RegisterRequest{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("Registration failed")
		return false
	}

	if !resp.Success {
		c.log.Warn().Str("message", resp.Message).Msg("Registration rejected")
		return false
	}

	return c.Login(email, password)
}

// Logout resets the session and removes the persisted record. No
// network call is made; the credential is simply forgotten.
func (c *Context) Logout() {
	c.mu.Lock()
	c.session = auth.Empty()
	if err := c.store.Clear(); err != nil {
		c.log.Warn().Err(err).Msg("Failed to remove session record")
	}
	c.notifyLocked()
}

// SplitName splits a display name into first name and the remainder.
// Only the first space separates: "Ada Lovelace King" yields
// ("Ada", "Lovelace King"), "Ada" yields ("Ada", "").
func SplitName(name string) (firstName, lastName string) {
	firstName, lastName, _ = strings.Cut(name, " ")
	return firstName, lastName
}

// adopt replaces the session in memory and on disk in one critical
// section. A failed record write is logged but does not undo the
// in-memory session; the next invocation just has to log in again.
func (c *Context) adopt(sess auth.Session) {
	c.mu.Lock()
	c.session = sess
	if err := c.store.Save(sess); err != nil {
		c.log.Error().Err(err).Msg("Failed to persist session record")
	}
	c.notifyLocked()
}

func (c *Context) setLoading(loading bool) {
	c.mu.Lock()
	c.loading = loading
	c.notifyLocked()
}

// notifyLocked snapshots state and listeners, releases the lock, and
// delivers the notification synchronously in the calling goroutine.
// Callers must hold c.mu; it is released on return.
func (c *Context) notifyLocked() {
	sess := c.session
	loading := c.loading
	listeners := make([]func(auth.Session, bool), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(sess, loading)
	}
}
