package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/anonto42/kickoff/backend/pkg/client"
)

var (
	// ErrLoginRequired means the action needs a session; the caller should prompt for login.
	ErrLoginRequired = errors.New("please login to comment")
	ErrEmptyComment  = errors.New("please enter a comment before posting")
	// ErrLikeInFlight is returned while a toggle on the same comment is still pending.
	ErrLikeInFlight = errors.New("like already in progress")
)

// API is the subset of client.Client the controller uses.
type API interface {
	Signup(ctx context.Context, name, email, password string) (*client.Auth, error)
	Login(ctx context.Context, email, password string) (*client.Auth, error)
	Profile(ctx context.Context, token string) (*client.User, error)
	PostComment(ctx context.Context, token, articleID, text string) (*client.Comment, error)
	ToggleLike(ctx context.Context, token, commentID string) (*client.LikeState, error)
}

// Controller owns the client-side session.
type Controller struct {
	api   API
	store Store

	mu      sync.Mutex
	current *Session
	liking  map[string]struct{}
}

func NewController(api API, store Store) *Controller {
	return &Controller{api: api, store: store, liking: map[string]struct{}{}}
}

// Restore loads the stored session without contacting the server, so the UI
// can render signed-in state immediately. Call Revalidate afterwards.
func (c *Controller) Restore() (Session, bool, error) {
	sess, ok, err := c.store.Load()
	if err != nil || !ok {
		return Session{}, false, err
	}

	c.mu.Lock()
	c.current = &sess
	c.mu.Unlock()
	return sess, true, nil
}

// Revalidate asks the server whether the session is still good. Any error
// response from the server logs out and reports false; transport failures keep
// the session and return the error.
func (c *Controller) Revalidate(ctx context.Context) (bool, error) {
	sess, ok := c.Current()
	if !ok {
		return false, nil
	}

	user, err := c.api.Profile(ctx, sess.Token)
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return false, c.logoutIf(sess.Token)
	}
	if err != nil {
		return true, err
	}

	sess.User = *user
	return c.refresh(sess)
}

func (c *Controller) Login(ctx context.Context, email, password string) (Session, error) {
	auth, err := c.api.Login(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	sess := Session{Token: auth.Token, User: auth.User}
	return sess, c.set(sess)
}

func (c *Controller) Signup(ctx context.Context, name, email, password string) (Session, error) {
	auth, err := c.api.Signup(ctx, name, email, password)
	if err != nil {
		return Session{}, err
	}
	sess := Session{Token: auth.Token, User: auth.User}
	return sess, c.set(sess)
}

// Logout clears both stored keys.
func (c *Controller) Logout() error {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
	return c.store.Clear()
}

// Current returns the in-memory session.
func (c *Controller) Current() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Session{}, false
	}
	return *c.current, true
}

// CommentInput is the state of the comment box.
type CommentInput struct {
	Enabled     bool
	ReadOnly    bool
	Placeholder string
}

// Activate is called when the user focuses the box. A disabled box asks for
// login rather than doing nothing.
func (in CommentInput) Activate() error {
	if !in.Enabled {
		return ErrLoginRequired
	}
	return nil
}

func (c *Controller) CommentInput() CommentInput {
	if _, ok := c.Current(); !ok {
		return CommentInput{ReadOnly: true, Placeholder: "Login to add a comment..."}
	}
	return CommentInput{Enabled: true, Placeholder: "Add a comment..."}
}

func (c *Controller) PostComment(ctx context.Context, articleID, text string) (*client.Comment, error) {
	sess, ok := c.Current()
	if !ok {
		return nil, ErrLoginRequired
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	comment, err := c.api.PostComment(ctx, sess.Token, articleID, text)
	return comment, c.checkAuth(err)
}

// ToggleLike flips the user's like. Only one toggle per comment may be in
// flight at a time.
func (c *Controller) ToggleLike(ctx context.Context, commentID string) (*client.LikeState, error) {
	sess, ok := c.Current()
	if !ok {
		return nil, ErrLoginRequired
	}

	c.mu.Lock()
	if _, busy := c.liking[commentID]; busy {
		c.mu.Unlock()
		return nil, ErrLikeInFlight
	}
	c.liking[commentID] = struct{}{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.liking, commentID)
		c.mu.Unlock()
	}()

	state, err := c.api.ToggleLike(ctx, sess.Token, commentID)
	return state, c.checkAuth(err)
}

// checkAuth logs out when the server rejected the token.
func (c *Controller) checkAuth(err error) error {
	if !client.IsUnauthorized(err) {
		return err
	}
	if lerr := c.Logout(); lerr != nil {
		return errors.Join(err, lerr)
	}
	return fmt.Errorf("%w: %w", ErrLoginRequired, err)
}

func (c *Controller) set(sess Session) error {
	if err := c.store.Save(sess); err != nil {
		return err
	}
	c.mu.Lock()
	c.current = &sess
	c.mu.Unlock()
	return nil
}

// refresh saves sess only if it is still the current session. It reports false
// when a logout or a new login happened in the meantime.
func (c *Controller) refresh(sess Session) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.Token != sess.Token {
		return false, nil
	}
	if err := c.store.Save(sess); err != nil {
		return true, err
	}
	c.current = &sess
	return true, nil
}

// logoutIf logs out unless the session has already moved on from token.
func (c *Controller) logoutIf(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.Token != token {
		return nil
	}
	c.current = nil
	return c.store.Clear()
}
