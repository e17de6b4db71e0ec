package client

import (
	"context"
	"sync"
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session is the explicit authentication state of one dashboard. It only
// changes through SignIn, SignOut, Revalidate and Observe; cookie presence
// is never consulted.
type Session struct {
	c *Client

	mu       sync.RWMutex
	state    State
	user     *User
	onChange func(State)
}

func NewSession(c *Client) *Session { return &Session{c: c} }

// OnChange registers fn to run after every state transition.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the signed-in user, if the login response carried one.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// SignIn logs in and confirms the cookie with a ping. The session becomes
// authenticated only when both succeed.
func (s *Session) SignIn(ctx context.Context, username, token string) error {
	res, err := s.c.Login(ctx, username, token)
	if err != nil {
		s.set(Anonymous, nil)
		return err
	}
	if _, err := s.c.Ping(ctx); err != nil {
		s.set(Anonymous, nil)
		return err
	}
	s.set(Authenticated, res.User)
	return nil
}

// SignOut ends the session. The state is anonymous afterwards even when
// the server call fails; the error is still returned.
func (s *Session) SignOut(ctx context.Context) error {
	_, err := s.c.Logout(ctx)
	s.set(Anonymous, nil)
	return err
}

// Revalidate pings the server. An auth failure drops to anonymous; other
// failures leave the state alone.
func (s *Session) Revalidate(ctx context.Context) error {
	_, err := s.c.Ping(ctx)
	s.Observe(err)
	return err
}

// Observe feeds the outcome of any request into the state machine: a 401
// means the session expired.
func (s *Session) Observe(err error) {
	if err != nil && IsUnauthorized(err) {
		s.set(Anonymous, nil)
	}
}

func (s *Session) set(st State, u *User) {
	s.mu.Lock()
	changed := s.state != st
	s.state = st
	s.user = u
	fn := s.onChange
	s.mu.Unlock()
	if changed && fn != nil {
		fn(st)
	}
}
