package client

import (
	"context"
	"sync"

	"github.com/fcreyes/gingereasy/models"
)

const sessionTokenKey = "token"

// Session holds the bearer token and the user it resolves to. While Loading
// reports true the auth state is not yet decidable and callers must not make
// auth-gated decisions (see Guard).
type Session struct {
	client *Client
	store  Store

	mu      sync.Mutex
	token   string
	user    *models.User
	loading bool
}

// NewSession reads any persisted token. With no token the session resolves
// immediately; with one, Resume must validate it before the state settles.
func NewSession(c *Client, store Store) *Session {
	s := &Session{client: c, store: store}
	if token, ok := store.Get(sessionTokenKey); ok && token != "" {
		s.token = token
		s.loading = true
	}
	return s
}

// Resume validates the persisted token against the current-user endpoint.
// Without a token it returns without any network call. Any failure, auth
// rejection or network, clears the session; the error is returned for
// logging but the state is already settled either way.
func (s *Session) Resume(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		s.setLoading(false)
		return nil
	}

	user, err := s.client.Me(ctx, token)
	if err != nil {
		s.Logout()
		return err
	}

	s.mu.Lock()
	s.user = user
	s.loading = false
	s.mu.Unlock()
	return nil
}

// Login exchanges credentials for a token, persists it and resolves the
// user. A non-2xx login surfaces the server's message as an AuthError.
func (s *Session) Login(ctx context.Context, username, password string) (*models.User, error) {
	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	s.store.Set(sessionTokenKey, token)
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.client.Me(ctx, token)
	if err != nil {
		s.Logout()
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.loading = false
	s.mu.Unlock()
	return user, nil
}

func (s *Session) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	return s.client.Register(ctx, email, username, password)
}

// Logout clears the token and user unconditionally and synchronously.
func (s *Session) Logout() {
	s.store.Delete(sessionTokenKey)
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.loading = false
	s.mu.Unlock()
}

// CurrentUser returns the last-fetched user, or nil.
func (s *Session) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// AuthHeader returns the Authorization header value, or "" when signed out.
func (s *Session) AuthHeader() string {
	if token := s.Token(); token != "" {
		return "Bearer " + token
	}
	return ""
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
