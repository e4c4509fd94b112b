package transport

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/quality-eu/acdtrack/internal/domain/role"
)

// sessionCookie carries the session token between requests.
const sessionCookie = "acdtrack_session"

// SessionStore maps session tokens to the acting role. A session holds
// exactly the current role; switching roles replaces it, and only the
// audit trail keeps history.
type SessionStore struct {
	mu    sync.RWMutex
	roles map[string]role.Role
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{roles: make(map[string]role.Role)}
}

// Login assigns the role to the request's session, creating one when the
// request carries no valid token. It returns the session token. Tokens
// not minted by this store are never adopted, so a caller cannot fix
// their own session key.
func (s *SessionStore) Login(r *http.Request, actor role.Role) string {
	token := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		token = c.Value
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, known := s.roles[token]; !known {
		token = uuid.NewString()
	}
	s.roles[token] = actor
	return token
}

// Role resolves the acting role for a request. Requests without a session
// act as RM, the view-only role.
func (s *SessionStore) Role(r *http.Request) role.Role {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return role.RM
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if actor, ok := s.roles[c.Value]; ok {
		return actor
	}
	return role.RM
}
