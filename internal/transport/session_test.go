package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quality-eu/acdtrack/internal/domain/role"
)

func TestSessionStore_DefaultsToRM(t *testing.T) {
	store := NewSessionStore()

	r := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	assert.Equal(t, role.RM, store.Role(r))

	// An unknown token also falls back to the view-only role.
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: "stale-token"})
	assert.Equal(t, role.RM, store.Role(r))
}

func TestSessionStore_LoginAndSwitch(t *testing.T) {
	store := NewSessionStore()

	r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	token := store.Login(r, role.TAC)
	require.NotEmpty(t, token)

	authed := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	authed.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	assert.Equal(t, role.TAC, store.Role(authed))

	// A second login on the same session replaces the role.
	relogin := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	relogin.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	token2 := store.Login(relogin, role.Quality)
	assert.Equal(t, token, token2, "existing session keeps its token")
	assert.Equal(t, role.Quality, store.Role(authed))
}

func TestSessionStore_LoginRejectsForgedToken(t *testing.T) {
	store := NewSessionStore()

	r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: "attacker-chosen"})

	token := store.Login(r, role.Admin)
	assert.NotEqual(t, "attacker-chosen", token, "unknown tokens get replaced")

	forged := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	forged.AddCookie(&http.Cookie{Name: sessionCookie, Value: "attacker-chosen"})
	assert.Equal(t, role.RM, store.Role(forged))
}

func TestSessionStore_IndependentSessions(t *testing.T) {
	store := NewSessionStore()

	t1 := store.Login(httptest.NewRequest(http.MethodPost, "/api/login", nil), role.Admin)
	t2 := store.Login(httptest.NewRequest(http.MethodPost, "/api/login", nil), role.RM)
	require.NotEqual(t, t1, t2)

	r1 := httptest.NewRequest(http.MethodGet, "/", nil)
	r1.AddCookie(&http.Cookie{Name: sessionCookie, Value: t1})
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(&http.Cookie{Name: sessionCookie, Value: t2})

	assert.Equal(t, role.Admin, store.Role(r1))
	assert.Equal(t, role.RM, store.Role(r2))
}
