package httpcontext_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webserver/core/httpcontext"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		method  string
		path    string
		want    map[string]string
		matched bool
	}{
		{"static", "/health", "GET", "/health", map[string]string{}, true},
		{"root", "/", "GET", "/", map[string]string{}, true},
		{"named segment", "/users/:id", "GET", "/users/42", map[string]string{"id": "42"}, true},
		{"two segments", "/users/:id/posts/:post", "GET", "/users/1/posts/x", map[string]string{"id": "1", "post": "x"}, true},
		{"trailing slash ignored", "/users/:id", "GET", "/users/42/", map[string]string{"id": "42"}, true},
		{"too short", "/users/:id", "GET", "/users", nil, false},
		{"too long", "/users/:id", "GET", "/users/1/extra", nil, false},
		{"static mismatch", "/users/:id", "GET", "/teams/1", nil, false},
		{"method prefix matches", "POST /users", "post", "/users", map[string]string{}, true},
		{"method prefix rejects", "POST /users", "GET", "/users", nil, false},
		{"wildcard rest", "/assets/*", "GET", "/assets/css/site.css", map[string]string{"*": "css/site.css"}, true},
		{"wildcard empty", "/assets/*", "GET", "/assets", map[string]string{"*": ""}, true},
		{"pattern without slash", "users", "GET", "/users", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			params, ok := httpcontext.Match(tt.pattern, tt.method, tt.path)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, params)
		})
	}
}

func TestContext_Route_FirstMatchWins(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	c := httpcontext.New(httptest.NewRecorder(), req)

	var calls []string
	record := func(name string) func(map[string]string) error {
		return func(map[string]string) error {
			calls = append(calls, name)
			return nil
		}
	}

	require.NoError(t, c.Route("/teams/:id", record("teams")))
	require.NoError(t, c.Route("POST /users/:id", record("post-user")))
	require.NoError(t, c.Route("/users/:id", record("user")))
	require.NoError(t, c.Route("/users/*", record("users-wildcard")))

	assert.Equal(t, []string{"user"}, calls)
	assert.True(t, c.Matched())
	assert.Equal(t, "7", c.Param("id"))
	assert.Equal(t, map[string]string{"id": "7"}, c.Params())
}

func TestContext_Route_PropagatesError(t *testing.T) {
	t.Parallel()

	c := httpcontext.New(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	want := errors.New("boom")

	assert.ErrorIs(t, c.Route("/boom", func(map[string]string) error { return want }), want)
}

func TestContext_Route_SkippedAfterResponse(t *testing.T) {
	t.Parallel()

	c := httpcontext.New(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/a", nil))
	require.NoError(t, c.Response(httpcontext.ResponseOptions{}))

	called := false
	require.NoError(t, c.Route("/a", func(map[string]string) error {
		called = true
		return nil
	}))
	assert.False(t, called)
}
