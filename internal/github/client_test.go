package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "total_count": 2,
  "incomplete_results": false,
  "items": [
    {"full_name": "acme/skills", "description": "Skill pack", "stargazers_count": 42,
     "html_url": "https://github.com/acme/skills", "clone_url": "https://github.com/acme/skills.git"},
    {"full_name": "other/tools", "description": "", "stargazers_count": 7,
     "html_url": "https://github.com/other/tools", "clone_url": "https://github.com/other/tools.git"}
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, token string) *Client {
	t.Helper()
	c, err := NewClient(Options{Token: token, RateLimit: 600, BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c
}

func TestSearchRepositories(t *testing.T) {
	var gotQuery, gotSort, gotAuth string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotSort = r.URL.Query().Get("sort")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, searchBody)
	})

	c := newTestClient(t, srv, "secret")
	repos, err := c.SearchRepositories(context.Background(), " claude skills ", 10)
	require.NoError(t, err)

	assert.Equal(t, "claude skills", gotQuery)
	assert.Equal(t, "stars", gotSort)
	assert.Equal(t, "Bearer secret", gotAuth)

	require.Len(t, repos, 2)
	assert.Equal(t, Repository{
		FullName:    "acme/skills",
		Description: "Skill pack",
		Stars:       42,
		HTMLURL:     "https://github.com/acme/skills",
		CloneURL:    "https://github.com/acme/skills.git",
	}, repos[0])
}

func TestSearchRepositories_LimitAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, searchBody)
	})

	c := newTestClient(t, srv, "")
	repos, err := c.SearchRepositories(context.Background(), "skills", 1)
	require.NoError(t, err)
	require.Len(t, repos, 1)

	_, err = c.SearchRepositories(context.Background(), "skills", 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestSearchRepositories_EmptyQuery(t *testing.T) {
	c, err := NewClient(Options{})
	require.NoError(t, err)
	_, err = c.SearchRepositories(context.Background(), "  ", 5)
	assert.Error(t, err)
}

func TestSearchRepositories_ServerError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = fmt.Fprint(w, `{"message": "Validation Failed"}`)
	})

	c := newTestClient(t, srv, "")
	_, err := c.SearchRepositories(context.Background(), "bad", 5)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestResponseCache_Expires(t *testing.T) {
	now := time.Unix(1000, 0)
	c := newResponseCache(time.Minute, func() time.Time { return now })
	c.set("k", []Repository{{FullName: "a/b"}})

	got, ok := c.get("k")
	require.True(t, ok)
	assert.Len(t, got, 1)

	now = now.Add(2 * time.Minute)
	_, ok = c.get("k")
	assert.False(t, ok)
}
