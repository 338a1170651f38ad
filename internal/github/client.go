// Package github searches GitHub for repositories that publish skills.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/starjokerZYJ/skills-hub/internal/log"
)

const (
	// DefaultCacheTTL is how long search results are reused.
	DefaultCacheTTL = 10 * time.Minute

	// AuthenticatedRateLimit is requests per minute with a token.
	AuthenticatedRateLimit = 30

	// UnauthenticatedRateLimit is requests per minute without a token.
	UnauthenticatedRateLimit = 10

	// DefaultLimit caps results when the caller gives no limit.
	DefaultLimit = 20

	maxPerPage = 100
)

// ErrRateLimited is returned when GitHub refuses a request for quota
// reasons.
var ErrRateLimited = errors.New("GitHub rate limit exceeded")

// Repository is a search hit.
type Repository struct {
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	HTMLURL     string `json:"html_url"`
	CloneURL    string `json:"clone_url"`
}

// Options configures a Client.
type Options struct {
	Token string
	// RateLimit is requests per minute; zero picks a default based on
	// whether a token is set.
	RateLimit int
	// BaseURL overrides the API endpoint. It must end with a slash.
	BaseURL  string
	CacheTTL time.Duration
	Now      func() time.Time
}

// Client wraps the GitHub API with rate limiting and caching.
type Client struct {
	rest    *gh.Client
	limiter *rate.Limiter
	cache   *responseCache
}

// NewClient creates a new GitHub client, authenticated when a token is set.
func NewClient(opts Options) (*Client, error) {
	var httpClient *http.Client
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	rateLimit := opts.RateLimit
	if rateLimit <= 0 {
		if opts.Token != "" {
			rateLimit = AuthenticatedRateLimit
		} else {
			rateLimit = UnauthenticatedRateLimit
		}
	}

	rest := gh.NewClient(httpClient)
	if opts.BaseURL != "" {
		u, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		rest.BaseURL = u
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}

	return &Client{
		rest:    rest,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rateLimit)), rateLimit),
		cache:   newResponseCache(ttl, now),
	}, nil
}

// SearchRepositories returns up to limit repositories matching query,
// most starred first.
func (c *Client) SearchRepositories(ctx context.Context, query string, limit int) ([]Repository, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is empty")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	cacheKey := fmt.Sprintf("repos:%s:%d", query, limit)
	if cached, ok := c.cache.get(cacheKey); ok {
		log.GetLogger(ctx).WithField("query", query).Debug("github search cache hit")
		return cached, nil
	}

	opts := &gh.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: min(limit, maxPerPage)},
	}

	var repos []Repository
	for len(repos) < limit {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		result, resp, err := c.rest.Search.Repositories(ctx, query, opts)
		if err != nil {
			var rle *gh.RateLimitError
			if errors.As(err, &rle) {
				return nil, fmt.Errorf("%w, retry after %v", ErrRateLimited, rle.Rate.Reset.Time)
			}
			return nil, fmt.Errorf("search repositories: %w", err)
		}

		for _, r := range result.Repositories {
			repos = append(repos, Repository{
				FullName:    r.GetFullName(),
				Description: r.GetDescription(),
				Stars:       r.GetStargazersCount(),
				HTMLURL:     r.GetHTMLURL(),
				CloneURL:    r.GetCloneURL(),
			})
		}

		if resp.NextPage == 0 || len(result.Repositories) == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if len(repos) > limit {
		repos = repos[:limit]
	}
	c.cache.set(cacheKey, repos)
	return repos, nil
}
