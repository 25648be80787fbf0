package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// PageSize is the page size for list requests.
	PageSize = 100
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRateLimiter replaces the default rate limiter.
func WithRateLimiter(r *RateLimiter) ClientOption {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// Client wraps the go-github client with helper methods.
type Client struct {
	mu            sync.Mutex
	gh            *gh.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	baseURL       string
}

// NewClient creates a new GitHub API client with a token provider.
// A nil provider or an empty token gives anonymous access.
func NewClient(tokenProvider driven.TokenProvider, opts ...ClientOption) *Client {
	c := &Client{tokenProvider: tokenProvider}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ensureClient initializes the go-github client if not already done.
// This is called lazily so we can get the token when needed.
func (c *Client) ensureClient(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gh != nil {
		return nil
	}

	var token string
	if c.tokenProvider != nil {
		t, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		token = t
	}

	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(ctx, ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = DefaultTimeout

	client := gh.NewClient(hc)
	if c.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(c.baseURL, "/") + "/")
		if err != nil {
			return fmt.Errorf("parse base URL: %w", err)
		}
		client.BaseURL = u
	}

	if c.rateLimiter == nil {
		if token != "" {
			c.rateLimiter = NewRateLimiter()
		} else {
			c.rateLimiter = NewAnonymousRateLimiter()
		}
	}
	c.gh = client
	return nil
}

// before prepares a request: it initialises the client and waits for the
// rate limiter.
func (c *Client) before(ctx context.Context) error {
	if err := c.ensureClient(ctx); err != nil {
		return err
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}

	repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		err = c.wrapError(err, "get repo")
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrRepoNotFound, owner, repo)
		}
		return nil, err
	}
	return repository, nil
}

// GetBranch fetches a branch with its head commit.
func (c *Client) GetBranch(ctx context.Context, owner, repo, branch string) (*gh.Branch, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}

	b, resp, err := c.gh.Repositories.GetBranch(ctx, owner, repo, branch, 1)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		err = c.wrapError(err, "get branch")
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
		}
		return nil, err
	}
	return b, nil
}

// ListReleases returns every release of a repository, newest first.
func (c *Client) ListReleases(ctx context.Context, owner, repo string) ([]*gh.RepositoryRelease, error) {
	var all []*gh.RepositoryRelease
	opts := &gh.ListOptions{PerPage: PageSize}

	for {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		if err := c.before(ctx); err != nil {
			return nil, err
		}

		releases, resp, err := c.gh.Repositories.ListReleases(ctx, owner, repo, opts)
		c.updateRateLimitFromResponse(resp)
		if err != nil {
			return nil, c.wrapError(err, "list releases")
		}
		all = append(all, releases...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// ListTags returns every tag of a repository.
func (c *Client) ListTags(ctx context.Context, owner, repo string) ([]*gh.RepositoryTag, error) {
	var all []*gh.RepositoryTag
	opts := &gh.ListOptions{PerPage: PageSize}

	for {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		if err := c.before(ctx); err != nil {
			return nil, err
		}

		tags, resp, err := c.gh.Repositories.ListTags(ctx, owner, repo, opts)
		c.updateRateLimitFromResponse(resp)
		if err != nil {
			return nil, c.wrapError(err, "list tags")
		}
		all = append(all, tags...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// ListDirectory lists a directory of the repository at a ref. The empty
// path is the repository root.
func (c *Client) ListDirectory(ctx context.Context, owner, repo, path, ref string) ([]*gh.RepositoryContent, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	_, dir, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get contents")
	}
	if dir == nil {
		return nil, fmt.Errorf("%q is a file, not a directory", path)
	}
	return dir, nil
}

// GetBlob fetches a blob (file content) by its SHA.
func (c *Client) GetBlob(ctx context.Context, owner, repo, sha string) (*gh.Blob, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}

	blob, resp, err := c.gh.Git.GetBlob(ctx, owner, repo, sha)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get blob")
	}
	return blob, nil
}

// BlobContent fetches a blob and decodes its content.
func (c *Client) BlobContent(ctx context.Context, owner, repo, sha string) ([]byte, error) {
	blob, err := c.GetBlob(ctx, owner, repo, sha)
	if err != nil {
		return nil, err
	}

	if blob.GetEncoding() == "base64" {
		// Remove any whitespace from base64 content
		content := strings.ReplaceAll(blob.GetContent(), "\n", "")
		return base64.StdEncoding.DecodeString(content)
	}

	return []byte(blob.GetContent()), nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Check for rate limit error first: it is not an ErrorResponse.
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
