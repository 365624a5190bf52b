// Package github implements the hosting-service boundary: event payload
// decoding, pull request metadata and diff retrieval, and review creation.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/rs/zerolog/log"

	"github.com/pullscout/pkg/models"
)

// Client wraps the GitHub REST API for the operations the review run
// needs. The underlying transport sleeps through secondary rate limits.
type Client struct {
	gh *gh.Client
}

// NewClient creates a GitHub client authenticated with a personal access
// token, with rate limit middleware under the go-github client.
func NewClient(token string) *Client {
	rateLimited := github_ratelimit.NewClient(nil)
	return &Client{gh: gh.NewClient(rateLimited).WithAuthToken(token)}
}

// NewClientWithHTTPClient creates a Client against a custom base URL.
// Intended for tests with an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// PullRequestDetails fetches current title and description for the pull
// request, preferring API state over the (possibly stale) event payload.
func (c *Client) PullRequestDetails(ctx context.Context, pr models.PullRequest) (models.PullRequest, error) {
	full, _, err := c.gh.PullRequests.Get(ctx, pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		return models.PullRequest{}, fmt.Errorf("fetching %s#%d: %w", pr.FullName(), pr.Number, err)
	}

	pr.Title = full.GetTitle()
	pr.Description = full.GetBody()
	return pr, nil
}

// PullRequestDiff retrieves the whole pull request rendered as a unified
// diff. Used for "opened" events.
func (c *Client) PullRequestDiff(ctx context.Context, pr models.PullRequest) (string, error) {
	raw, _, err := c.gh.PullRequests.GetRaw(ctx, pr.Owner, pr.Repo, pr.Number,
		gh.RawOptions{Type: gh.Diff})
	if err != nil {
		return "", fmt.Errorf("fetching diff for %s#%d: %w", pr.FullName(), pr.Number, err)
	}
	return raw, nil
}

// CompareDiff retrieves the unified diff between two commits. Used for
// "synchronize" events carrying before/after identifiers.
func (c *Client) CompareDiff(ctx context.Context, pr models.PullRequest, base, head string) (string, error) {
	raw, _, err := c.gh.Repositories.CompareCommitsRaw(ctx, pr.Owner, pr.Repo, base, head,
		gh.RawOptions{Type: gh.Diff})
	if err != nil {
		return "", fmt.Errorf("comparing %s...%s in %s: %w", base, head, pr.FullName(), err)
	}
	return raw, nil
}

// CreateReview submits one batch of comments as a single comment-only
// review on the pull request.
func (c *Client) CreateReview(ctx context.Context, batch models.ReviewBatch) error {
	pr := batch.PullRequest

	comments := make([]*gh.DraftReviewComment, 0, len(batch.Comments))
	for _, comment := range batch.Comments {
		comments = append(comments, &gh.DraftReviewComment{
			Path: gh.Ptr(comment.Path),
			Line: gh.Ptr(comment.Line),
			Side: gh.Ptr("RIGHT"),
			Body: gh.Ptr(comment.Body),
		})
	}

	review := &gh.PullRequestReviewRequest{
		Event:    gh.Ptr(batch.Event),
		Comments: comments,
	}

	_, resp, err := c.gh.PullRequests.CreateReview(ctx, pr.Owner, pr.Repo, pr.Number, review)
	if err != nil {
		return fmt.Errorf("creating review for %s#%d: %w", pr.FullName(), pr.Number, err)
	}

	if resp != nil {
		log.Debug().
			Int("remaining", resp.Rate.Remaining).
			Int("comments", len(comments)).
			Msg("Review created")
	}
	return nil
}
