// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/OWASP-BLT/BLT-Hackathon/internal/domain"
)

const (
	// perPage is the fixed page size for list endpoints.
	perPage = 100
	// maxPages caps how many pages are scanned per repository. This bounds
	// worst-case latency and quota usage on very large repositories.
	maxPages = 20
	// requestTimeout bounds a single round-trip; expiry surfaces as a
	// NetworkError and is isolated like any other per-repository failure.
	requestTimeout = 30 * time.Second
)

// Issue is a raw upstream issue record tagged with the repository it was
// collected from.
type Issue struct {
	*github.Issue
	Repository string `json:"repository"`
}

// PullRequest is a raw upstream pull request record tagged with its repository.
type PullRequest struct {
	*github.PullRequest
	Repository string `json:"repository"`
}

// Review is a raw upstream review record tagged with its repository and the
// parent pull request's title and URL for display.
type Review struct {
	*github.PullRequestReview
	Repository       string `json:"repository"`
	PullRequestTitle string `json:"pull_request_title"`
	PullRequestURL   string `json:"pull_request_url"`
}

// CollectFailure records one unit (a repository, or a repository#number pull
// request) whose collection failed and was skipped.
type CollectFailure struct {
	Unit string
	Err  error
}

func (f CollectFailure) String() string {
	return fmt.Sprintf("%s: %v", f.Unit, f.Err)
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchIssues(ctx context.Context, repo domain.RepoRef, window domain.TimeWindow) ([]Issue, error)
	FetchPullRequests(ctx context.Context, repo domain.RepoRef, window domain.TimeWindow) ([]PullRequest, error)
	FetchReviews(ctx context.Context, repo domain.RepoRef, number int) ([]*github.PullRequestReview, error)
	FetchRepository(ctx context.Context, repo domain.RepoRef) (*github.Repository, error)
	FetchUser(ctx context.Context, login string) (*github.User, error)
	FetchOrganizationRepos(ctx context.Context, org string) ([]domain.RepoRef, error)
	GetAllIssues(ctx context.Context, repos []domain.RepoRef, window domain.TimeWindow) ([]Issue, []CollectFailure)
	GetAllPullRequests(ctx context.Context, repos []domain.RepoRef, window domain.TimeWindow) ([]PullRequest, []CollectFailure)
	GetAllReviews(ctx context.Context, repos []domain.RepoRef, window domain.TimeWindow) ([]Review, []CollectFailure)
	GetAllRepositories(ctx context.Context, repos []domain.RepoRef) ([]*github.Repository, []CollectFailure)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	cache         *ResponseCache
	logger        *log.Logger

	// maxConcurrent bounds in-flight per-repository collections.
	maxConcurrent int
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The token is optional; without one, requests go out unauthenticated.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	if token != "" && !validTokenFormat(token) {
		logger.Println("Warning: GitHub token format may be invalid. Personal access tokens should start with \"ghp_\"")
	}

	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		}
	}

	// The cache sits outermost so a fresh hit skips the whole stack.
	cache := NewResponseCache(DefaultCacheTTL)
	httpClient := &http.Client{
		Transport: &cachingTransport{base: transport, cache: cache},
		Timeout:   requestTimeout,
	}

	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		cache:         cache,
		logger:        logger,
		maxConcurrent: 4,
	}, nil
}

// validTokenFormat checks the known personal access token prefixes. The check
// is advisory only; an unexpected prefix never blocks a request.
func validTokenFormat(token string) bool {
	return strings.HasPrefix(token, "ghp_") ||
		strings.HasPrefix(token, "github_pat_") ||
		strings.HasPrefix(token, "gho_")
}

// apiError maps a go-github failure onto the domain error taxonomy.
func apiError(url string, resp *github.Response, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &domain.UpstreamError{StatusCode: rateErr.Response.StatusCode}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &domain.UpstreamError{StatusCode: abuseErr.Response.StatusCode}
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		return &domain.UpstreamError{StatusCode: errResp.Response.StatusCode}
	}
	if resp != nil && resp.Response != nil && resp.StatusCode >= 400 {
		return &domain.UpstreamError{StatusCode: resp.StatusCode}
	}
	return &domain.NetworkError{URL: url, Err: err}
}

// FetchIssues collects the issues of one repository that were created or
// closed within the window, walking pages sorted by last update descending.
// PR-shaped issues are excluded. Scanning stops early once a record predates
// the window with no in-window closure; since later pages are assumed older
// still, this is a best-effort bound, not a completeness guarantee.
//
// On a page failure the issues accumulated so far are returned together with
// the error, so callers can keep partial results.
func (g *GitHubGateway) FetchIssues(ctx context.Context, repo domain.RepoRef, window domain.TimeWindow) ([]Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var all []Issue
	for page := 1; page <= maxPages; page++ {
		opts.Page = page
		issues, resp, err := g.restClient.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return all, fmt.Errorf("failed to list issues for %s: %w", repo, apiError(repo.String(), resp, err))
		}
		if len(issues) == 0 {
			break
		}

		stale := false
		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}

			createdAt := issue.GetCreatedAt().Time
			var closedAt *time.Time
			if issue.ClosedAt != nil {
				t := issue.ClosedAt.Time
				closedAt = &t
			}

			relevantByCreation := window.Contains(createdAt)
			relevantByClosure := closedAt != nil && window.Contains(*closedAt)
			if relevantByCreation || relevantByClosure {
				all = append(all, Issue{Issue: issue, Repository: repo.String()})
			}

			// Too old; later pages are assumed older still.
			if createdAt.Before(window.Start) && (closedAt == nil || closedAt.Before(window.Start)) {
				stale = true
				break
			}
		}
		if stale || resp.NextPage == 0 {
			break
		}
		g.logger.Printf("  Fetching next page of issues for %s...\n", repo)
	}
	return all, nil
}

// FetchPullRequests collects the pull requests of one repository that were
// merged within the window. Created-but-unmerged and merged-outside-window
// pull requests are excluded. The same staleness early-termination rule as
// FetchIssues applies, keyed on creation vs. merge date.
func (g *GitHubGateway) FetchPullRequests(ctx context.Context, repo domain.RepoRef, window domain.TimeWindow) ([]PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var all []PullRequest
	for page := 1; page <= maxPages; page++ {
		opts.Page = page
		prs, resp, err := g.restClient.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return all, fmt.Errorf("failed to list pull requests for %s: %w", repo, apiError(repo.String(), resp, err))
		}
		if len(prs) == 0 {
			break
		}

		stale := false
		for _, pr := range prs {
			createdAt := pr.GetCreatedAt().Time
			var mergedAt *time.Time
			if pr.MergedAt != nil {
				t := pr.MergedAt.Time
				mergedAt = &t
			}

			if mergedAt != nil && window.Contains(*mergedAt) {
				all = append(all, PullRequest{PullRequest: pr, Repository: repo.String()})
			}

			if createdAt.Before(window.Start) && (mergedAt == nil || mergedAt.Before(window.Start)) {
				stale = true
				break
			}
		}
		if stale || resp.NextPage == 0 {
			break
		}
		g.logger.Printf("  Fetching next page of pull requests for %s...\n", repo)
	}
	return all, nil
}

// FetchReviews returns the reviews of a single pull request.
func (g *GitHubGateway) FetchReviews(ctx context.Context, repo domain.RepoRef, number int) ([]*github.PullRequestReview, error) {
	opts := &github.ListOptions{PerPage: perPage}
	reviews, resp, err := g.restClient.PullRequests.ListReviews(ctx, repo.Owner, repo.Name, number, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for %s#%d: %w", repo, number, apiError(repo.String(), resp, err))
	}
	return reviews, nil
}

// FetchRepository looks up a single repository.
func (g *GitHubGateway) FetchRepository(ctx context.Context, repo domain.RepoRef) (*github.Repository, error) {
	repository, resp, err := g.restClient.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s: %w", repo, apiError(repo.String(), resp, err))
	}
	return repository, nil
}

// FetchUser looks up a single user.
func (g *GitHubGateway) FetchUser(ctx context.Context, login string) (*github.User, error) {
	user, resp, err := g.restClient.Users.Get(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", login, apiError(login, resp, err))
	}
	return user, nil
}
