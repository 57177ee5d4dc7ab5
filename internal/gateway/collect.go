package gateway

import (
	"context"
	"fmt"

	"github.com/google/go-github/v62/github"
	"golang.org/x/sync/errgroup"

	"github.com/OWASP-BLT/BLT-Hackathon/internal/domain"
)

// GetAllIssues collects in-window issues across every repository
// concurrently. A failing repository contributes whatever it accumulated
// before the failure and is reported in the failure list; it never aborts the
// others. Within a repository the upstream order is preserved; repositories
// are concatenated in input order.
func (g *GitHubGateway) GetAllIssues(ctx context.Context, repos []domain.RepoRef, window domain.TimeWindow) ([]Issue, []CollectFailure) {
	results := make([][]Issue, len(repos))
	errs := make([]error, len(repos))

	var eg errgroup.Group
	eg.SetLimit(g.maxConcurrent)
	for i, repo := range repos {
		eg.Go(func() error {
			results[i], errs[i] = g.FetchIssues(ctx, repo, window)
			return nil
		})
	}
	eg.Wait()

	var all []Issue
	var failures []CollectFailure
	for i, repo := range repos {
		all = append(all, results[i]...)
		if errs[i] != nil {
			g.logger.Printf("Failed to fetch issues for %s: %v\n", repo, errs[i])
			failures = append(failures, CollectFailure{Unit: repo.String(), Err: errs[i]})
		}
	}
	return all, failures
}

// GetAllPullRequests collects in-window merged pull requests across every
// repository concurrently, with the same failure isolation as GetAllIssues.
func (g *GitHubGateway) GetAllPullRequests(ctx context.Context, repos []domain.RepoRef, window domain.TimeWindow) ([]PullRequest, []CollectFailure) {
	results := make([][]PullRequest, len(repos))
	errs := make([]error, len(repos))

	var eg errgroup.Group
	eg.SetLimit(g.maxConcurrent)
	for i, repo := range repos {
		eg.Go(func() error {
			results[i], errs[i] = g.FetchPullRequests(ctx, repo, window)
			return nil
		})
	}
	eg.Wait()

	var all []PullRequest
	var failures []CollectFailure
	for i, repo := range repos {
		all = append(all, results[i]...)
		if errs[i] != nil {
			g.logger.Printf("Failed to fetch pull requests for %s: %v\n", repo, errs[i])
			failures = append(failures, CollectFailure{Unit: repo.String(), Err: errs[i]})
		}
	}
	return all, failures
}

// GetAllReviews collects the reviews submitted in-window on each repository's
// merged pull requests. Reviews are fetched per pull request, one at a time,
// to respect the shared request budget; the merged-PR pages themselves come
// out of the response cache when GetAllPullRequests already fetched them this
// run. A failing pull request is skipped and reported, never aborting the
// rest.
func (g *GitHubGateway) GetAllReviews(ctx context.Context, repos []domain.RepoRef, window domain.TimeWindow) ([]Review, []CollectFailure) {
	var all []Review
	var failures []CollectFailure

	for _, repo := range repos {
		prs, err := g.FetchPullRequests(ctx, repo, window)
		if err != nil {
			g.logger.Printf("Failed to fetch pull requests for %s: %v\n", repo, err)
			failures = append(failures, CollectFailure{Unit: repo.String(), Err: err})
		}

		for _, pr := range prs {
			reviews, err := g.FetchReviews(ctx, repo, pr.GetNumber())
			if err != nil {
				g.logger.Printf("Failed to fetch reviews for %s#%d: %v\n", repo, pr.GetNumber(), err)
				failures = append(failures, CollectFailure{Unit: fmt.Sprintf("%s#%d", repo, pr.GetNumber()), Err: err})
				continue
			}

			for _, review := range reviews {
				if review.SubmittedAt == nil || !window.Contains(review.SubmittedAt.Time) {
					continue
				}
				all = append(all, Review{
					PullRequestReview: review,
					Repository:        repo.String(),
					PullRequestTitle:  pr.GetTitle(),
					PullRequestURL:    pr.GetHTMLURL(),
				})
			}
		}
	}
	return all, failures
}

// GetAllRepositories looks up repository metadata for every configured
// repository, dropping and reporting the ones that fail.
func (g *GitHubGateway) GetAllRepositories(ctx context.Context, repos []domain.RepoRef) ([]*github.Repository, []CollectFailure) {
	results := make([]*github.Repository, len(repos))
	errs := make([]error, len(repos))

	var eg errgroup.Group
	eg.SetLimit(g.maxConcurrent)
	for i, repo := range repos {
		eg.Go(func() error {
			results[i], errs[i] = g.FetchRepository(ctx, repo)
			return nil
		})
	}
	eg.Wait()

	var all []*github.Repository
	var failures []CollectFailure
	for i, repo := range repos {
		if errs[i] != nil {
			g.logger.Printf("Failed to fetch repository %s: %v\n", repo, errs[i])
			failures = append(failures, CollectFailure{Unit: repo.String(), Err: errs[i]})
			continue
		}
		all = append(all, results[i])
	}
	return all, failures
}
