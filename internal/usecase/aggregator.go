// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/OWASP-BLT/BLT-Hackathon/internal/domain"
	"github.com/OWASP-BLT/BLT-Hackathon/internal/gateway"
)

// AutomationDetector decides whether an author is a bot or an AI assistant
// and should be excluded from participant attribution. The title is the
// parent pull request's title when one is available, empty otherwise.
type AutomationDetector func(username, title string) bool

// DefaultAutomationDetector applies the substring heuristics: a "[bot]"
// suffix or "bot" anywhere in the login, or a "copilot" marker in the login
// or pull request title.
func DefaultAutomationDetector(username, title string) bool {
	lowerUsername := strings.ToLower(username)
	if strings.Contains(username, "[bot]") || strings.Contains(lowerUsername, "bot") {
		return true
	}
	if strings.Contains(lowerUsername, "copilot") {
		return true
	}
	return strings.Contains(strings.ToLower(title), "copilot")
}

// Result is the best-effort aggregate of one collection run.
type Result struct {
	Stats           *domain.Stats          `json:"stats"`
	IssueSummary    domain.IssueSummary    `json:"issue_summary"`
	ActivitySummary domain.ActivitySummary `json:"activity_summary"`

	// FailedUnits lists the repositories and pull requests whose collection
	// failed and was skipped.
	FailedUnits []gateway.CollectFailure `json:"-"`
}

// Aggregator is the use case for building hackathon statistics.
// It orchestrates the fetching and the reduction of the raw records.
type Aggregator struct {
	fetcher      gateway.Fetcher
	logger       *log.Logger
	isAutomation AutomationDetector
}

// NewAggregator creates a new Aggregator instance with the default
// automation detector.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher:      fetcher,
		logger:       logger,
		isAutomation: DefaultAutomationDetector,
	}
}

// SetAutomationDetector replaces the bot/AI-assistant exclusion policy.
func (a *Aggregator) SetAutomationDetector(detector AutomationDetector) {
	a.isAutomation = detector
}

// Aggregate collects issues, merged pull requests, and reviews for every
// repository within the window, then folds them into the final aggregate.
// The three collection streams run concurrently; individual repository or
// pull request failures are reported in Result.FailedUnits, never aborting
// the run. Aggregation itself is a strictly sequential fold once collection
// has completed.
func (a *Aggregator) Aggregate(ctx context.Context, repos []domain.RepoRef, window domain.TimeWindow) (*Result, error) {
	a.logger.Println("Usecase: Starting data collection...")

	var (
		issues  []gateway.Issue
		prs     []gateway.PullRequest
		reviews []gateway.Review

		issueFailures  []gateway.CollectFailure
		prFailures     []gateway.CollectFailure
		reviewFailures []gateway.CollectFailure
	)

	// The collection streams never fail as a whole; per-unit failures are
	// gathered inside each stream. The group only joins the three.
	var eg errgroup.Group
	eg.Go(func() error {
		issues, issueFailures = a.fetcher.GetAllIssues(ctx, repos, window)
		return nil
	})
	eg.Go(func() error {
		prs, prFailures = a.fetcher.GetAllPullRequests(ctx, repos, window)
		return nil
	})
	eg.Go(func() error {
		reviews, reviewFailures = a.fetcher.GetAllReviews(ctx, repos, window)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	a.logger.Printf("Usecase: Collected %d issues, %d merged PRs, %d reviews.\n", len(issues), len(prs), len(reviews))

	// PR fold runs before review fold so reviewer-only flagging is
	// reproducible.
	result := &Result{}
	result.Stats = FoldPullRequests(prs, window, a.isAutomation)
	result.IssueSummary = FoldIssues(issues, result.Stats)
	FoldReviews(reviews, result.Stats, a.isAutomation)
	result.ActivitySummary = SummarizeActivity(result.Stats.DailyActivity)

	result.FailedUnits = append(result.FailedUnits, issueFailures...)
	result.FailedUnits = append(result.FailedUnits, prFailures...)
	result.FailedUnits = append(result.FailedUnits, reviewFailures...)

	a.logger.Println("Usecase: Aggregation complete.")
	return result, nil
}

// FoldPullRequests reduces merged pull requests into a fresh Stats: totals,
// participant records, daily activity buckets, and per-repository counters.
// Automation authors are excluded from participant attribution but still
// counted in the repository and daily totals.
func FoldPullRequests(prs []gateway.PullRequest, window domain.TimeWindow, isAutomation AutomationDetector) *domain.Stats {
	s := domain.NewStats(window)

	for _, pr := range prs {
		if pr.MergedAt == nil {
			continue
		}
		mergedAt := pr.MergedAt.Time
		if !window.Contains(mergedAt) {
			continue
		}

		s.TotalPRs++
		s.MergedPRs++

		username := pr.GetUser().GetLogin()
		title := pr.GetTitle()
		if !isAutomation(username, title) {
			p := s.GetOrCreateParticipant(username, pr.GetUser().GetAvatarURL(), pr.GetUser().GetHTMLURL())
			p.MergedPRs = append(p.MergedPRs, domain.PullRequestRef{
				Number:     pr.GetNumber(),
				Title:      title,
				URL:        pr.GetHTMLURL(),
				Repository: pr.Repository,
				MergedAt:   mergedAt,
			})
			p.MergedCount++
		}

		if day, ok := s.DailyActivity[mergedAt.UTC().Format(domain.DateLayout)]; ok {
			day.Total++
			day.Merged++
		}

		repoStats := s.GetOrCreateRepoStats(pr.Repository)
		repoStats.TotalPRs++
		repoStats.MergedPRs++
	}
	return s
}

// FoldIssues adds per-repository issue counters to the stats and returns the
// overall issue summary. Issues are not attributed to a reporter.
func FoldIssues(issues []gateway.Issue, s *domain.Stats) domain.IssueSummary {
	var summary domain.IssueSummary
	for _, issue := range issues {
		repoStats := s.GetOrCreateRepoStats(issue.Repository)
		repoStats.TotalIssues++
		summary.TotalIssues++
		if issue.GetState() == "closed" {
			repoStats.ClosedIssues++
			summary.ClosedIssues++
		}
	}
	return summary
}

// FoldReviews attributes non-dismissed reviews to participants. A user not
// seen by the PR fold is created here and marked reviewer-only.
func FoldReviews(reviews []gateway.Review, s *domain.Stats, isAutomation AutomationDetector) {
	for _, review := range reviews {
		username := review.GetUser().GetLogin()
		if isAutomation(username, "") {
			continue
		}
		if strings.EqualFold(review.GetState(), "dismissed") {
			continue
		}

		_, existed := s.Participants[username]
		p := s.GetOrCreateParticipant(username, review.GetUser().GetAvatarURL(), review.GetUser().GetHTMLURL())
		if !existed {
			p.ReviewerOnly = true
		}

		url := review.PullRequestURL
		if url == "" {
			url = review.GetHTMLURL()
		}
		p.Reviews = append(p.Reviews, domain.ReviewRef{
			State:            review.GetState(),
			URL:              url,
			Repository:       review.Repository,
			SubmittedAt:      review.GetSubmittedAt().Time,
			PullRequestTitle: review.PullRequestTitle,
		})
		p.ReviewCount++
	}
}

// SummarizeActivity computes per-day merge statistics over the daily buckets.
// The peak date is the earliest day carrying the maximum merge count.
func SummarizeActivity(daily map[string]*domain.DayActivity) domain.ActivitySummary {
	if len(daily) == 0 {
		return domain.ActivitySummary{}
	}

	dates := make([]string, 0, len(daily))
	for date := range daily {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	merged := make([]float64, 0, len(dates))
	summary := domain.ActivitySummary{}
	for _, date := range dates {
		count := daily[date].Merged
		merged = append(merged, float64(count))
		if count > summary.PeakMerged {
			summary.PeakMerged = count
			summary.PeakDate = date
		}
	}

	// Errors only occur on empty input, which is excluded above.
	summary.MeanMergedPerDay, _ = stats.Mean(merged)
	summary.MedianMergedPerDay, _ = stats.Median(merged)
	return summary
}
