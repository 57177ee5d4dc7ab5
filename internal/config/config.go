// Package config loads run configuration from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/OWASP-BLT/BLT-Hackathon/internal/domain"
)

// Config holds everything one collection run needs: the repositories to
// track, the time window, and the optional credential.
type Config struct {
	Token        string
	Organization string
	Repositories []string
	Start        time.Time
	End          time.Time

	LeaderboardLimit int
}

// Load reads configuration from environment variables via getenv.
// Flags may override individual fields afterwards.
func Load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Token:            getenv("GITHUB_TOKEN"),
		Organization:     getenv("HACKATHON_ORG"),
		LeaderboardLimit: 10,
	}

	if repos := getenv("HACKATHON_REPOS"); repos != "" {
		cfg.Repositories = SplitRepos(repos)
	}

	if v := getenv("HACKATHON_START"); v != "" {
		start, err := ParseStart(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HACKATHON_START: %w", err)
		}
		cfg.Start = start
	}
	if v := getenv("HACKATHON_END"); v != "" {
		end, err := ParseEnd(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HACKATHON_END: %w", err)
		}
		cfg.End = end
	}

	if v := getenv("LEADERBOARD_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("invalid LEADERBOARD_LIMIT: %q", v)
		}
		cfg.LeaderboardLimit = limit
	}

	return cfg, nil
}

// SplitRepos splits a comma-separated repository list, trimming whitespace
// and dropping empty items.
func SplitRepos(s string) []string {
	var repos []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			repos = append(repos, part)
		}
	}
	return repos
}

const dateLayout = "2006-01-02"

// ParseStart parses an RFC 3339 timestamp or a plain date; a plain date means
// the start of that day in UTC.
func ParseStart(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 timestamp or YYYY-MM-DD date, got %q", s)
	}
	return t, nil
}

// ParseEnd parses an RFC 3339 timestamp or a plain date; a plain date means
// the whole day, so the window stays inclusive through its last second.
func ParseEnd(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 timestamp or YYYY-MM-DD date, got %q", s)
	}
	return t.Add(23*time.Hour + 59*time.Minute + 59*time.Second), nil
}

// Window validates and returns the configured time window.
func (c *Config) Window() (domain.TimeWindow, error) {
	if c.Start.IsZero() || c.End.IsZero() {
		return domain.TimeWindow{}, fmt.Errorf("both start and end of the time window are required")
	}
	return domain.NewTimeWindow(c.Start, c.End)
}

// RepoRefs parses the configured repository identifiers.
func (c *Config) RepoRefs() ([]domain.RepoRef, error) {
	if len(c.Repositories) == 0 {
		return nil, fmt.Errorf("no repositories configured")
	}
	return domain.ParseRepoRefs(c.Repositories)
}
