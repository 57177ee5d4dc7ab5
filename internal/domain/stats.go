package domain

import "time"

// PullRequestRef is the slice of a pull request a Participant keeps for display.
type PullRequestRef struct {
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	URL        string    `json:"html_url"`
	Repository string    `json:"repository"`
	MergedAt   time.Time `json:"merged_at"`
}

// ReviewRef is a review attributed to a Participant, tagged with the parent
// pull request's title and URL for display.
type ReviewRef struct {
	State            string    `json:"state"`
	URL              string    `json:"html_url"`
	Repository       string    `json:"repository"`
	SubmittedAt      time.Time `json:"submitted_at"`
	PullRequestTitle string    `json:"pull_request_title"`
}

// Participant holds one contributor's activity across the whole run.
// Identity is the upstream login, case-sensitive. Created lazily on the first
// contributing event and never deleted within a run.
type Participant struct {
	Username     string           `json:"username"`
	AvatarURL    string           `json:"avatar_url"`
	ProfileURL   string           `json:"profile_url"`
	MergedPRs    []PullRequestRef `json:"prs"`
	MergedCount  int              `json:"merged_count"`
	Reviews      []ReviewRef      `json:"reviews"`
	ReviewCount  int              `json:"review_count"`
	ReviewerOnly bool             `json:"is_reviewer_only"`
}

// RepoStats holds the activity counts for a single repository.
type RepoStats struct {
	TotalPRs     int `json:"total"`
	MergedPRs    int `json:"merged"`
	TotalIssues  int `json:"issues"`
	ClosedIssues int `json:"closed_issues"`
}

// DayActivity is one daily bucket of the activity histogram.
type DayActivity struct {
	Total  int `json:"total"`
	Merged int `json:"merged"`
}

// IssueSummary is the aggregate returned by the issue fold.
type IssueSummary struct {
	TotalIssues  int `json:"total_issues"`
	ClosedIssues int `json:"closed_issues"`
}

// ActivitySummary condenses the daily histogram into per-day merge statistics.
type ActivitySummary struct {
	MeanMergedPerDay   float64 `json:"mean_merged_per_day"`
	MedianMergedPerDay float64 `json:"median_merged_per_day"`
	PeakMerged         int     `json:"peak_merged"`
	PeakDate           string  `json:"peak_date,omitempty"`
}

// Stats is the full aggregate handed to the display collaborator.
type Stats struct {
	TotalPRs      int                     `json:"total_prs"`
	MergedPRs     int                     `json:"merged_prs"`
	Participants  map[string]*Participant `json:"participants"`
	DailyActivity map[string]*DayActivity `json:"daily_activity"`
	RepoStats     map[string]*RepoStats   `json:"repo_stats"`

	// ParticipantOrder records usernames in first-seen order so leaderboard
	// ties can be broken deterministically.
	ParticipantOrder []string `json:"-"`
}

// NewStats returns a Stats with every daily bucket in the window
// pre-populated with zero counts, so the date sequence has no gaps even when
// a day saw no activity.
func NewStats(window TimeWindow) *Stats {
	s := &Stats{
		Participants:  make(map[string]*Participant),
		DailyActivity: make(map[string]*DayActivity),
		RepoStats:     make(map[string]*RepoStats),
	}
	for _, date := range window.Dates() {
		s.DailyActivity[date] = &DayActivity{}
	}
	return s
}

// GetOrCreateParticipant returns the Participant for username, creating it on
// first reference and recording the insertion order.
func (s *Stats) GetOrCreateParticipant(username, avatarURL, profileURL string) *Participant {
	if p, ok := s.Participants[username]; ok {
		return p
	}
	p := &Participant{
		Username:   username,
		AvatarURL:  avatarURL,
		ProfileURL: profileURL,
	}
	s.Participants[username] = p
	s.ParticipantOrder = append(s.ParticipantOrder, username)
	return p
}

// GetOrCreateRepoStats returns the RepoStats bucket for a repository,
// creating it on first reference.
func (s *Stats) GetOrCreateRepoStats(repository string) *RepoStats {
	if rs, ok := s.RepoStats[repository]; ok {
		return rs
	}
	rs := &RepoStats{}
	s.RepoStats[repository] = rs
	return rs
}

// OrderedParticipants returns participants in first-seen order.
func (s *Stats) OrderedParticipants() []*Participant {
	out := make([]*Participant, 0, len(s.ParticipantOrder))
	for _, username := range s.ParticipantOrder {
		out = append(out, s.Participants[username])
	}
	return out
}

// LeaderboardEntry is a ranked projection of a Participant.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	Username   string `json:"username"`
	AvatarURL  string `json:"avatar_url"`
	ProfileURL string `json:"profile_url"`
	Count      int    `json:"count"`
}
