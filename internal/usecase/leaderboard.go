package usecase

import (
	"sort"

	"github.com/OWASP-BLT/BLT-Hackathon/internal/domain"
)

// DefaultLeaderboardLimit is used when the caller does not configure one.
const DefaultLeaderboardLimit = 10

// RankBy selects the count a leaderboard is ranked on.
type RankBy string

const (
	RankByMerges  RankBy = "merges"
	RankByReviews RankBy = "reviews"
)

// BuildLeaderboard ranks participants descending by the chosen count,
// breaking ties by first-seen order, and truncates to limit. Participants
// with a zero count never appear. It is a pure function of the stats.
func BuildLeaderboard(s *domain.Stats, limit int, rankBy RankBy) []domain.LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	count := func(p *domain.Participant) int {
		if rankBy == RankByReviews {
			return p.ReviewCount
		}
		return p.MergedCount
	}

	ranked := make([]*domain.Participant, 0, len(s.Participants))
	for _, p := range s.OrderedParticipants() {
		if count(p) > 0 {
			ranked = append(ranked, p)
		}
	}

	// Stable keeps first-seen order on equal counts.
	sort.SliceStable(ranked, func(i, j int) bool {
		return count(ranked[i]) > count(ranked[j])
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for i, p := range ranked {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:       i + 1,
			Username:   p.Username,
			AvatarURL:  p.AvatarURL,
			ProfileURL: p.ProfileURL,
			Count:      count(p),
		})
	}
	return entries
}
