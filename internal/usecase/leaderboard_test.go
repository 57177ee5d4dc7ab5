package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OWASP-BLT/BLT-Hackathon/internal/domain"
)

type participantCounts struct {
	username string
	merged   int
	reviews  int
}

func leaderboardStats(t *testing.T, counts ...participantCounts) *domain.Stats {
	t.Helper()
	s := domain.NewStats(testWindow(t))
	for _, c := range counts {
		p := s.GetOrCreateParticipant(c.username, "", "")
		p.MergedCount = c.merged
		p.ReviewCount = c.reviews
	}
	return s
}

func usernames(entries []domain.LeaderboardEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Username)
	}
	return names
}

func TestBuildLeaderboard(t *testing.T) {
	t.Run("sorted descending, ties broken by first-seen order", func(t *testing.T) {
		s := leaderboardStats(t,
			participantCounts{username: "alice", merged: 2},
			participantCounts{username: "bob", merged: 5},
			participantCounts{username: "carol", merged: 2},
		)

		entries := BuildLeaderboard(s, 10, RankByMerges)

		assert.Equal(t, []string{"bob", "alice", "carol"}, usernames(entries))
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, 5, entries[0].Count)
		assert.Equal(t, 3, entries[2].Rank)
	})

	t.Run("zero counts never appear", func(t *testing.T) {
		s := leaderboardStats(t,
			participantCounts{username: "alice", merged: 1},
			participantCounts{username: "reviewer-only", reviews: 3},
		)

		entries := BuildLeaderboard(s, 10, RankByMerges)

		assert.Equal(t, []string{"alice"}, usernames(entries))
	})

	t.Run("truncates to limit", func(t *testing.T) {
		s := leaderboardStats(t,
			participantCounts{username: "alice", merged: 3},
			participantCounts{username: "bob", merged: 2},
			participantCounts{username: "carol", merged: 1},
		)

		entries := BuildLeaderboard(s, 2, RankByMerges)

		require.Len(t, entries, 2)
		assert.Equal(t, []string{"alice", "bob"}, usernames(entries))
	})

	t.Run("review ranking uses review counts", func(t *testing.T) {
		s := leaderboardStats(t,
			participantCounts{username: "alice", merged: 5, reviews: 1},
			participantCounts{username: "eve", reviews: 4},
		)

		entries := BuildLeaderboard(s, 10, RankByReviews)

		assert.Equal(t, []string{"eve", "alice"}, usernames(entries))
		assert.Equal(t, 4, entries[0].Count)
	})

	t.Run("zero limit falls back to the default", func(t *testing.T) {
		counts := make([]participantCounts, 0, 15)
		for i := 0; i < 15; i++ {
			counts = append(counts, participantCounts{username: string(rune('a'+i)), merged: i + 1})
		}
		s := leaderboardStats(t, counts...)

		entries := BuildLeaderboard(s, 0, RankByMerges)

		assert.Len(t, entries, DefaultLeaderboardLimit)
	})

	t.Run("empty stats yields an empty leaderboard", func(t *testing.T) {
		s := domain.NewStats(testWindow(t))
		assert.Empty(t, BuildLeaderboard(s, 10, RankByMerges))
	})
}
