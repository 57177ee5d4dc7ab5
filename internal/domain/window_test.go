package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestNewTimeWindow(t *testing.T) {
	start := mustParse(t, "2025-05-11T00:00:00Z")
	end := mustParse(t, "2025-06-01T23:59:59Z")

	t.Run("valid window", func(t *testing.T) {
		w, err := NewTimeWindow(start, end)
		require.NoError(t, err)
		assert.Equal(t, start, w.Start)
		assert.Equal(t, end, w.End)
	})

	t.Run("start after end is rejected", func(t *testing.T) {
		_, err := NewTimeWindow(end, start)
		assert.Error(t, err)
	})

	t.Run("zero-length window is allowed", func(t *testing.T) {
		_, err := NewTimeWindow(start, start)
		assert.NoError(t, err)
	})
}

func TestTimeWindow_Contains(t *testing.T) {
	w := TimeWindow{
		Start: mustParse(t, "2025-05-11T00:00:00Z"),
		End:   mustParse(t, "2025-06-01T23:59:59Z"),
	}

	testCases := []struct {
		name     string
		at       string
		expected bool
	}{
		{name: "inside", at: "2025-05-12T10:00:00Z", expected: true},
		{name: "exactly at start", at: "2025-05-11T00:00:00Z", expected: true},
		{name: "exactly at end", at: "2025-06-01T23:59:59Z", expected: true},
		{name: "just before start", at: "2025-05-10T23:59:59Z", expected: false},
		{name: "just after end", at: "2025-06-02T00:00:00Z", expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, w.Contains(mustParse(t, tc.at)))
		})
	}
}

func TestTimeWindow_Dates(t *testing.T) {
	testCases := []struct {
		name     string
		start    string
		end      string
		expected []string
	}{
		{
			name:     "multi-day window has one entry per date with no gaps",
			start:    "2025-05-30T00:00:00Z",
			end:      "2025-06-02T23:59:59Z",
			expected: []string{"2025-05-30", "2025-05-31", "2025-06-01", "2025-06-02"},
		},
		{
			name:     "single-day window",
			start:    "2025-05-11T00:00:00Z",
			end:      "2025-05-11T23:59:59Z",
			expected: []string{"2025-05-11"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := TimeWindow{Start: mustParse(t, tc.start), End: mustParse(t, tc.end)}
			assert.Equal(t, tc.expected, w.Dates())
		})
	}
}

func TestParseRepoRef(t *testing.T) {
	testCases := []struct {
		name        string
		identifier  string
		expected    RepoRef
		expectError bool
	}{
		{name: "valid", identifier: "OWASP-BLT/BLT", expected: RepoRef{Owner: "OWASP-BLT", Name: "BLT"}},
		{name: "missing separator", identifier: "OWASP-BLT", expectError: true},
		{name: "too many separators", identifier: "a/b/c", expectError: true},
		{name: "empty owner", identifier: "/repo", expectError: true},
		{name: "empty name", identifier: "owner/", expectError: true},
		{name: "empty string", identifier: "", expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := ParseRepoRef(tc.identifier)
			if tc.expectError {
				var malformed *MalformedIdentifierError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, tc.identifier, malformed.Identifier)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ref)
			assert.Equal(t, tc.identifier, ref.String())
		})
	}
}

func TestNewStats_PrepopulatesDailyActivity(t *testing.T) {
	w := TimeWindow{
		Start: mustParse(t, "2025-05-11T00:00:00Z"),
		End:   mustParse(t, "2025-05-14T23:59:59Z"),
	}

	s := NewStats(w)

	require.Len(t, s.DailyActivity, 4)
	for _, date := range []string{"2025-05-11", "2025-05-12", "2025-05-13", "2025-05-14"} {
		day, ok := s.DailyActivity[date]
		require.True(t, ok, "missing bucket for %s", date)
		assert.Zero(t, day.Total)
		assert.Zero(t, day.Merged)
	}
}

func TestStats_GetOrCreateParticipant(t *testing.T) {
	s := NewStats(TimeWindow{Start: mustParse(t, "2025-05-11T00:00:00Z"), End: mustParse(t, "2025-05-11T23:59:59Z")})

	alice := s.GetOrCreateParticipant("alice", "https://example.test/alice.png", "https://example.test/alice")
	again := s.GetOrCreateParticipant("alice", "other", "other")
	bob := s.GetOrCreateParticipant("bob", "", "")

	assert.Same(t, alice, again)
	assert.Equal(t, "https://example.test/alice.png", again.AvatarURL)
	assert.Equal(t, []string{"alice", "bob"}, s.ParticipantOrder)
	assert.Equal(t, []*Participant{alice, bob}, s.OrderedParticipants())
}
