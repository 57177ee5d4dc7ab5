package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	env := map[string]string{
		"GITHUB_TOKEN":      "ghp_example",
		"HACKATHON_ORG":     "OWASP-BLT",
		"HACKATHON_REPOS":   "OWASP-BLT/BLT, OWASP-BLT/BLT-Action",
		"HACKATHON_START":   "2025-05-11",
		"HACKATHON_END":     "2025-06-01",
		"LEADERBOARD_LIMIT": "25",
	}
	getenv := func(key string) string { return env[key] }

	cfg, err := Load(getenv)
	require.NoError(t, err)

	assert.Equal(t, "ghp_example", cfg.Token)
	assert.Equal(t, "OWASP-BLT", cfg.Organization)
	assert.Equal(t, []string{"OWASP-BLT/BLT", "OWASP-BLT/BLT-Action"}, cfg.Repositories)
	assert.Equal(t, 25, cfg.LeaderboardLimit)

	window, err := cfg.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC), window.End)

	refs, err := cfg.RepoRefs()
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "OWASP-BLT/BLT", refs[0].String())
}

func TestLoad_InvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad start", env: map[string]string{"HACKATHON_START": "11/05/2025"}},
		{name: "bad end", env: map[string]string{"HACKATHON_END": "soon"}},
		{name: "bad limit", env: map[string]string{"LEADERBOARD_LIMIT": "-3"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(func(key string) string { return tc.env[key] })
			assert.Error(t, err)
		})
	}
}

func TestParseStartAndEnd(t *testing.T) {
	start, err := ParseStart("2025-05-11T12:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 11, 12, 30, 0, 0, time.UTC), start)

	start, err = ParseStart("2025-05-11")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC), start)

	// A plain end date covers the whole day.
	end, err := ParseEnd("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC), end)
}

func TestSplitRepos(t *testing.T) {
	assert.Equal(t, []string{"a/b", "c/d"}, SplitRepos("a/b, c/d"))
	assert.Equal(t, []string{"a/b"}, SplitRepos(" a/b ,, "))
	assert.Nil(t, SplitRepos(""))
}

func TestConfig_WindowRequiresBothEnds(t *testing.T) {
	cfg := &Config{Start: time.Now()}
	_, err := cfg.Window()
	assert.Error(t, err)
}
