// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/OWASP-BLT/BLT-Hackathon/internal/config"
	"github.com/OWASP-BLT/BLT-Hackathon/internal/domain"
	"github.com/OWASP-BLT/BLT-Hackathon/internal/gateway"
	"github.com/OWASP-BLT/BLT-Hackathon/internal/usecase"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Collects hackathon activity and outputs stats and leaderboards as JSON",
	Long: `Collects issues, merged pull requests, and reviews for the configured
repositories within the hackathon time window, aggregates them into participant
and repository statistics, and outputs the result with ranked leaderboards in
JSON format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		// A .env file is optional; a missing one is not an error.
		_ = godotenv.Load()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}
		warn := pterm.Warning.WithWriter(os.Stderr)

		cfg, err := config.Load(os.Getenv)
		if err != nil {
			return err
		}

		// Flags override the environment.
		if reposFlag, _ := cmd.Flags().GetString("repos"); reposFlag != "" {
			cfg.Repositories = config.SplitRepos(reposFlag)
		}
		if org, _ := cmd.Flags().GetString("org"); org != "" {
			cfg.Organization = org
		}
		if fromStr, _ := cmd.Flags().GetString("from"); fromStr != "" {
			start, err := config.ParseStart(fromStr)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			cfg.Start = start
		}
		if toStr, _ := cmd.Flags().GetString("to"); toStr != "" {
			end, err := config.ParseEnd(toStr)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
			cfg.End = end
		}
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
			cfg.LeaderboardLimit = limit
		}

		window, err := cfg.Window()
		if err != nil {
			return err
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}

		repos, err := resolveRepos(ctx, githubGateway, cfg, warn)
		if err != nil {
			return err
		}

		aggregator := usecase.NewAggregator(githubGateway, logger)
		result, err := aggregator.Aggregate(ctx, repos, window)
		if err != nil {
			return fmt.Errorf("failed to aggregate stats: %w", err)
		}

		for _, failure := range result.FailedUnits {
			warn.Printfln("Skipped %s", failure.String())
		}

		// Repository metadata rides along for the display layer; lookup
		// failures only cost the metadata, never the stats.
		repositories, repoFailures := githubGateway.GetAllRepositories(ctx, repos)
		for _, failure := range repoFailures {
			warn.Printfln("No metadata for %s", failure.String())
		}

		out := struct {
			*usecase.Result
			Leaderboard       []domain.LeaderboardEntry `json:"leaderboard"`
			ReviewLeaderboard []domain.LeaderboardEntry `json:"review_leaderboard"`
			Repositories      []repositoryInfo          `json:"repositories,omitempty"`
			FailedUnits       []string                  `json:"failed_units,omitempty"`
		}{
			Result:            result,
			Leaderboard:       usecase.BuildLeaderboard(result.Stats, cfg.LeaderboardLimit, usecase.RankByMerges),
			ReviewLeaderboard: usecase.BuildLeaderboard(result.Stats, cfg.LeaderboardLimit, usecase.RankByReviews),
		}
		for _, repository := range repositories {
			out.Repositories = append(out.Repositories, repositoryInfo{
				FullName:    repository.GetFullName(),
				Description: repository.GetDescription(),
				URL:         repository.GetHTMLURL(),
				Stars:       repository.GetStargazersCount(),
			})
		}
		for _, failure := range result.FailedUnits {
			out.FailedUnits = append(out.FailedUnits, failure.String())
		}

		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}

		// Print the final JSON to standard output.
		fmt.Println(string(jsonData))
		return nil
	},
}

// repositoryInfo is the subset of repository metadata included in the output.
type repositoryInfo struct {
	FullName    string `json:"full_name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Stars       int    `json:"stars"`
}

// resolveRepos returns the repositories to track: the organization's full
// repository list when one is configured, falling back to the configured
// list if the organization lookup fails.
func resolveRepos(ctx context.Context, fetcher gateway.Fetcher, cfg *config.Config, warn *pterm.PrefixPrinter) ([]domain.RepoRef, error) {
	if cfg.Organization != "" {
		repos, err := fetcher.FetchOrganizationRepos(ctx, cfg.Organization)
		if err == nil {
			return repos, nil
		}
		warn.Printfln("Organization %s lookup failed (%v), falling back to configured repositories", cfg.Organization, err)
	}
	return cfg.RepoRefs()
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
	leaderboardCmd.Flags().StringP("repos", "r", "", "Comma-separated owner/name repository list")
	leaderboardCmd.Flags().StringP("org", "o", "", "GitHub organization whose repositories are all tracked")
	leaderboardCmd.Flags().String("from", "", "Window start (RFC 3339 or YYYY-MM-DD)")
	leaderboardCmd.Flags().String("to", "", "Window end (RFC 3339 or YYYY-MM-DD, inclusive)")
	leaderboardCmd.Flags().IntP("limit", "l", 0, "Maximum leaderboard entries (default 10)")
}
