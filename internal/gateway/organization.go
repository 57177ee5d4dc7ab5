package gateway

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/OWASP-BLT/BLT-Hackathon/internal/domain"
)

// orgReposQuery pages through an organization's repositories.
type orgReposQuery struct {
	Organization struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Name  string
				Owner struct {
					Login string
				}
			}
		} `graphql:"repositories(first: 100, after: $cursor)"`
	} `graphql:"organization(login: $login)"`
}

// FetchOrganizationRepos lists every repository of an organization so a whole
// org can be tracked without enumerating repositories by hand. Callers fall
// back to their configured repository list when this fails.
func (g *GitHubGateway) FetchOrganizationRepos(ctx context.Context, org string) ([]domain.RepoRef, error) {
	g.logger.Printf("Fetching repository list for organization %s...\n", org)

	variables := map[string]interface{}{
		"login":  githubv4.String(org),
		"cursor": (*githubv4.String)(nil),
	}

	var repos []domain.RepoRef
	for {
		var q orgReposQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to list repositories for organization %s: %w", org, err)
		}
		for _, node := range q.Organization.Repositories.Nodes {
			repos = append(repos, domain.RepoRef{Owner: node.Owner.Login, Name: node.Name})
		}
		if !q.Organization.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Organization.Repositories.PageInfo.EndCursor)
		g.logger.Println("  Fetching next page of organization repositories...")
	}

	g.logger.Printf("Found %d repositories in organization %s.\n", len(repos), org)
	return repos, nil
}
