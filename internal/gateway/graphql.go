package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/drift-issues/internal/domain"
)

// searchHit holds the fields shared by issues and pull requests in a search result.
type searchHit struct {
	Number    int
	Title     string
	State     string
	CreatedAt githubv4.DateTime
	URL       string
	Author    struct {
		Login string
	}
	Labels struct {
		Nodes []struct {
			Name string
		}
	} `graphql:"labels(first: 20)"`
}

// driftIssuesQuery mirrors the REST search: one page of up to 100 hits.
// The issue search also matches pull requests, which REST reports too.
type driftIssuesQuery struct {
	Search struct {
		IssueCount int
		Nodes      []struct {
			Typename    string    `graphql:"__typename"`
			Issue       searchHit `graphql:"... on Issue"`
			PullRequest searchHit `graphql:"... on PullRequest"`
		}
	} `graphql:"search(query: $query, type: ISSUE, first: 100)"`
}

func (g *GitHubGateway) searchGraphQL(ctx context.Context, repoPath, query string) ([]domain.Issue, error) {
	var q driftIssuesQuery
	variables := map[string]interface{}{"query": githubv4.String(query)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL search: %w", err)
	}

	issues := make([]domain.Issue, 0, len(q.Search.Nodes))
	for _, node := range q.Search.Nodes {
		switch node.Typename {
		case "Issue":
			issues = append(issues, convertSearchHit(node.Issue, repoPath))
		case "PullRequest":
			issues = append(issues, convertSearchHit(node.PullRequest, repoPath))
		}
	}
	if q.Search.IssueCount > len(issues) {
		g.logger.Printf("  %d issues match in %s, only the first %d are reported", q.Search.IssueCount, repoPath, len(issues))
	}
	return issues, nil
}

func convertSearchHit(hit searchHit, repoPath string) domain.Issue {
	labels := make([]string, 0, len(hit.Labels.Nodes))
	for _, label := range hit.Labels.Nodes {
		labels = append(labels, label.Name)
	}
	return domain.Issue{
		Number: hit.Number,
		Title:  hit.Title,
		// GraphQL reports enum values (OPEN), REST reports lowercase.
		State:     strings.ToLower(hit.State),
		CreatedAt: hit.CreatedAt.Time,
		Author:    hit.Author.Login,
		Labels:    labels,
		URL:       hit.URL,
		RepoPath:  repoPath,
	}
}
