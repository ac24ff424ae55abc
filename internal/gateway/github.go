// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/drift-issues/internal/domain"
)

const (
	repoPageSize   = 100
	searchPageSize = 100
)

// API selects the backend used for the issue search.
type API string

const (
	APIRest    API = "rest"
	APIGraphQL API = "graphql"
)

// ParseAPI validates a backend name given on the command line.
func ParseAPI(s string) (API, error) {
	switch api := API(strings.ToLower(strings.TrimSpace(s))); api {
	case APIRest, APIGraphQL:
		return api, nil
	default:
		return "", fmt.Errorf("unknown API backend %q (want %q or %q)", s, APIRest, APIGraphQL)
	}
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// ListOrgRepos returns the full name of every repository in the organization.
	ListOrgRepos(ctx context.Context, org string) ([]string, error)
	// SearchDriftIssues returns the open drift issues of one repository created within the window.
	SearchDriftIssues(ctx context.Context, repoPath string, window domain.DateWindow) ([]domain.Issue, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	api           API
	logger        *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// apiBaseURL is the REST root, e.g. https://api.github.com or https://api.ghe.example.com.
func NewGitHubGateway(token, apiBaseURL string, api API, logger *log.Logger) (Fetcher, error) {
	// A zero sleep limit turns secondary rate limits into a single failed attempt instead of a wait.
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(0, func(cbCtx *github_ratelimit.CallbackContext) {
		if cbCtx.SleepUntil != nil {
			logger.Printf("Secondary rate limit hit, not waiting (resets at %s)", cbCtx.SleepUntil.Format("15:04:05"))
			return
		}
		logger.Println("Secondary rate limit hit, not waiting")
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if base := strings.TrimRight(apiBaseURL, "/"); base != "" && base != domain.DefaultAPIBaseURL {
		baseURL, err := url.Parse(base + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", apiBaseURL, err)
		}
		restClient.BaseURL = baseURL
		graphqlClient = githubv4.NewEnterpriseClient(base+"/graphql", httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		api:           api,
		logger:        logger,
	}, nil
}

// ListOrgRepos pages through the organization's repositories until a short or empty page.
func (g *GitHubGateway) ListOrgRepos(ctx context.Context, org string) ([]string, error) {
	g.logger.Printf("Listing repositories of organization %s...", org)
	opts := &github.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: github.ListOptions{PerPage: repoPageSize, Page: 1},
	}
	var names []string
	for {
		repos, _, err := g.restClient.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories of %s: %w", org, err)
		}
		if len(repos) == 0 {
			break
		}
		for _, repo := range repos {
			if name := repo.GetFullName(); name != "" {
				names = append(names, name)
			}
		}
		if len(repos) < repoPageSize {
			break
		}
		opts.Page++
		g.logger.Printf("  Fetching page %d of repositories...", opts.Page)
	}
	g.logger.Printf("Completed listing repositories: %d found.", len(names))
	return names, nil
}

// SearchDriftIssues runs a single search request against the configured backend.
func (g *GitHubGateway) SearchDriftIssues(ctx context.Context, repoPath string, window domain.DateWindow) ([]domain.Issue, error) {
	query := DriftQuery(repoPath, window)
	g.logger.Printf("Searching issues (%s): %s", g.api, query)
	if g.api == APIGraphQL {
		return g.searchGraphQL(ctx, repoPath, query)
	}
	return g.searchREST(ctx, repoPath, query)
}

func (g *GitHubGateway) searchREST(ctx context.Context, repoPath, query string) ([]domain.Issue, error) {
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: searchPageSize}}
	result, _, err := g.restClient.Search.Issues(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search issues with REST API: %w", err)
	}
	issues := make([]domain.Issue, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, convertIssue(issue, repoPath))
	}
	if result.GetTotal() > len(issues) {
		g.logger.Printf("  %d issues match in %s, only the first %d are reported", result.GetTotal(), repoPath, len(issues))
	}
	return issues, nil
}

func convertIssue(issue *github.Issue, repoPath string) domain.Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}
	return domain.Issue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		State:     issue.GetState(),
		CreatedAt: issue.GetCreatedAt().Time,
		Author:    issue.GetUser().GetLogin(),
		Labels:    labels,
		URL:       issue.GetHTMLURL(),
		RepoPath:  repoPath,
	}
}

// DriftQuery builds the search query for open drift issues of a repository within the window.
func DriftQuery(repoPath string, window domain.DateWindow) string {
	return fmt.Sprintf("repo:%s %q in:title state:open created:%s", repoPath, domain.DriftMarker, window.SearchRange())
}

// APIErrorMessage extracts the message of a GitHub error payload, or falls back to the error text.
func APIErrorMessage(err error) string {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Message != "" {
		return ghErr.Message
	}
	return err.Error()
}
