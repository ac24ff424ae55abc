package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/naka-gawa/drift-issues/internal/domain"
	"github.com/naka-gawa/drift-issues/internal/gateway"
)

// ErrNoRepositories is returned when an organization scan has nothing to scan,
// either because the organization is empty or because listing it failed.
var ErrNoRepositories = errors.New("no repositories found in the organization")

// Notifier receives the user-facing progress messages of a scan.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}

// Scanner is the use case for finding drift issues of a target.
// It runs every request sequentially.
type Scanner struct {
	fetcher  gateway.Fetcher
	notifier Notifier
	logger   *log.Logger
}

// NewScanner creates a new Scanner instance.
func NewScanner(fetcher gateway.Fetcher, notifier Notifier, logger *log.Logger) *Scanner {
	return &Scanner{
		fetcher:  fetcher,
		notifier: notifier,
		logger:   logger,
	}
}

// Scan collects the drift issues of the target within the window and aggregates them.
//
// A failed search for one repository counts as zero issues for it. Scan only returns an
// error for an organization with no repositories or when ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, target domain.Target, window domain.DateWindow) (*domain.ScanResult, error) {
	s.logger.Printf("Usecase: Starting scan of %s %s...", target.Kind, target.Path)

	repos := []string{target.Path}
	if target.IsOrg() {
		s.notifier.Info(fmt.Sprintf("Organization: %s", target.Path))
		s.notifier.Info("Fetching repository list...")
		names, err := s.fetcher.ListOrgRepos(ctx, target.Path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.notifier.Error(fmt.Sprintf("GitHub API error: %s", gateway.APIErrorMessage(err)))
		}
		if len(names) == 0 {
			s.notifier.Warning("No repositories were found in the specified organization.")
			return nil, ErrNoRepositories
		}
		s.notifier.Success(fmt.Sprintf("Found %d repository(ies) in the organization", len(names)))
		repos = names
	} else {
		s.notifier.Info(fmt.Sprintf("Repository: %s", target.Path))
	}

	byRepo := make(map[string][]domain.Issue)
	for i, repoPath := range repos {
		if target.IsOrg() {
			s.notifier.Info(fmt.Sprintf("[%d/%d] Scanning: %s", i+1, len(repos), repoPath))
		}
		issues, err := s.fetcher.SearchDriftIssues(ctx, repoPath, window)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Printf("  search for %s failed, counting zero issues: %v", repoPath, err)
			continue
		}
		if len(issues) == 0 {
			continue
		}
		byRepo[repoPath] = issues
		if target.IsOrg() {
			s.notifier.Success(fmt.Sprintf("  -> %d issue(s) found", len(issues)))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grouped := GroupByRepo(byRepo)
	timeline := BuildTimeline(window, Flatten(grouped))
	result := &domain.ScanResult{
		Target:   target,
		Window:   window,
		Repos:    grouped,
		Timeline: timeline,
		Summary:  Summarize(grouped, timeline, len(repos)),
	}
	s.logger.Printf("Usecase: Scan complete, %d issue(s) in %d repository(ies).", result.Summary.TotalIssues, result.Summary.TotalRepos)
	return result, nil
}
