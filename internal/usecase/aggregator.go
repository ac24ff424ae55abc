// Package usecase contains the business logic of the application.
package usecase

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/drift-issues/internal/domain"
)

// GroupByRepo converts per-repository results into a slice sorted by repository path.
// Repositories without issues are dropped.
func GroupByRepo(byRepo map[string][]domain.Issue) []domain.RepoIssues {
	grouped := make([]domain.RepoIssues, 0, len(byRepo))
	for repoPath, issues := range byRepo {
		if len(issues) == 0 {
			continue
		}
		grouped = append(grouped, domain.RepoIssues{RepoPath: repoPath, Issues: issues})
	}
	sort.Slice(grouped, func(i, j int) bool {
		return grouped[i].RepoPath < grouped[j].RepoPath
	})
	return grouped
}

// BuildTimeline counts issues per creation date over every day of the window.
// Days without issues get a zero bucket; issues dated outside the window are ignored.
func BuildTimeline(window domain.DateWindow, issues []domain.Issue) []domain.TimelineBucket {
	counts := make(map[string]int)
	for _, issue := range issues {
		counts[issue.CreatedDate()]++
	}

	dates := window.Dates()
	timeline := make([]domain.TimelineBucket, 0, len(dates))
	for _, date := range dates {
		timeline = append(timeline, domain.TimelineBucket{
			Date:  date,
			Count: counts[date.Format(domain.DateLayout)],
		})
	}
	return timeline
}

// Summarize computes the headline numbers shown on the console and in the report.
func Summarize(repos []domain.RepoIssues, timeline []domain.TimelineBucket, scannedRepos int) domain.Summary {
	summary := domain.Summary{
		ScannedRepos: scannedRepos,
		PeriodDays:   len(timeline),
	}
	for _, repo := range repos {
		if len(repo.Issues) > 0 {
			summary.TotalRepos++
			summary.TotalIssues += len(repo.Issues)
		}
	}
	if summary.PeriodDays == 0 {
		return summary
	}

	summary.AvgPerDay, _ = stats.Round(float64(summary.TotalIssues)/float64(summary.PeriodDays), 1)

	counts := make(stats.Float64Data, len(timeline))
	for i, bucket := range timeline {
		counts[i] = float64(bucket.Count)
	}
	if median, err := counts.Median(); err == nil {
		summary.MedianPerDay = median
	}
	if peak, err := counts.Max(); err == nil && peak > 0 {
		summary.PeakCount = int(peak)
		for _, bucket := range timeline {
			if bucket.Count == summary.PeakCount {
				summary.PeakDay = bucket.DateString()
				break
			}
		}
	}
	return summary
}

// Flatten returns every issue of the grouped result in repository order.
func Flatten(repos []domain.RepoIssues) []domain.Issue {
	var all []domain.Issue
	for _, repo := range repos {
		all = append(all, repo.Issues...)
	}
	return all
}
