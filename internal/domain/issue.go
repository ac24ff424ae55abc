package domain

import (
	"strings"
	"time"
)

// DriftMarker is the title fragment drift-detection pipelines put on the issues they open.
const DriftMarker = "Drift detected"

// Issue is an open drift-detection issue found in one repository.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	Labels    []string  `json:"labels"`
	URL       string    `json:"url"`
	// RepoPath is the owner/name of the repository the issue was queried from.
	RepoPath string `json:"repo_path"`
}

// RepoName returns the last segment of the owning repository path.
func (i Issue) RepoName() string {
	return i.RepoPath[strings.LastIndex(i.RepoPath, "/")+1:]
}

// CreatedDate returns the creation date as reported by the API, YYYY-MM-DD.
func (i Issue) CreatedDate() string {
	return i.CreatedAt.Format(DateLayout)
}

// AuthorOrDefault returns the author login or "N/A" when the API did not report one.
func (i Issue) AuthorOrDefault() string {
	if i.Author == "" {
		return "N/A"
	}
	return i.Author
}

// RepoIssues holds the drift issues found in a single repository.
type RepoIssues struct {
	RepoPath string  `json:"repo_path"`
	Issues   []Issue `json:"issues"`
}

// TimelineBucket is the number of issues created on one calendar day.
type TimelineBucket struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// DateString returns the bucket date as YYYY-MM-DD.
func (b TimelineBucket) DateString() string {
	return b.Date.Format(DateLayout)
}

// Summary holds the headline numbers of a scan.
type Summary struct {
	TotalIssues  int     `json:"total_issues"`
	TotalRepos   int     `json:"total_repos"`
	ScannedRepos int     `json:"scanned_repos"`
	PeriodDays   int     `json:"period_days"`
	AvgPerDay    float64 `json:"avg_issues_per_day"`
	MedianPerDay float64 `json:"median_issues_per_day"`
	PeakDay      string  `json:"peak_day"`
	PeakCount    int     `json:"peak_count"`
}

// ScanResult is everything one run produces, ready to be rendered.
type ScanResult struct {
	Target   Target           `json:"-"`
	Window   DateWindow       `json:"-"`
	Repos    []RepoIssues     `json:"repos"`
	Timeline []TimelineBucket `json:"timeline"`
	Summary  Summary          `json:"summary"`
}
