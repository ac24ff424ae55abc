package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/drift-issues/internal/domain"
)

//go:embed templates/drift_report.html
var defaultTemplate string

// DefaultTemplateName is how the embedded template is referred to in messages.
const DefaultTemplateName = "templates/drift_report.html (embedded)"

const noIssuesHTML = `
            <div class="no-issues">
                <div class="no-issues-icon">📋</div>
                <h3>No drift issues found</h3>
                <p>There are no open issues titled 'Drift detected' in the selected period.</p>
            </div>`

// HTMLReport renders a ScanResult into a template through {{key}} placeholders.
// The chart data goes into the unescaped {{{timeline_data_json}}} placeholder.
type HTMLReport struct {
	template string
	now      func() time.Time
}

// NewHTMLReport loads the template at path, or the embedded one when path is empty.
func NewHTMLReport(path string) (*HTMLReport, error) {
	tmpl := defaultTemplate
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read HTML template: %w", err)
		}
		tmpl = string(b)
	}
	return &HTMLReport{template: tmpl, now: time.Now}, nil
}

// FileName is the report file name for a target and window.
func FileName(target domain.Target, window domain.DateWindow) string {
	prefix := "drift_issues_report_"
	if target.IsOrg() {
		prefix += "org_"
	}
	return fmt.Sprintf("%s%s_%s_to_%s.html", prefix, strings.ReplaceAll(target.Path, "/", "_"), window.StartString(), window.EndString())
}

// WriteFile renders the result into dir and returns the written path.
func (r *HTMLReport) WriteFile(dir string, result *domain.ScanResult) (string, error) {
	content, err := r.Render(result)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(result.Target, result.Window))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write HTML report: %w", err)
	}
	return path, nil
}

// Render substitutes every placeholder of the template.
func (r *HTMLReport) Render(result *domain.ScanResult) (string, error) {
	chart, err := timelineJSON(result.Timeline)
	if err != nil {
		return "", err
	}

	s := result.Summary
	peakDay := s.PeakDay
	if peakDay == "" {
		peakDay = "-"
	}
	vars := []struct{ key, value string }{
		{"target", html.EscapeString(result.Target.Path)},
		{"target_type", result.Target.Kind.String()},
		{"start_date", result.Window.StartString()},
		{"end_date", result.Window.EndString()},
		{"total_issues", strconv.Itoa(s.TotalIssues)},
		{"total_repos", strconv.Itoa(s.TotalRepos)},
		{"scanned_repos", strconv.Itoa(s.ScannedRepos)},
		{"period_days", strconv.Itoa(s.PeriodDays)},
		{"avg_issues_per_day", strconv.FormatFloat(s.AvgPerDay, 'f', 1, 64)},
		{"median_issues_per_day", strconv.FormatFloat(s.MedianPerDay, 'f', 1, 64)},
		{"peak_day", peakDay},
		{"peak_count", strconv.Itoa(s.PeakCount)},
		{"generation_date", r.now().Format("2006-01-02 15:04:05")},
		{"repos_html", reposHTML(result)},
	}

	// The triple-brace placeholder goes first so the double-brace pass cannot split it.
	oldnew := []string{"{{{timeline_data_json}}}", chart}
	for _, v := range vars {
		oldnew = append(oldnew, "{{"+v.key+"}}", v.value)
	}
	return strings.NewReplacer(oldnew...).Replace(r.template), nil
}

type timelineChart struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

func timelineJSON(timeline []domain.TimelineBucket) (string, error) {
	chart := timelineChart{
		Labels: make([]string, 0, len(timeline)),
		Data:   make([]int, 0, len(timeline)),
	}
	for _, bucket := range timeline {
		chart.Labels = append(chart.Labels, bucket.DateString())
		chart.Data = append(chart.Data, bucket.Count)
	}
	b, err := json.Marshal(chart)
	if err != nil {
		return "", fmt.Errorf("failed to marshal timeline data: %w", err)
	}
	return string(b), nil
}

func reposHTML(result *domain.ScanResult) string {
	if result.Summary.TotalIssues == 0 {
		return noIssuesHTML
	}

	var b strings.Builder
	for _, repo := range result.Repos {
		if len(repo.Issues) == 0 {
			continue
		}
		fmt.Fprintf(&b, `
            <div class="repo-section">
                <div class="table-container">
                    <div class="repo-header">
                        📁 %s
                        <span class="repo-count">%d issue(s)</span>
                    </div>
                    <table class="issues-table">
                        <thead>
                            <tr>
                                <th>ID</th>
                                <th>Title</th>
                                <th>State</th>
                                <th>Created</th>
                                <th>Author</th>
                            </tr>
                        </thead>
                        <tbody>`, html.EscapeString(repo.RepoPath), len(repo.Issues))
		for _, issue := range repo.Issues {
			state := html.EscapeString(issue.State)
			fmt.Fprintf(&b, `
                            <tr>
                                <td class="issue-id"><a href="%s">#%d</a></td>
                                <td class="issue-title">%s</td>
                                <td>
                                    <span class="issue-state state-%s">%s</span>
                                </td>
                                <td>%s</td>
                                <td class="author-info">%s</td>
                            </tr>`,
				html.EscapeString(issue.URL), issue.Number, html.EscapeString(issue.Title),
				state, state, issue.CreatedDate(), html.EscapeString(issue.AuthorOrDefault()))
		}
		b.WriteString(`
                        </tbody>
                    </table>
                </div>
            </div>`)
	}
	return b.String()
}
