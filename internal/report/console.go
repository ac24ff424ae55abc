// Package report renders scan results to the terminal and to an HTML file.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/naka-gawa/drift-issues/internal/domain"
)

const (
	sectionWidth   = 80
	maxTitleWidth  = 47
	maxAuthorWidth = 17
)

// Colors defines the console palette.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Info    lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Text    lipgloss.Color
}{
	Primary: lipgloss.Color("#0984E3"), // Blue
	Muted:   lipgloss.Color("#636E72"), // Gray
	Info:    lipgloss.Color("#00CEC9"), // Cyan
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow
	Error:   lipgloss.Color("#D63031"), // Red
	Text:    lipgloss.Color("#DFE6E9"), // Light gray
}

// Console writes styled, user-facing output. It satisfies usecase.Notifier.
type Console struct {
	out io.Writer

	header  lipgloss.Style
	border  lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	banner  lipgloss.Style
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:     out,
		header:  lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary),
		border:  lipgloss.NewStyle().Faint(true).Foreground(Colors.Primary),
		info:    lipgloss.NewStyle().Bold(true).Foreground(Colors.Info),
		success: lipgloss.NewStyle().Bold(true).Foreground(Colors.Success),
		warning: lipgloss.NewStyle().Bold(true).Foreground(Colors.Warning),
		err:     lipgloss.NewStyle().Bold(true).Foreground(Colors.Error),
		banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Colors.Primary).
			Width(sectionWidth - 2).
			Align(lipgloss.Center),
	}
}

// Banner prints the program banner.
func (c *Console) Banner() {
	fmt.Fprintln(c.out, c.banner.Render("TERRAFORM DRIFT DETECTION METRICS\nOpen drift issues across GitHub repositories"))
}

// Section prints a titled separator block.
func (c *Console) Section(title string) {
	line := c.border.Render(strings.Repeat("═", sectionWidth))
	fmt.Fprintf(c.out, "\n%s\n%s\n%s\n\n", line, c.header.Render(title), line)
}

func (c *Console) Info(msg string) {
	fmt.Fprintln(c.out, c.info.Render("• "+msg))
}

func (c *Console) Success(msg string) {
	fmt.Fprintln(c.out, c.success.Render("✓ "+msg))
}

func (c *Console) Warning(msg string) {
	fmt.Fprintln(c.out, c.warning.Render("WARNING: "+msg))
}

func (c *Console) Error(msg string) {
	fmt.Fprintln(c.out, c.err.Render("ERROR: "+msg))
}

// Results prints one table per repository followed by the totals.
func (c *Console) Results(result *domain.ScanResult) {
	c.Section(fmt.Sprintf("DRIFT DETECTION RESULTS - %d ISSUE(S) FOUND", result.Summary.TotalIssues))

	for _, repo := range result.Repos {
		fmt.Fprintln(c.out, c.header.Render(fmt.Sprintf("REPOSITORY: %s (%d issue(s))", repo.RepoPath, len(repo.Issues))))
		fmt.Fprintln(c.out, issuesTable(repo.Issues).Render())
		fmt.Fprintln(c.out)
	}

	s := result.Summary
	c.Success(fmt.Sprintf("Found %d drift detection issue(s) in %d of %d repository(ies)", s.TotalIssues, s.TotalRepos, s.ScannedRepos))
	if s.PeakDay != "" {
		c.Info(fmt.Sprintf("Average %.1f per day, median %.1f, peak %d on %s", s.AvgPerDay, s.MedianPerDay, s.PeakCount, s.PeakDay))
	}
}

func issuesTable(issues []domain.Issue) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(Colors.Text).Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Colors.Muted)).
		Headers("ID", "TITLE", "STATE", "CREATED", "AUTHOR").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, issue := range issues {
		t.Row(
			fmt.Sprintf("%d", issue.Number),
			truncate(issue.Title, maxTitleWidth),
			issue.State,
			issue.CreatedDate(),
			truncate(issue.AuthorOrDefault(), maxAuthorWidth),
		)
	}
	return t
}

// truncate cuts s to limit runes and marks the cut with an ellipsis.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
