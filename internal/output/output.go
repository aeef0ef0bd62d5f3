// Package output renders aggregation reports for the console.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/naka-gawa/org-stats/internal/domain"
	"github.com/pterm/pterm"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want %q or %q)", s, FormatText, FormatJSON)
	}
}

// Render writes the report to w in the given format.
func Render(w io.Writer, report *domain.Report, format Format) error {
	if format == FormatJSON {
		return RenderJSON(w, report)
	}
	return RenderText(w, report)
}

// RenderText writes the organization header, one table row per repository in
// the order they appear in the report, and the grand totals.
func RenderText(w io.Writer, report *domain.Report) error {
	org := report.Organization
	fmt.Fprintf(w, "Name: %s\n", org.Name)
	fmt.Fprintf(w, "Description: %s\n", org.Description)
	fmt.Fprintf(w, "Link: %s\n\n", org.Link())

	data := pterm.TableData{{"Repository", "Open issues", "Issues", "Commits"}}
	for _, r := range report.Repositories {
		data = append(data, []string{
			r.Name,
			strconv.Itoa(r.OpenIssues),
			strconv.Itoa(r.Issues.OrZero()),
			strconv.Itoa(r.Commits.OrZero()),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render repository table: %w", err)
	}
	fmt.Fprintln(w, table)

	fmt.Fprintf(w, "\nTotal issues across all repositories: %d\n", report.Totals.Issues)
	fmt.Fprintf(w, "Total commits across all repositories: %d\n", report.Totals.Commits)
	if report.Summary.Resolved > 0 {
		fmt.Fprintf(w, "Commits per repository: mean %.2f, median %.0f, max %.0f\n",
			report.Summary.MeanCommits, report.Summary.MedianCommits, report.Summary.MaxCommits)
	}
	return nil
}

type jsonRepository struct {
	Name       string `json:"name"`
	OpenIssues int    `json:"open_issues"`
	Issues     int    `json:"issues"`
	Commits    int    `json:"commits"`
}

type jsonReport struct {
	Organization         domain.Organization `json:"organization"`
	Repositories         []jsonRepository    `json:"repositories"`
	Totals               domain.Totals       `json:"totals"`
	Summary              domain.Summary      `json:"summary"`
	DeclaredRepositories *int                `json:"declared_repositories,omitempty"`
}

// RenderJSON writes the report as pretty-printed JSON.
func RenderJSON(w io.Writer, report *domain.Report) error {
	out := jsonReport{
		Organization:         report.Organization,
		Repositories:         make([]jsonRepository, 0, len(report.Repositories)),
		Totals:               report.Totals,
		Summary:              report.Summary,
		DeclaredRepositories: report.DeclaredRepositories,
	}
	for _, r := range report.Repositories {
		out.Repositories = append(out.Repositories, jsonRepository{
			Name:       r.Name,
			OpenIssues: r.OpenIssues,
			Issues:     r.Issues.OrZero(),
			Commits:    r.Commits.OrZero(),
		})
	}

	jsonData, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
