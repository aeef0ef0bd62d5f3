// Package domain contains the core data structures and domain logic for the application.
package domain

import "errors"

// Organization is the snapshot of an organization's metadata, fetched once per run.
type Organization struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Blog        string `json:"blog"`
	HTMLURL     string `json:"html_url"`
}

// Link returns the organization's public link, preferring the blog URL.
func (o Organization) Link() string {
	if o.Blog != "" {
		return o.Blog
	}
	return o.HTMLURL
}

// RepositoryRef is one entry of an organization's repository listing.
type RepositoryRef struct {
	Name       string `json:"name"`
	OpenIssues int    `json:"open_issues"`
}

// RepositoryPage is a single page of the repository listing together with
// the navigation header it was served with.
type RepositoryPage struct {
	Number       int
	Repositories []RepositoryRef
	Link         string
}

// IssuePage holds the issue numbers of the first page of an issue listing, in API order.
type IssuePage struct {
	Numbers []int
}

// CommitPage describes a commit listing requested with one item per page.
type CommitPage struct {
	Link  string
	Count int
}

// Metric is a count that was either resolved or could not be obtained.
type Metric struct {
	Value  int
	Reason error
}

// Resolved returns a metric holding v.
func Resolved(v int) Metric {
	return Metric{Value: v}
}

// Unavailable returns a metric that failed to resolve. A nil reason is replaced
// with ErrMetricUnavailable so the variant is never ambiguous.
func Unavailable(reason error) Metric {
	if reason == nil {
		reason = ErrMetricUnavailable
	}
	return Metric{Reason: reason}
}

// IsResolved reports whether the metric holds a value.
func (m Metric) IsResolved() bool {
	return m.Reason == nil
}

// OrZero applies the aggregation policy: unavailable metrics count as zero.
func (m Metric) OrZero() int {
	if m.Reason != nil {
		return 0
	}
	return m.Value
}

// ErrMetricUnavailable is the default reason for an unavailable metric.
var ErrMetricUnavailable = errors.New("metric unavailable")

// RepositoryStats holds the resolved counts for a single repository.
// It is the core domain entity of this application.
type RepositoryStats struct {
	Name       string
	Issues     Metric
	Commits    Metric
	OpenIssues int
}

// Totals holds the organization-wide sums.
type Totals struct {
	Issues  int `json:"issues"`
	Commits int `json:"commits"`
}

// Fold sums the per-repository stats. Unavailable metrics contribute zero.
func Fold(stats []RepositoryStats) Totals {
	var t Totals
	for _, s := range stats {
		t.Issues += s.Issues.OrZero()
		t.Commits += s.Commits.OrZero()
	}
	return t
}

// Summary describes the distribution of commit counts across repositories
// whose commit metric resolved.
type Summary struct {
	Repositories  int     `json:"repositories"`
	Resolved      int     `json:"resolved"`
	MeanCommits   float64 `json:"mean_commits"`
	MedianCommits float64 `json:"median_commits"`
	MaxCommits    float64 `json:"max_commits"`
}

// Report is the outcome of one aggregation run.
type Report struct {
	Organization Organization
	Repositories []RepositoryStats
	Totals       Totals
	Summary      Summary
	// DeclaredRepositories is the repository count reported by the GraphQL API,
	// nil when it was not requested or could not be fetched.
	DeclaredRepositories *int
}
