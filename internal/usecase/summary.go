package usecase

import (
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/org-stats/internal/domain"
)

// Summarize describes the commit distribution over repositories whose commit
// count resolved.
func Summarize(repos []domain.RepositoryStats) domain.Summary {
	summary := domain.Summary{Repositories: len(repos)}

	var commits stats.Float64Data
	for _, r := range repos {
		if r.Commits.IsResolved() {
			commits = append(commits, float64(r.Commits.Value))
		}
	}
	summary.Resolved = commits.Len()
	if commits.Len() == 0 {
		return summary
	}

	// Errors are only returned for empty input, which is excluded above.
	mean, _ := commits.Mean()
	summary.MeanCommits, _ = stats.Round(mean, 2)
	summary.MedianCommits, _ = commits.Median()
	summary.MaxCommits, _ = commits.Max()
	return summary
}
