package usecase

import (
	"errors"
	"testing"

	"github.com/naka-gawa/org-stats/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	testCases := []struct {
		name     string
		repos    []domain.RepositoryStats
		expected domain.Summary
	}{
		{
			name:     "no repositories",
			expected: domain.Summary{},
		},
		{
			name: "unavailable commit counts are left out",
			repos: []domain.RepositoryStats{
				{Name: "a", Commits: domain.Resolved(10)},
				{Name: "b", Commits: domain.Resolved(1)},
				{Name: "c", Commits: domain.Resolved(2)},
				{Name: "d", Commits: domain.Unavailable(errors.New("409"))},
			},
			expected: domain.Summary{Repositories: 4, Resolved: 3, MeanCommits: 4.33, MedianCommits: 2, MaxCommits: 10},
		},
		{
			name: "nothing resolved",
			repos: []domain.RepositoryStats{
				{Name: "a", Commits: domain.Unavailable(nil)},
			},
			expected: domain.Summary{Repositories: 1},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Summarize(tc.repos))
		})
	}
}
