package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/naka-gawa/org-stats/internal/domain"
	"github.com/naka-gawa/org-stats/internal/gateway"
	"github.com/naka-gawa/org-stats/internal/pagination"
	"golang.org/x/sync/errgroup"
)

// StatResolver resolves the issue and commit counts of a single repository.
type StatResolver struct {
	fetcher gateway.Fetcher
}

// NewStatResolver creates a new StatResolver instance.
func NewStatResolver(fetcher gateway.Fetcher) *StatResolver {
	return &StatResolver{fetcher: fetcher}
}

// Resolve issues the issue and commit requests concurrently and waits for both.
// A failed request yields an unavailable metric; it never fails the call.
func (r *StatResolver) Resolve(ctx context.Context, ref domain.RepositoryRef, owner string) domain.RepositoryStats {
	var issues, commits domain.Metric
	var eg errgroup.Group
	eg.Go(func() error {
		issues = r.resolveIssues(ctx, owner, ref.Name)
		return nil
	})
	eg.Go(func() error {
		commits = r.resolveCommits(ctx, owner, ref.Name)
		return nil
	})
	_ = eg.Wait()

	return domain.RepositoryStats{
		Name:       ref.Name,
		Issues:     issues,
		Commits:    commits,
		OpenIssues: ref.OpenIssues,
	}
}

// resolveIssues reads the number of the newest issue. Listings are ordered
// newest first, so that number is the count of issues ever opened.
func (r *StatResolver) resolveIssues(ctx context.Context, owner, repo string) domain.Metric {
	page, err := r.fetcher.FetchIssuePage(ctx, owner, repo)
	if err != nil {
		return domain.Unavailable(err)
	}
	if len(page.Numbers) == 0 {
		return domain.Resolved(0)
	}
	return domain.Resolved(page.Numbers[0])
}

// resolveCommits reads the commit count from a one-commit-per-page listing.
// Without any relation the listing fits on one page and the body length is
// the count (0 or 1).
func (r *StatResolver) resolveCommits(ctx context.Context, owner, repo string) domain.Metric {
	page, err := r.fetcher.FetchCommitPage(ctx, owner, repo)
	if err != nil {
		return domain.Unavailable(err)
	}
	last, err := pagination.LastPage(page.Link)
	switch {
	case err == nil:
		return domain.Resolved(last)
	case errors.Is(err, pagination.ErrNoLastRelation) && len(pagination.ParseLinkHeader(page.Link)) == 0:
		return domain.Resolved(page.Count)
	default:
		return domain.Unavailable(fmt.Errorf("commit count of %s/%s: %w", owner, repo, err))
	}
}
