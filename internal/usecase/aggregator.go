// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/naka-gawa/org-stats/internal/domain"
	"github.com/naka-gawa/org-stats/internal/gateway"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options tunes the fan-out of an aggregation run.
type Options struct {
	// PageSize is the repository listing page size, at most MaxPageSize.
	PageSize int
	// Concurrency caps the pages or repositories processed at once.
	// Zero or less means one goroutine per item.
	Concurrency int
}

// Aggregator is the use case for aggregating organization stats.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher     gateway.Fetcher
	pages       *PageFetcher
	resolver    *StatResolver
	logger      logrus.FieldLogger
	concurrency int
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger logrus.FieldLogger, opts Options) *Aggregator {
	return &Aggregator{
		fetcher:     fetcher,
		pages:       NewPageFetcher(fetcher, logger, opts.PageSize, opts.Concurrency),
		resolver:    NewStatResolver(fetcher),
		logger:      logger,
		concurrency: opts.Concurrency,
	}
}

// Aggregate performs the main business logic.
// It fetches the organization and all of its repository pages, resolves the
// stats of every repository concurrently and folds them into totals once
// every resolution has finished. Repository rows are in completion order.
func (a *Aggregator) Aggregate(ctx context.Context, org string) (*domain.Report, error) {
	login, err := domain.ParseOrganizationLogin(org)
	if err != nil {
		return nil, err
	}
	log := a.logger.WithField("org", login)
	log.Debug("Usecase: Starting data aggregation...")

	organization, err := a.fetcher.FetchOrganization(ctx, login)
	if err != nil {
		return nil, err
	}
	owner := organization.Login
	if owner == "" {
		owner = login
	}

	pages, err := a.pages.FetchAllRepositoryPages(ctx, owner)
	if err != nil {
		return nil, err
	}
	refs := Flatten(pages)
	log.WithField("repositories", len(refs)).Debug("Usecase: Repository listing complete.")

	declared := a.declaredRepositories(ctx, owner, len(refs))

	repos, err := a.resolveAll(ctx, refs, owner)
	if err != nil {
		return nil, err
	}
	for _, r := range repos {
		if !r.Issues.IsResolved() {
			log.WithField("repo", r.Name).WithError(r.Issues.Reason).Warn("Issue count unavailable, counting it as 0")
		}
		if !r.Commits.IsResolved() {
			log.WithField("repo", r.Name).WithError(r.Commits.Reason).Warn("Commit count unavailable, counting it as 0")
		}
	}

	log.Debug("Usecase: Aggregation complete.")
	return &domain.Report{
		Organization:         *organization,
		Repositories:         repos,
		Totals:               domain.Fold(repos),
		Summary:              Summarize(repos),
		DeclaredRepositories: declared,
	}, nil
}

func (a *Aggregator) resolveAll(ctx context.Context, refs []domain.RepositoryRef, owner string) ([]domain.RepositoryStats, error) {
	repos := make([]domain.RepositoryStats, 0, len(refs))
	var mu sync.Mutex
	var eg errgroup.Group
	if a.concurrency > 0 {
		eg.SetLimit(a.concurrency)
	}
	for _, ref := range refs {
		ref := ref
		eg.Go(func() error {
			stats := a.resolver.Resolve(ctx, ref, owner)
			mu.Lock()
			repos = append(repos, stats)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return repos, nil
}

// declaredRepositories cross-checks the listing against the count the
// organization declares. It is informational only.
func (a *Aggregator) declaredRepositories(ctx context.Context, org string, listed int) *int {
	log := a.logger.WithField("org", org)
	declared, err := a.fetcher.FetchDeclaredRepositoryCount(ctx, org)
	if err != nil {
		if !errors.Is(err, gateway.ErrGraphQLUnavailable) {
			log.WithError(err).Warn("Could not fetch declared repository count")
		}
		return nil
	}
	if declared != listed {
		log.WithFields(logrus.Fields{"declared": declared, "listed": listed}).
			Warn("Repository listing does not match the declared repository count")
	}
	return &declared
}
