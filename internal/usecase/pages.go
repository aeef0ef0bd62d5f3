package usecase

import (
	"context"
	"sync"

	"github.com/naka-gawa/org-stats/internal/domain"
	"github.com/naka-gawa/org-stats/internal/gateway"
	"github.com/naka-gawa/org-stats/internal/pagination"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MaxPageSize is the largest page the repository listing accepts.
const MaxPageSize = 100

// PageFetcher retrieves every page of an organization's repository listing.
type PageFetcher struct {
	fetcher     gateway.Fetcher
	logger      logrus.FieldLogger
	pageSize    int
	concurrency int
}

// NewPageFetcher creates a PageFetcher. A page size outside 1..MaxPageSize is
// replaced with MaxPageSize.
func NewPageFetcher(fetcher gateway.Fetcher, logger logrus.FieldLogger, pageSize, concurrency int) *PageFetcher {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return &PageFetcher{
		fetcher:     fetcher,
		logger:      logger,
		pageSize:    pageSize,
		concurrency: concurrency,
	}
}

// FetchAllRepositoryPages requests page 1, sizes the fan-out from its Link
// header and requests the remaining pages concurrently. A failed page
// contributes an empty page. Pages are returned in arrival order.
func (p *PageFetcher) FetchAllRepositoryPages(ctx context.Context, org string) ([]domain.RepositoryPage, error) {
	first := p.fetchPage(ctx, org, 1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pages := []domain.RepositoryPage{first}

	total := pagination.ResolvePageCount(first.Link)
	if total <= 1 {
		return pages, nil
	}
	p.logger.WithFields(logrus.Fields{"org": org, "pages": total}).Debug("Fetching remaining repository pages...")

	var mu sync.Mutex
	var eg errgroup.Group
	if p.concurrency > 0 {
		eg.SetLimit(p.concurrency)
	}
	for n := 2; n <= total; n++ {
		n := n
		eg.Go(func() error {
			page := p.fetchPage(ctx, org, n)
			mu.Lock()
			pages = append(pages, page)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (p *PageFetcher) fetchPage(ctx context.Context, org string, n int) domain.RepositoryPage {
	page, err := p.fetcher.FetchRepositoryPage(ctx, org, n, p.pageSize)
	if err != nil {
		p.logger.WithFields(logrus.Fields{"org": org, "page": n}).WithError(err).Warn("Repository page unavailable, counting it as empty")
		return domain.RepositoryPage{Number: n}
	}
	return *page
}

// Flatten merges the repositories of all pages into one collection.
func Flatten(pages []domain.RepositoryPage) []domain.RepositoryRef {
	n := 0
	for _, page := range pages {
		n += len(page.Repositories)
	}
	refs := make([]domain.RepositoryRef, 0, n)
	for _, page := range pages {
		refs = append(refs, page.Repositories...)
	}
	return refs
}
