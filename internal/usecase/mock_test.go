package usecase

import (
	"context"
	"io"
	"strconv"

	"github.com/naka-gawa/org-stats/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchOrganization(ctx context.Context, org string) (*domain.Organization, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *mockFetcher) FetchRepositoryPage(ctx context.Context, org string, page, perPage int) (*domain.RepositoryPage, error) {
	args := m.Called(ctx, org, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepositoryPage), args.Error(1)
}

func (m *mockFetcher) FetchIssuePage(ctx context.Context, owner, repo string) (*domain.IssuePage, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IssuePage), args.Error(1)
}

func (m *mockFetcher) FetchCommitPage(ctx context.Context, owner, repo string) (*domain.CommitPage, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommitPage), args.Error(1)
}

func (m *mockFetcher) FetchDeclaredRepositoryCount(ctx context.Context, org string) (int, error) {
	args := m.Called(ctx, org)
	return args.Int(0), args.Error(1)
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// lastLink builds a Link header whose "last" relation points at page n.
func lastLink(path string, perPage, n int) string {
	return "<https://api.github.com" + path + "?per_page=" + strconv.Itoa(perPage) + "&page=2>; rel=\"next\", " +
		"<https://api.github.com" + path + "?per_page=" + strconv.Itoa(perPage) + "&page=" + strconv.Itoa(n) + ">; rel=\"last\""
}
