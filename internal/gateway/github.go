// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/org-stats/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// ErrGraphQLUnavailable is returned by GraphQL-backed calls when the gateway
// was created without a token. The GraphQL API rejects anonymous requests.
var ErrGraphQLUnavailable = errors.New("graphql api requires a token")

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchOrganization(ctx context.Context, org string) (*domain.Organization, error)
	FetchRepositoryPage(ctx context.Context, org string, page, perPage int) (*domain.RepositoryPage, error)
	FetchIssuePage(ctx context.Context, owner, repo string) (*domain.IssuePage, error)
	FetchCommitPage(ctx context.Context, owner, repo string) (*domain.CommitPage, error)
	FetchDeclaredRepositoryCount(ctx context.Context, org string) (int, error)
}

// Options configures the HTTP stack behind the gateway.
type Options struct {
	// Token is sent as a bearer credential when set. Empty means anonymous access.
	Token string
	// BaseURL overrides the REST API root, e.g. https://ghe.example.com/api/v3/.
	BaseURL string
	// MaxInFlight caps concurrent HTTP requests. Zero or less means unbounded.
	MaxInFlight int
	// RequestsPerSecond paces request issuance. Zero or less means unpaced.
	RequestsPerSecond float64
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        logrus.FieldLogger
}

// repositoryCensusQuery asks for the number of repositories the organization declares.
type repositoryCensusQuery struct {
	Organization struct {
		Repositories struct {
			TotalCount int
		}
	} `graphql:"organization(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger logrus.FieldLogger) (Fetcher, error) {
	var transport http.RoundTripper = newThrottledTransport(http.DefaultTransport, opts.MaxInFlight, opts.RequestsPerSecond)
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}
	httpClient := &http.Client{Transport: transport}

	restClient := github.NewClient(httpClient)
	graphqlEndpoint := ""
	if opts.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse api base url: %w", err)
		}
		restClient.BaseURL = baseURL
		graphqlEndpoint = graphqlURL(baseURL)
	}

	gw := &GitHubGateway{
		restClient: restClient,
		logger:     logger,
	}
	if opts.Token != "" {
		if graphqlEndpoint == "" {
			gw.graphqlClient = githubv4.NewClient(httpClient)
		} else {
			gw.graphqlClient = githubv4.NewEnterpriseClient(graphqlEndpoint, httpClient)
		}
	}
	return gw, nil
}

// graphqlURL derives the GraphQL endpoint from a REST base URL.
// GitHub Enterprise Server serves REST under /api/v3/ and GraphQL under /api/graphql.
func graphqlURL(base *url.URL) string {
	u := *base
	if strings.HasSuffix(u.Path, "/api/v3/") {
		u.Path = strings.TrimSuffix(u.Path, "v3/") + "graphql"
	} else {
		u.Path += "graphql"
	}
	return u.String()
}

func (g *GitHubGateway) FetchOrganization(ctx context.Context, org string) (*domain.Organization, error) {
	g.logger.WithField("org", org).Debug("Fetching organization metadata...")
	o, resp, err := g.restClient.Organizations.Get(ctx, org)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", org, domain.ErrOrganizationNotFound)
		}
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}
	return &domain.Organization{
		Login:       o.GetLogin(),
		Name:        o.GetName(),
		Description: o.GetDescription(),
		Blog:        o.GetBlog(),
		HTMLURL:     o.GetHTMLURL(),
	}, nil
}

func (g *GitHubGateway) FetchRepositoryPage(ctx context.Context, org string, page, perPage int) (*domain.RepositoryPage, error) {
	g.logger.WithFields(logrus.Fields{"org": org, "page": page}).Debug("Fetching repository page...")
	opts := &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{Page: page, PerPage: perPage}}
	repos, resp, err := g.restClient.Repositories.ListByOrg(ctx, org, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories (page %d): %w", page, err)
	}
	refs := make([]domain.RepositoryRef, 0, len(repos))
	for _, r := range repos {
		refs = append(refs, domain.RepositoryRef{Name: r.GetName(), OpenIssues: r.GetOpenIssuesCount()})
	}
	return &domain.RepositoryPage{
		Number:       page,
		Repositories: refs,
		Link:         resp.Header.Get("Link"),
	}, nil
}

// FetchIssuePage returns the newest issue of the repository. Issues and pull
// requests share one number sequence, so the listing includes both.
func (g *GitHubGateway) FetchIssuePage(ctx context.Context, owner, repo string) (*domain.IssuePage, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 1},
	}
	issues, _, err := g.restClient.Issues.ListByRepo(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues of %s/%s: %w", owner, repo, err)
	}
	numbers := make([]int, 0, len(issues))
	for _, issue := range issues {
		numbers = append(numbers, issue.GetNumber())
	}
	return &domain.IssuePage{Numbers: numbers}, nil
}

// FetchCommitPage lists commits one per page so that the "last" relation
// carries the total commit count.
func (g *GitHubGateway) FetchCommitPage(ctx context.Context, owner, repo string) (*domain.CommitPage, error) {
	opts := &github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: 1}}
	commits, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits of %s/%s: %w", owner, repo, err)
	}
	return &domain.CommitPage{
		Link:  resp.Header.Get("Link"),
		Count: len(commits),
	}, nil
}

func (g *GitHubGateway) FetchDeclaredRepositoryCount(ctx context.Context, org string) (int, error) {
	if g.graphqlClient == nil {
		return 0, ErrGraphQLUnavailable
	}
	var q repositoryCensusQuery
	variables := map[string]interface{}{"login": githubv4.String(org)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, fmt.Errorf("failed to execute GraphQL query for repository count: %w", err)
	}
	return q.Organization.Repositories.TotalCount, nil
}
