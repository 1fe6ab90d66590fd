package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/logger"
	"github.com/kiegroup/kie-pr-builds/internal/models"
	"github.com/kiegroup/kie-pr-builds/internal/regex"
	"github.com/kiegroup/kie-pr-builds/internal/vcs"
)

var _ vcs.PullRequestClient = (*GitHubClient)(nil)

const listPageSize = 100

type PullRequestsService interface {
	List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
}

type UsersService interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

type GitHubClient struct {
	prService    PullRequestsService
	usersService UsersService
}

// Option customizes the underlying go-github client.
type Option func(*github.Client) error

// WithBaseURL points the client at another API endpoint, such as a GitHub
// Enterprise server.
func WithBaseURL(baseURL string) Option {
	return func(c *github.Client) error {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		c.BaseURL = u
		return nil
	}
}

func NewGitHubClient(token string, opts ...Option) (*GitHubClient, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}

	return &GitHubClient{
		prService:    client.PullRequests,
		usersService: client.Users,
	}, nil
}

func NewGitHubClientWithServices(prService PullRequestsService, usersService UsersService) *GitHubClient {
	return &GitHubClient{
		prService:    prService,
		usersService: usersService,
	}
}

// Connect creates a client authenticated with token and checks the token by
// asking GitHub who it belongs to.
func Connect(ctx context.Context, token string, opts ...Option) (*GitHubClient, error) {
	if token == "" {
		return nil, domainErrors.ErrMissingCredential
	}

	client, err := NewGitHubClient(token, opts...)
	if err != nil {
		return nil, domainErrors.ErrAuthFailure.WithError(err)
	}

	login, err := client.AuthenticatedUser(ctx)
	if err != nil {
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, domainErrors.ErrAuthFailure.WithError(err)
	}

	logger.FromContext(ctx).Info("connected to GitHub", "user", login)
	return client, nil
}

// ParsePullRequestLink extracts the target repository and the number from a
// pull request web link such as https://github.com/kiegroup/drools/pull/42.
func ParsePullRequestLink(link string) (models.Repository, int, error) {
	m := regex.PullRequestLink.FindStringSubmatch(strings.TrimSpace(link))
	if m == nil {
		return models.Repository{}, 0, domainErrors.ErrInvalidPRLink.WithContext("link", link)
	}

	number, err := strconv.Atoi(m[3])
	if err != nil || number <= 0 {
		return models.Repository{}, 0, domainErrors.ErrInvalidPRLink.
			WithError(err).
			WithContext("link", link)
	}

	return models.NewRepository(m[1], m[2]), number, nil
}

func (ghc *GitHubClient) GetPullRequest(ctx context.Context, repo models.Repository, number int) (models.PullRequestSummary, error) {
	log := logger.FromContext(ctx)

	log.Debug("fetching github pull request",
		"repo", repo.String(),
		"pr", number)

	pr, resp, err := ghc.prService.Get(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		log.Error("failed to fetch github PR",
			"error", err,
			"repo", repo.String(),
			"pr", number)
		return models.PullRequestSummary{}, mapAPIError(resp, err, "get PR", repo).WithContext("pr_number", number)
	}

	summary := toSummary(pr, repo)
	log.Debug("github PR fetched successfully",
		"pr", number,
		"source", summary.SourceRepo.String(),
		"source_branch", summary.SourceBranch.String(),
		"target_branch", summary.TargetBranch.String(),
		"mergeable", summary.Mergeable)

	return summary, nil
}

func (ghc *GitHubClient) FindOpenPullRequest(ctx context.Context, repo models.Repository, sourceBranch models.Branch, sourceOwner string) (models.PullRequestSummary, bool, error) {
	log := logger.FromContext(ctx)

	opts := &github.PullRequestListOptions{
		State:       "open",
		Head:        fmt.Sprintf("%s:%s", sourceOwner, sourceBranch),
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	var matches []*github.PullRequest
	for {
		prs, resp, err := ghc.prService.List(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return models.PullRequestSummary{}, false, mapAPIError(resp, err, "list PRs", repo)
		}
		for _, pr := range prs {
			if isHead(pr, sourceBranch, sourceOwner) {
				matches = append(matches, pr)
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	switch len(matches) {
	case 0:
		log.Debug("no open PR found",
			"repo", repo.String(),
			"head", opts.Head)
		return models.PullRequestSummary{}, false, nil
	case 1:
	default:
		numbers := make([]int, len(matches))
		for i, pr := range matches {
			numbers[i] = pr.GetNumber()
		}
		return models.PullRequestSummary{}, false, domainErrors.ErrAmbiguousPullRequest.
			WithMessage(fmt.Sprintf("Found %d open pull requests for %s in repo %s", len(matches), opts.Head, repo)).
			WithContext("repo", repo.String()).
			WithContext("pr_numbers", numbers)
	}

	// the list endpoint does not compute mergeability
	summary, err := ghc.GetPullRequest(ctx, repo, matches[0].GetNumber())
	if err != nil {
		return models.PullRequestSummary{}, false, err
	}
	return summary, true, nil
}

func (ghc *GitHubClient) AuthenticatedUser(ctx context.Context) (string, error) {
	user, resp, err := ghc.usersService.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return "", domainErrors.ErrAuthFailure.
				WithError(err).
				WithContext("operation", "get authenticated user")
		}
		return "", fmt.Errorf("error obtaining authenticated user: %w", err)
	}

	if user.Login == nil {
		return "", fmt.Errorf("authenticated user has no login")
	}

	return *user.Login, nil
}

func isHead(pr *github.PullRequest, branch models.Branch, owner string) bool {
	head := pr.GetHead()
	if head.GetRef() != branch.String() {
		return false
	}
	login := head.GetUser().GetLogin()
	if login == "" {
		login = head.GetRepo().GetOwner().GetLogin()
	}
	return strings.EqualFold(login, owner)
}

func toSummary(pr *github.PullRequest, fallback models.Repository) models.PullRequestSummary {
	head, base := pr.GetHead(), pr.GetBase()

	target := fallback
	if base.GetRepo() != nil {
		target = models.NewRepository(base.GetRepo().GetOwner().GetLogin(), base.GetRepo().GetName())
	}

	// the head repository is gone when the fork was deleted
	source := models.NewRepository(head.GetUser().GetLogin(), target.Name)
	if head.GetRepo() != nil {
		source = models.NewRepository(head.GetRepo().GetOwner().GetLogin(), head.GetRepo().GetName())
	}

	return models.PullRequestSummary{
		SourceRepo:       source,
		SourceBranch:     models.Branch(head.GetRef()),
		TargetRepo:       target,
		TargetBranch:     models.Branch(base.GetRef()),
		Number:           pr.GetNumber(),
		Mergeable:        pr.GetMergeable(),
		MergeableUnknown: pr.Mergeable == nil,
		CreatedAt:        pr.GetCreatedAt().Time,
	}
}

func mapAPIError(resp *github.Response, err error, operation string, repo models.Repository) *domainErrors.AppError {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("operation", operation)
	}

	if resp != nil {
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return domainErrors.ErrGitHubRateLimit.
				WithError(err).
				WithContext("retry_after", resp.Header.Get("Retry-After")).
				WithContext("operation", operation)
		case http.StatusUnauthorized:
			return domainErrors.ErrAuthFailure.
				WithError(err).
				WithContext("operation", operation)
		case http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.
				WithMessage(fmt.Sprintf("repository %s not found", repo)).
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", repo.String())
		}
	}

	return domainErrors.ErrUnexpected.
		WithMessage(fmt.Sprintf("GitHub request failed: %s", operation)).
		WithError(err).
		WithContext("repo", repo.String())
}
