package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/models"
)

var drools = models.NewRepository("kiegroup", "drools")

func newTestClient(pr *MockPRService, users *MockUserService) *GitHubClient {
	return NewGitHubClientWithServices(pr, users)
}

func ghPR(number int, headOwner, headRef string, mergeable *bool) *github.PullRequest {
	return &github.PullRequest{
		Number:    github.Ptr(number),
		Mergeable: mergeable,
		CreatedAt: &github.Timestamp{Time: time.Date(2017, 8, 1, 10, 0, 0, 0, time.UTC)},
		Head: &github.PullRequestBranch{
			Ref:  github.Ptr(headRef),
			User: &github.User{Login: github.Ptr(headOwner)},
			Repo: &github.Repository{
				Name:  github.Ptr("drools"),
				Owner: &github.User{Login: github.Ptr(headOwner)},
			},
		},
		Base: &github.PullRequestBranch{
			Ref: github.Ptr("master"),
			Repo: &github.Repository{
				Name:  github.Ptr("drools"),
				Owner: &github.User{Login: github.Ptr("kiegroup")},
			},
		},
	}
}

func headIs(head string) interface{} {
	return mock.MatchedBy(func(opts *github.PullRequestListOptions) bool {
		return opts.Head == head && opts.State == "open"
	})
}

func TestParsePullRequestLink(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		repo     models.Repository
		number   int
		expected error
	}{
		{"plain link", "https://github.com/kiegroup/drools/pull/1234", drools, 1234, nil},
		{"files tab", "https://github.com/kiegroup/jbpm/pull/7/files", models.NewRepository("kiegroup", "jbpm"), 7, nil},
		{"surrounding spaces", "  https://github.com/errai/errai/pull/3\n", models.NewRepository("errai", "errai"), 3, nil},
		{"issue link", "https://github.com/kiegroup/drools/issues/1", models.Repository{}, 0, domainErrors.ErrInvalidPRLink},
		{"empty", "", models.Repository{}, 0, domainErrors.ErrInvalidPRLink},
		{"zero", "https://github.com/kiegroup/drools/pull/0", models.Repository{}, 0, domainErrors.ErrInvalidPRLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, number, err := ParsePullRequestLink(tt.link)

			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.repo, repo)
			assert.Equal(t, tt.number, number)
		})
	}
}

func TestGitHubClient_GetPullRequest(t *testing.T) {
	t.Run("should convert the PR", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR, &MockUserService{})

		mockPR.On("Get", mock.Anything, "kiegroup", "drools", 42).
			Return(ghPR(42, "jdoe", "JBPM-1-fix", github.Ptr(true)), &github.Response{}, nil)

		pr, err := client.GetPullRequest(context.Background(), drools, 42)

		require.NoError(t, err)
		assert.Equal(t, models.PullRequestSummary{
			SourceRepo:   models.NewRepository("jdoe", "drools"),
			SourceBranch: "JBPM-1-fix",
			TargetRepo:   drools,
			TargetBranch: models.BranchMaster,
			Number:       42,
			Mergeable:    true,
			CreatedAt:    time.Date(2017, 8, 1, 10, 0, 0, 0, time.UTC),
		}, pr)
		assert.Equal(t, "https://github.com/kiegroup/drools/pull/42", pr.Link())
		mockPR.AssertExpectations(t)
	})

	t.Run("unknown mergeability is not mergeable", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR, &MockUserService{})

		mockPR.On("Get", mock.Anything, "kiegroup", "drools", 42).
			Return(ghPR(42, "jdoe", "fix", nil), &github.Response{}, nil)

		pr, err := client.GetPullRequest(context.Background(), drools, 42)

		require.NoError(t, err)
		assert.False(t, pr.Mergeable)
		assert.True(t, pr.MergeableUnknown)
	})

	t.Run("deleted fork falls back to the head user", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR, &MockUserService{})

		gone := ghPR(42, "jdoe", "fix", github.Ptr(true))
		gone.Head.Repo = nil
		mockPR.On("Get", mock.Anything, "kiegroup", "drools", 42).Return(gone, &github.Response{}, nil)

		pr, err := client.GetPullRequest(context.Background(), drools, 42)

		require.NoError(t, err)
		assert.Equal(t, models.NewRepository("jdoe", "drools"), pr.SourceRepo)
	})

	t.Run("should map API errors", func(t *testing.T) {
		tests := []struct {
			status   int
			expected error
		}{
			{http.StatusNotFound, domainErrors.ErrRepositoryNotFound},
			{http.StatusUnauthorized, domainErrors.ErrAuthFailure},
			{http.StatusTooManyRequests, domainErrors.ErrGitHubRateLimit},
			{http.StatusInternalServerError, domainErrors.ErrUnexpected},
		}

		for _, tt := range tests {
			t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
				mockPR := &MockPRService{}
				client := newTestClient(mockPR, &MockUserService{})

				resp := &github.Response{Response: &http.Response{StatusCode: tt.status, Header: http.Header{}}}
				mockPR.On("Get", mock.Anything, "kiegroup", "drools", 42).
					Return(nil, resp, errors.New("api error"))

				_, err := client.GetPullRequest(context.Background(), drools, 42)

				assert.ErrorIs(t, err, tt.expected)
			})
		}
	})
}

func TestGitHubClient_FindOpenPullRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the single exact match with its mergeability", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR, &MockUserService{})

		mockPR.On("List", mock.Anything, "kiegroup", "drools", headIs("jdoe:fix")).
			Return([]*github.PullRequest{
				ghPR(10, "jdoe", "fix-other", nil),
				ghPR(11, "jdoe", "fix", nil),
			}, &github.Response{}, nil)
		mockPR.On("Get", mock.Anything, "kiegroup", "drools", 11).
			Return(ghPR(11, "jdoe", "fix", github.Ptr(false)), &github.Response{}, nil)

		pr, found, err := client.FindOpenPullRequest(ctx, drools, "fix", "jdoe")

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 11, pr.Number)
		assert.False(t, pr.Mergeable)
		mockPR.AssertExpectations(t)
	})

	t.Run("should report absence", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR, &MockUserService{})

		mockPR.On("List", mock.Anything, "kiegroup", "drools", headIs("jdoe:fix")).
			Return([]*github.PullRequest{ghPR(10, "someone", "fix", nil)}, &github.Response{}, nil)

		_, found, err := client.FindOpenPullRequest(ctx, drools, "fix", "jdoe")

		require.NoError(t, err)
		assert.False(t, found)
		mockPR.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should follow pagination", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR, &MockUserService{})

		firstPage := mock.MatchedBy(func(opts *github.PullRequestListOptions) bool { return opts.Page == 0 })
		secondPage := mock.MatchedBy(func(opts *github.PullRequestListOptions) bool { return opts.Page == 2 })
		mockPR.On("List", mock.Anything, "kiegroup", "drools", firstPage).
			Return([]*github.PullRequest{ghPR(1, "jdoe", "other", nil)}, &github.Response{NextPage: 2}, nil).Once()
		mockPR.On("List", mock.Anything, "kiegroup", "drools", secondPage).
			Return([]*github.PullRequest{ghPR(2, "jdoe", "fix", nil)}, &github.Response{}, nil).Once()
		mockPR.On("Get", mock.Anything, "kiegroup", "drools", 2).
			Return(ghPR(2, "jdoe", "fix", github.Ptr(true)), &github.Response{}, nil)

		pr, found, err := client.FindOpenPullRequest(ctx, drools, "fix", "jdoe")

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 2, pr.Number)
		mockPR.AssertNumberOfCalls(t, "List", 2)
	})

	t.Run("more than one match is an error", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR, &MockUserService{})

		mockPR.On("List", mock.Anything, "kiegroup", "drools", headIs("jdoe:fix")).
			Return([]*github.PullRequest{
				ghPR(11, "jdoe", "fix", nil),
				ghPR(12, "JDoe", "fix", nil),
			}, &github.Response{}, nil)

		_, found, err := client.FindOpenPullRequest(ctx, drools, "fix", "jdoe")

		assert.False(t, found)
		assert.ErrorIs(t, err, domainErrors.ErrAmbiguousPullRequest)
		var appErr *domainErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, []int{11, 12}, appErr.Context["pr_numbers"])
	})

	t.Run("missing repository is an error", func(t *testing.T) {
		mockPR := &MockPRService{}
		client := newTestClient(mockPR, &MockUserService{})

		resp := &github.Response{Response: &http.Response{StatusCode: http.StatusNotFound, Header: http.Header{}}}
		mockPR.On("List", mock.Anything, "kiegroup", "nope", mock.Anything).
			Return([]*github.PullRequest{}, resp, errors.New("404 Not Found"))

		_, _, err := client.FindOpenPullRequest(ctx, models.NewRepository("kiegroup", "nope"), "fix", "jdoe")

		assert.ErrorIs(t, err, domainErrors.ErrRepositoryNotFound)
	})
}

func TestGitHubClient_AuthenticatedUser(t *testing.T) {
	t.Run("should return the login", func(t *testing.T) {
		mockUsers := &MockUserService{}
		client := newTestClient(&MockPRService{}, mockUsers)

		mockUsers.On("Get", mock.Anything, "").Return(&github.User{Login: github.Ptr("kie-ci")}, &github.Response{}, nil)

		login, err := client.AuthenticatedUser(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "kie-ci", login)
	})

	t.Run("401 is an authentication failure", func(t *testing.T) {
		mockUsers := &MockUserService{}
		client := newTestClient(&MockPRService{}, mockUsers)

		resp := &github.Response{Response: &http.Response{StatusCode: http.StatusUnauthorized}}
		mockUsers.On("Get", mock.Anything, "").Return(&github.User{}, resp, errors.New("bad credentials"))

		_, err := client.AuthenticatedUser(context.Background())

		assert.ErrorIs(t, err, domainErrors.ErrAuthFailure)
	})
}

func TestConnect(t *testing.T) {
	newAPI := func(t *testing.T, handler http.HandlerFunc) *httptest.Server {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		return srv
	}

	t.Run("should authenticate with the token", func(t *testing.T) {
		srv := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/user" || r.Header.Get("Authorization") != "Bearer secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprint(w, `{"login":"kie-ci"}`)
		})

		client, err := Connect(context.Background(), "secret", WithBaseURL(srv.URL))

		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("rejected token", func(t *testing.T) {
		srv := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = fmt.Fprint(w, `{"message":"Bad credentials"}`)
		})

		_, err := Connect(context.Background(), "wrong", WithBaseURL(srv.URL))

		assert.ErrorIs(t, err, domainErrors.ErrAuthFailure)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := Connect(context.Background(), "")

		assert.ErrorIs(t, err, domainErrors.ErrMissingCredential)
	})

	t.Run("exhausted rate limit", func(t *testing.T) {
		srv := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", fmt.Sprint(time.Now().Add(time.Hour).Unix()))
			w.WriteHeader(http.StatusForbidden)
			_, _ = fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
		})

		client, err := NewGitHubClient("secret", WithBaseURL(srv.URL))
		require.NoError(t, err)

		_, err = client.GetPullRequest(context.Background(), drools, 1)

		assert.ErrorIs(t, err, domainErrors.ErrGitHubRateLimit)
	})
}
