package vcs

import (
	"context"

	"github.com/kiegroup/kie-pr-builds/internal/models"
)

// PullRequestFinder looks up the open pull request a contributor opened from
// a given branch of their fork.
type PullRequestFinder interface {
	// FindOpenPullRequest returns the open pull request against repo whose head is
	// sourceOwner:sourceBranch. The boolean is false when there is none.
	FindOpenPullRequest(ctx context.Context, repo models.Repository, sourceBranch models.Branch, sourceOwner string) (models.PullRequestSummary, bool, error)
}

// PullRequestClient defines the hosting API calls needed by a PR build.
type PullRequestClient interface {
	PullRequestFinder
	// GetPullRequest gets one pull request by number.
	GetPullRequest(ctx context.Context, repo models.Repository, number int) (models.PullRequestSummary, error)
	// AuthenticatedUser returns the login the client is authenticated as.
	AuthenticatedUser(ctx context.Context) (string, error)
}
