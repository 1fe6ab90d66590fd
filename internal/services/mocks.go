package services

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/kiegroup/kie-pr-builds/internal/models"
	"github.com/kiegroup/kie-pr-builds/internal/repolist"
)

type MockPRClient struct {
	mock.Mock
}

func (m *MockPRClient) GetPullRequest(ctx context.Context, repo models.Repository, number int) (models.PullRequestSummary, error) {
	args := m.Called(ctx, repo, number)
	return args.Get(0).(models.PullRequestSummary), args.Error(1)
}

func (m *MockPRClient) FindOpenPullRequest(ctx context.Context, repo models.Repository, sourceBranch models.Branch, sourceOwner string) (models.PullRequestSummary, bool, error) {
	args := m.Called(ctx, repo, sourceBranch, sourceOwner)
	return args.Get(0).(models.PullRequestSummary), args.Bool(1), args.Error(2)
}

func (m *MockPRClient) AuthenticatedUser(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, targetRepo models.Repository, targetBranch models.Branch) (models.RepositoryList, error) {
	args := m.Called(ctx, targetRepo, targetBranch)
	return args.Get(0).(models.RepositoryList), args.Error(1)
}

func (m *MockResolver) ResolveWithBootstrap(ctx context.Context, targetRepo models.Repository, targetBranch models.Branch, bootstrap repolist.ManifestSource) (models.RepositoryList, error) {
	args := m.Called(ctx, targetRepo, targetBranch, bootstrap)
	return args.Get(0).(models.RepositoryList), args.Error(1)
}

type MockCloner struct {
	mock.Mock
}

func (m *MockCloner) CloneAll(ctx context.Context, dir string, refs []models.RepositoryRef, referenceDir string) error {
	args := m.Called(ctx, dir, refs, referenceDir)
	return args.Error(0)
}

type MockProjectBuilder struct {
	mock.Mock
}

func (m *MockProjectBuilder) Build(ctx context.Context, dir string, step BuildStep, env []string, out io.Writer) error {
	args := m.Called(ctx, dir, step, env, out)
	return args.Error(0)
}
