package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	pkgerrors "github.com/pkg/errors"

	"github.com/kiegroup/kie-pr-builds/internal/config"
	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/git"
	"github.com/kiegroup/kie-pr-builds/internal/logger"
	"github.com/kiegroup/kie-pr-builds/internal/maven"
	"github.com/kiegroup/kie-pr-builds/internal/models"
	"github.com/kiegroup/kie-pr-builds/internal/refs"
	"github.com/kiegroup/kie-pr-builds/internal/repolist"
	"github.com/kiegroup/kie-pr-builds/internal/vcs"
	"github.com/kiegroup/kie-pr-builds/internal/vcs/github"
)

// BootstrapRepo may carry a pull request that changes the repository list
// itself.
var BootstrapRepo = models.NewRepository(repolist.KieGroupOrg, repolist.BootstrapRepoName)

// BuildStep holds the user-editable settings of the build step.
type BuildStep struct {
	MavenHome string
	MavenOpts string
	MavenArgs string
}

// Connector opens an authenticated hosting API client.
type Connector func(ctx context.Context, token string) (vcs.PullRequestClient, error)

type repositoryResolver interface {
	Resolve(ctx context.Context, targetRepo models.Repository, targetBranch models.Branch) (models.RepositoryList, error)
	ResolveWithBootstrap(ctx context.Context, targetRepo models.Repository, targetBranch models.Branch, bootstrap repolist.ManifestSource) (models.RepositoryList, error)
}

type repositoryCloner interface {
	CloneAll(ctx context.Context, dir string, refs []models.RepositoryRef, referenceDir string) error
}

type projectBuilder interface {
	Build(ctx context.Context, dir string, step BuildStep, env []string, out io.Writer) error
}

// PRBuilder runs the build of a pull request together with every repository
// of the product family it affects.
type PRBuilder struct {
	config       *config.Config
	connect      Connector
	resolver     repositoryResolver
	cloner       repositoryCloner
	builder      projectBuilder
	step         BuildStep
	scope        models.BuildScope
	buildDir     string
	referenceDir string
	prLinkEnv    string
	out          io.Writer
	progress     func(models.BuildProgress)

	states []State
}

type PRBuilderOption func(*PRBuilder)

func WithConnector(connect Connector) PRBuilderOption {
	return func(b *PRBuilder) {
		b.connect = connect
	}
}

func WithResolver(resolver repositoryResolver) PRBuilderOption {
	return func(b *PRBuilder) {
		b.resolver = resolver
	}
}

func WithCloner(cloner repositoryCloner) PRBuilderOption {
	return func(b *PRBuilder) {
		b.cloner = cloner
	}
}

func WithProjectBuilder(builder projectBuilder) PRBuilderOption {
	return func(b *PRBuilder) {
		b.builder = builder
	}
}

func WithBuildStep(step BuildStep) PRBuilderOption {
	return func(b *PRBuilder) {
		b.step = step
	}
}

func WithScope(scope models.BuildScope) PRBuilderOption {
	return func(b *PRBuilder) {
		b.scope = scope
	}
}

func WithBuildDir(dir string) PRBuilderOption {
	return func(b *PRBuilder) {
		b.buildDir = dir
	}
}

func WithReferenceDir(dir string) PRBuilderOption {
	return func(b *PRBuilder) {
		b.referenceDir = dir
	}
}

// WithOutput sets where the Maven output goes.
func WithOutput(out io.Writer) PRBuilderOption {
	return func(b *PRBuilder) {
		b.out = out
	}
}

func WithProgress(progress func(models.BuildProgress)) PRBuilderOption {
	return func(b *PRBuilder) {
		b.progress = progress
	}
}

// NewPRBuilder creates a builder from cfg. Options override what cfg sets.
func NewPRBuilder(cfg *config.Config, opts ...PRBuilderOption) *PRBuilder {
	if cfg == nil {
		cfg = config.Default()
	}

	scope, err := models.ParseBuildScope(cfg.Scope)
	if err != nil {
		scope = models.ScopeDownstream
	}

	b := &PRBuilder{
		config: cfg,
		connect: func(ctx context.Context, token string) (vcs.PullRequestClient, error) {
			var ghOpts []github.Option
			if cfg.GitHubAPIURL != "" {
				ghOpts = append(ghOpts, github.WithBaseURL(cfg.GitHubAPIURL))
			}
			return github.Connect(ctx, token, ghOpts...)
		},
		resolver: repolist.NewResolver(nil, nil, repolist.NewManifestFetcher(nil, cfg.ManifestBaseURL)),
		cloner:   git.NewCloner(cfg.CloneBaseURL),
		builder:  mavenBuilder{},
		step: BuildStep{
			MavenHome: cfg.Maven.Home,
			MavenOpts: cfg.Maven.Opts,
			MavenArgs: cfg.Maven.Args,
		},
		scope:        scope,
		buildDir:     cfg.BuildDir,
		referenceDir: cfg.ReferenceDir,
		prLinkEnv:    cfg.PRLinkEnv,
		out:          os.Stdout,
	}

	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Description names the build in the log.
func (b *PRBuilder) Description() string {
	return fmt.Sprintf("KIE PR %s build", b.scope)
}

// States returns the states the last run went through.
func (b *PRBuilder) States() []State {
	out := make([]State, len(b.states))
	copy(out, b.states)
	return out
}

// Perform runs the build and reports success. Every failure, panics included,
// is logged and turned into false.
func (b *PRBuilder) Perform(ctx context.Context, env Environment) (ok bool) {
	log := logger.FromContext(ctx)
	log.Info(b.Description() + " started")

	defer func() {
		if r := recover(); r != nil {
			if len(b.states) == 0 || !b.states[len(b.states)-1].Terminal() {
				b.transition(ctx, StateFailed)
			}
			log.Error("unexpected error while executing the "+b.Description(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
			b.emit(models.BuildProgress{Type: models.BuildProgressError, Error: fmt.Errorf("panic: %v", r)})
			ok = false
		}
	}()

	if err := b.Run(ctx, env); err != nil {
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) && !errors.Is(err, domainErrors.ErrUnexpected) {
			log.Error(b.Description()+" failed", "error", err)
		} else {
			log.Error("unexpected error while executing the "+b.Description(),
				"error", err,
				"stack", fmt.Sprintf("%+v", err))
		}
		return false
	}

	log.Info(b.Description() + " finished successfully")
	return true
}

// Run performs the build and returns the first error.
func (b *PRBuilder) Run(ctx context.Context, env Environment) (err error) {
	log := logger.FromContext(ctx)
	b.states = nil

	defer func() {
		if err != nil {
			err = withStack(err)
			b.transition(ctx, StateFailed)
			b.emit(models.BuildProgress{Type: models.BuildProgressError, Error: err})
		}
	}()

	b.transition(ctx, StateInit)
	if env == nil {
		env = Environment{}
	}
	b.transition(ctx, StateEnvironmentResolved)

	if b.config.GitHubToken == "" {
		return domainErrors.ErrMissingCredential
	}
	client, err := b.connect(ctx, b.config.GitHubToken)
	if err != nil {
		return err
	}
	b.transition(ctx, StateAuthenticated)

	pr, err := b.identifyPullRequest(ctx, client, env)
	if err != nil {
		return err
	}
	ctx = logger.With(ctx, "pr", pr.Link())
	log = logger.FromContext(ctx)
	b.transition(ctx, StatePRIdentified)

	log.Info("cleaning up directory", "dir", b.buildDir)
	if err := os.RemoveAll(b.buildDir); err != nil {
		return domainErrors.ErrWorkspaceCleanup.
			WithError(err).
			WithContext("dir", b.buildDir)
	}
	b.transition(ctx, StateWorkspaceCleaned)

	all, err := b.resolveRepositories(ctx, client, pr)
	if err != nil {
		return err
	}
	list := b.scope.Filter(all, pr.TargetRepo)
	log.Debug("repositories in scope",
		"scope", string(b.scope),
		"count", list.Len(),
		"total", all.Len())
	b.transition(ctx, StateRepoListResolved)

	selected, err := refs.NewSelector(client).Select(ctx, list, pr)
	if err != nil {
		return err
	}
	b.transition(ctx, StateRefsSelected)

	for _, ref := range selected {
		log.Info("repository to build",
			"repo", ref.Repo.String(),
			"refspec", ref.RefSpec.String())
	}

	if err := b.cloner.CloneAll(ctx, b.buildDir, selected, b.referenceDir); err != nil {
		return err
	}
	b.transition(ctx, StateCloned)

	for i, ref := range selected {
		b.transition(ctx, StateBuildingRepo)
		b.emit(models.BuildProgress{
			Type:    models.BuildProgressRepo,
			Repo:    ref.Repo.String(),
			Current: i + 1,
			Total:   len(selected),
		})
		log.Info("building repository",
			"repo", ref.Repo.String(),
			"current", i+1,
			"total", len(selected))

		dir := filepath.Join(b.buildDir, ref.Repo.Name)
		if err := b.builder.Build(ctx, dir, b.step, env.List(), b.out); err != nil {
			return err
		}
	}

	b.transition(ctx, StateDone)
	b.emit(models.BuildProgress{Type: models.BuildProgressComplete, Total: len(selected)})
	return nil
}

// SelectRefs resolves the refs a build of the pull request at link would
// check out, without touching the workspace.
func (b *PRBuilder) SelectRefs(ctx context.Context, link string) (models.PullRequestSummary, []models.RepositoryRef, error) {
	if b.config.GitHubToken == "" {
		return models.PullRequestSummary{}, nil, domainErrors.ErrMissingCredential
	}
	client, err := b.connect(ctx, b.config.GitHubToken)
	if err != nil {
		return models.PullRequestSummary{}, nil, err
	}

	pr, err := b.identifyPullRequest(ctx, client, Environment{b.prLinkEnv: link})
	if err != nil {
		return models.PullRequestSummary{}, nil, err
	}

	all, err := b.resolveRepositories(ctx, client, pr)
	if err != nil {
		return pr, nil, err
	}

	selected, err := refs.NewSelector(client).Select(ctx, b.scope.Filter(all, pr.TargetRepo), pr)
	return pr, selected, err
}

func (b *PRBuilder) identifyPullRequest(ctx context.Context, client vcs.PullRequestClient, env Environment) (models.PullRequestSummary, error) {
	link := env.Get(b.prLinkEnv)
	logger.FromContext(ctx).Info("working with PR", "link", link)
	if link == "" {
		return models.PullRequestSummary{}, domainErrors.ErrMissingPRContext.
			WithMessage(fmt.Sprintf("PR link not set in variable '%s'", b.prLinkEnv)).
			WithSuggestion(fmt.Sprintf("Make sure variable '%s' contains a valid link to a GitHub pull request", b.prLinkEnv))
	}

	repo, number, err := github.ParsePullRequestLink(link)
	if err != nil {
		return models.PullRequestSummary{}, err
	}
	return client.GetPullRequest(ctx, repo, number)
}

// resolveRepositories reads the repository list from the bootstrap pull
// request when one exists next to a master pull request.
func (b *PRBuilder) resolveRepositories(ctx context.Context, finder vcs.PullRequestFinder, pr models.PullRequestSummary) (models.RepositoryList, error) {
	if pr.TargetBranch != models.BranchMaster {
		return b.resolver.Resolve(ctx, pr.TargetRepo, pr.TargetBranch)
	}

	bootstrapPR, found, err := finder.FindOpenPullRequest(ctx, BootstrapRepo, pr.SourceBranch, pr.SourceRepo.Owner)
	if err != nil {
		return models.RepositoryList{}, err
	}
	if !found {
		return b.resolver.Resolve(ctx, pr.TargetRepo, pr.TargetBranch)
	}

	src := repolist.ManifestSource{
		Owner:  bootstrapPR.SourceRepo.Owner,
		Repo:   bootstrapPR.TargetRepo.Name,
		Branch: pr.SourceBranch,
	}
	logger.FromContext(ctx).Info("using repository list from bootstrap PR",
		"bootstrap_pr", bootstrapPR.Link(),
		"manifest", src.String())
	return b.resolver.ResolveWithBootstrap(ctx, pr.TargetRepo, pr.TargetBranch, src)
}

func (b *PRBuilder) transition(ctx context.Context, s State) {
	from := "none"
	if n := len(b.states); n > 0 {
		from = b.states[n-1].String()
	}
	b.states = append(b.states, s)
	logger.FromContext(ctx).Debug("build state changed", "from", from, "to", s.String())
	b.emit(models.BuildProgress{Type: models.BuildProgressState, State: s.String()})
}

func (b *PRBuilder) emit(p models.BuildProgress) {
	if b.progress != nil {
		b.progress(p)
	}
}

// withStack marks errors the domain does not know about as unexpected and
// records where unexpected errors surfaced.
func withStack(err error) error {
	if errors.Is(err, domainErrors.ErrUnexpected) {
		return pkgerrors.WithStack(err)
	}
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return pkgerrors.WithStack(domainErrors.ErrUnexpected.WithError(err))
}

type mavenBuilder struct{}

func (mavenBuilder) Build(ctx context.Context, dir string, step BuildStep, env []string, out io.Writer) error {
	project := maven.NewProject(dir,
		maven.WithHome(step.MavenHome),
		maven.WithOpts(step.MavenOpts))
	return project.Build(ctx, step.MavenArgs, env, out)
}
