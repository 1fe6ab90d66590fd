package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/logger"
	"github.com/kiegroup/kie-pr-builds/internal/models"
)

const DefaultBaseURL = "https://github.com"

// Cloner checks out every repository of a build into its own subdirectory.
type Cloner struct {
	baseURL string
	gitPath string
}

type Option func(*Cloner)

// WithGitPath sets the git executable to run.
func WithGitPath(path string) Option {
	return func(c *Cloner) {
		c.gitPath = path
	}
}

func NewCloner(baseURL string, opts ...Option) *Cloner {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Cloner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		gitPath: "git",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RemoteURL returns the clone URL of repo.
func (c *Cloner) RemoteURL(repo models.Repository) string {
	return fmt.Sprintf("%s/%s/%s.git", c.baseURL, repo.Owner, repo.Name)
}

// CloneAll clones refs in order under dir. referenceDir, when set, holds
// local mirrors named after the repositories that git borrows objects from.
func (c *Cloner) CloneAll(ctx context.Context, dir string, refs []models.RepositoryRef, referenceDir string) error {
	log := logger.FromContext(ctx)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return domainErrors.ErrCloneFailure.
			WithMessage(fmt.Sprintf("Can not create build directory %s", dir)).
			WithError(err)
	}

	for i, ref := range refs {
		log.Info("cloning repository",
			"repo", ref.Repo.String(),
			"refspec", ref.RefSpec.String(),
			"current", i+1,
			"total", len(refs))
		if err := c.Clone(ctx, dir, ref, referenceDir); err != nil {
			return err
		}
	}
	return nil
}

// Clone checks out ref.RefSpec of ref.Repo into dir/<repository name>.
func (c *Cloner) Clone(ctx context.Context, dir string, ref models.RepositoryRef, referenceDir string) error {
	target := filepath.Join(dir, ref.Repo.Name)

	args := []string{"clone", "--no-checkout"}
	if referenceDir != "" {
		args = append(args, "--reference-if-able", filepath.Join(referenceDir, ref.Repo.Name))
	}
	args = append(args, c.RemoteURL(ref.Repo), target)

	if err := c.run(ctx, "", args...); err != nil {
		return wrapCloneError(err, ref, "clone")
	}
	if err := c.run(ctx, target, "fetch", "origin", ref.RefSpec.String()); err != nil {
		return wrapCloneError(err, ref, "fetch")
	}
	if err := c.run(ctx, target, "checkout", ref.RefSpec.LocalBranch()); err != nil {
		return wrapCloneError(err, ref, "checkout")
	}

	branch, err := c.CurrentBranch(ctx, target)
	if err != nil {
		return wrapCloneError(err, ref, "rev-parse")
	}
	logger.FromContext(ctx).Debug("repository checked out",
		"repo", ref.Repo.String(),
		"branch", branch,
		"dir", target)
	return nil
}

// CurrentBranch returns the branch checked out in dir.
func (c *Cloner) CurrentBranch(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, c.gitPath, "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

type commandError struct {
	err    error
	stderr string
}

func (e *commandError) Error() string {
	return e.err.Error()
}

func (e *commandError) Unwrap() error {
	return e.err
}

func (c *Cloner) run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, c.gitPath, args...)
	cmd.Dir = dir
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &commandError{err: err, stderr: strings.TrimSpace(stderr.String())}
	}
	return nil
}

func wrapCloneError(err error, ref models.RepositoryRef, step string) error {
	appErr := domainErrors.ErrCloneFailure.
		WithMessage(fmt.Sprintf("Failed to clone %s at %s", ref.Repo, ref.RefSpec)).
		WithError(err).
		WithContext("repo", ref.Repo.String()).
		WithContext("refspec", ref.RefSpec.String()).
		WithContext("step", step)
	if cmdErr, ok := err.(*commandError); ok && cmdErr.stderr != "" {
		appErr = appErr.WithContext("stderr", cmdErr.stderr)
	}
	return appErr
}
