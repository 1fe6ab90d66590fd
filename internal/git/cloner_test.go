package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/models"
)

var gitEnv = []string{
	"GIT_AUTHOR_NAME=Test User",
	"GIT_AUTHOR_EMAIL=test@example.com",
	"GIT_COMMITTER_NAME=Test User",
	"GIT_COMMITTER_EMAIL=test@example.com",
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), gitEnv...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

// setupRemote creates <base>/<owner>/<name>.git with a master branch and a
// pull/1/merge ref pointing at a feature commit.
func setupRemote(t *testing.T, base string, repo models.Repository) {
	t.Helper()

	work := t.TempDir()
	runGit(t, work, "init")
	require.NoError(t, os.WriteFile(filepath.Join(work, "pom.xml"), []byte("<project/>"), 0644))
	runGit(t, work, "add", "pom.xml")
	runGit(t, work, "commit", "-m", "initial")
	runGit(t, work, "branch", "-M", "master")

	runGit(t, work, "checkout", "-b", "feature")
	require.NoError(t, os.WriteFile(filepath.Join(work, "FEATURE"), []byte("x"), 0644))
	runGit(t, work, "add", "FEATURE")
	runGit(t, work, "commit", "-m", "feature")
	runGit(t, work, "checkout", "master")

	bare := filepath.Join(base, repo.Owner, repo.Name+".git")
	require.NoError(t, os.MkdirAll(filepath.Dir(bare), 0755))
	runGit(t, base, "clone", "--bare", work, bare)
	runGit(t, bare, "update-ref", "refs/pull/1/merge", "refs/heads/feature")
}

func requireGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func TestCloner_RemoteURL(t *testing.T) {
	c := NewCloner("")
	assert.Equal(t, "https://github.com/kiegroup/drools.git", c.RemoteURL(models.NewRepository("kiegroup", "drools")))

	c = NewCloner("file:///srv/mirrors/")
	assert.Equal(t, "file:///srv/mirrors/jboss-integration/kie-eap-modules.git",
		c.RemoteURL(models.NewRepository("jboss-integration", "kie-eap-modules")))
}

func TestCloner_CloneAll(t *testing.T) {
	requireGit(t)
	ctx := context.Background()

	drools := models.NewRepository("kiegroup", "drools")
	jbpm := models.NewRepository("kiegroup", "jbpm")

	t.Run("should check out branch and merge refs", func(t *testing.T) {
		base := t.TempDir()
		setupRemote(t, base, drools)
		setupRemote(t, base, jbpm)

		buildDir := filepath.Join(t.TempDir(), "build")
		refs := []models.RepositoryRef{
			{Repo: drools, Branch: models.BranchMaster, RefSpec: models.BranchRefSpec(models.BranchMaster)},
			{Repo: jbpm, Branch: models.BranchMaster, RefSpec: models.MergeRefSpec(1, "feature")},
		}

		cloner := NewCloner(base)
		err := cloner.CloneAll(ctx, buildDir, refs, filepath.Join(base, "no-reference-here"))
		require.NoError(t, err)

		branch, err := cloner.CurrentBranch(ctx, filepath.Join(buildDir, "drools"))
		require.NoError(t, err)
		assert.Equal(t, "master-pr-build", branch)
		assert.FileExists(t, filepath.Join(buildDir, "drools", "pom.xml"))
		assert.NoFileExists(t, filepath.Join(buildDir, "drools", "FEATURE"))

		branch, err = cloner.CurrentBranch(ctx, filepath.Join(buildDir, "jbpm"))
		require.NoError(t, err)
		assert.Equal(t, "pr1-feature-merge", branch)
		assert.FileExists(t, filepath.Join(buildDir, "jbpm", "FEATURE"))
	})

	t.Run("missing ref fails with stderr", func(t *testing.T) {
		base := t.TempDir()
		setupRemote(t, base, drools)

		refs := []models.RepositoryRef{
			{Repo: drools, Branch: "7.3.x", RefSpec: models.BranchRefSpec("7.3.x")},
		}

		err := NewCloner(base).CloneAll(ctx, t.TempDir(), refs, "")

		assert.ErrorIs(t, err, domainErrors.ErrCloneFailure)
		var appErr *domainErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "fetch", appErr.Context["step"])
		assert.NotEmpty(t, appErr.Context["stderr"])
	})

	t.Run("missing repository stops the run", func(t *testing.T) {
		base := t.TempDir()
		setupRemote(t, base, jbpm)
		buildDir := t.TempDir()

		refs := []models.RepositoryRef{
			{Repo: drools, Branch: models.BranchMaster, RefSpec: models.BranchRefSpec(models.BranchMaster)},
			{Repo: jbpm, Branch: models.BranchMaster, RefSpec: models.BranchRefSpec(models.BranchMaster)},
		}

		err := NewCloner(base).CloneAll(ctx, buildDir, refs, "")

		assert.ErrorIs(t, err, domainErrors.ErrCloneFailure)
		assert.NoDirExists(t, filepath.Join(buildDir, "jbpm"))
	})

	t.Run("missing git executable is a clone failure", func(t *testing.T) {
		refs := []models.RepositoryRef{
			{Repo: drools, Branch: models.BranchMaster, RefSpec: models.BranchRefSpec(models.BranchMaster)},
		}
		cloner := NewCloner(t.TempDir(), WithGitPath(filepath.Join(t.TempDir(), "no-git")))

		err := cloner.CloneAll(ctx, t.TempDir(), refs, "")

		assert.ErrorIs(t, err, domainErrors.ErrCloneFailure)
	})
}
