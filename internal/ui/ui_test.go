package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/kiegroup/kie-pr-builds/internal/models"
)

func newTranslations(t *testing.T) *i18n.Translations {
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return trans
}

func TestFprintAppError(t *testing.T) {
	t.Run("should print type, details and suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		err := domainErrors.ErrCloneFailure.
			WithError(errors.New("exit status 128")).
			WithContext("stderr", "fatal: couldn't find remote ref 7.3.x\n")

		FprintAppError(&buf, err, newTranslations(t))

		out := buf.String()
		assert.Contains(t, out, "GIT: Failed to clone repository")
		assert.Contains(t, out, "Details: exit status 128")
		assert.Contains(t, out, "fatal: couldn't find remote ref 7.3.x")
		assert.Contains(t, out, "Try: Check your network connection")
	})

	t.Run("should indent multi-line suggestions", func(t *testing.T) {
		var buf bytes.Buffer

		FprintAppError(&buf, domainErrors.ErrMissingCredential)

		assert.Contains(t, buf.String(), "💡 Try: Set one with: kie-pr-builds config set-token <token>\n       or export KIE_PR_BUILDS_GITHUB_TOKEN")
	})

	t.Run("should print plain errors", func(t *testing.T) {
		var buf bytes.Buffer

		FprintAppError(&buf, errors.New("boom"))

		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("nil is a no-op", func(t *testing.T) {
		var buf bytes.Buffer

		FprintAppError(&buf, nil)

		assert.Empty(t, buf.String())
	})
}

func TestPrintRefs(t *testing.T) {
	pr := models.PullRequestSummary{Number: 42}
	refs := []models.RepositoryRef{
		{Repo: models.NewRepository("kiegroup", "drools"), Branch: "7.3.x", RefSpec: models.BranchRefSpec("7.3.x")},
		{Repo: models.NewRepository("kiegroup", "jbpm"), Branch: "7.3.x", RefSpec: models.MergeRefSpec(42, "JBPM-1"), PullRequest: &pr},
	}
	var buf bytes.Buffer

	PrintRefs(&buf, newTranslations(t), refs)

	out := buf.String()
	assert.Contains(t, out, "Refspec")
	assert.Contains(t, out, "kiegroup/drools")
	assert.Contains(t, out, "7.3.x:7.3.x-pr-build")
	assert.Contains(t, out, "PR #42")
	assert.Contains(t, out, "pull/42/merge:pr42-JBPM-1-merge")
}

func TestPrintRepositoryList(t *testing.T) {
	list := models.NewRepositoryList(
		models.RepositoryBranch{Repo: models.NewRepository("uberfire", "uberfire"), Branch: "1.3.x"},
		models.RepositoryBranch{Repo: models.NewRepository("kiegroup", "drools"), Branch: "7.3.x"},
	)
	var buf bytes.Buffer

	PrintRepositoryList(&buf, newTranslations(t), list)

	out := buf.String()
	assert.Contains(t, out, "uberfire/uberfire")
	assert.Contains(t, out, "1.3.x")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("uberfire/uberfire")), bytes.Index(buf.Bytes(), []byte("kiegroup/drools")))
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	progress := ProgressPrinter(&buf, newTranslations(t))

	progress(models.BuildProgress{Type: models.BuildProgressState, State: "Init"})
	progress(models.BuildProgress{Type: models.BuildProgressRepo, Repo: "kiegroup/drools", Current: 1, Total: 3})
	progress(models.BuildProgress{Type: models.BuildProgressComplete, Total: 3})

	out := buf.String()
	assert.NotContains(t, out, "Init")
	assert.Contains(t, out, "Building kiegroup/drools (1/3)")
	assert.Contains(t, out, "Build finished successfully")
}
