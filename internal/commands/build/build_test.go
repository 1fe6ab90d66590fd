package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kiegroup/kie-pr-builds/internal/config"
	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/kiegroup/kie-pr-builds/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

type fakeBuild struct {
	*services.PRBuilder
	ok  bool
	env services.Environment
}

func (f *fakeBuild) Perform(_ context.Context, env services.Environment) bool {
	f.env = env
	return f.ok
}

type harness struct {
	factory *BuildCommandFactory
	build   *fakeBuild
	cfg     *config.Config
	t       *i18n.Translations
}

func newHarness(t *testing.T, ok bool) *harness {
	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	h := &harness{cfg: config.Default(), t: translations}
	h.factory = &BuildCommandFactory{
		newBuild: func(cfg *config.Config, opts ...services.PRBuilderOption) prBuild {
			h.build = &fakeBuild{PRBuilder: services.NewPRBuilder(cfg, opts...), ok: ok}
			return h.build
		},
		environ: func() services.Environment {
			return services.Environment{"ghprbPullLink": "https://github.com/kiegroup/drools/pull/1", "BUILD_NUMBER": "3"}
		},
	}
	return h
}

func (h *harness) run(args ...string) error {
	var out bytes.Buffer
	app := &cli.Command{
		Name:           "kie-pr-builds",
		Writer:         &out,
		ErrWriter:      &out,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Commands:       []*cli.Command{h.factory.CreateCommand(h.t, h.cfg)},
	}
	return app.Run(context.Background(), append([]string{"kie-pr-builds", "build"}, args...))
}

func TestBuildCommand(t *testing.T) {
	t.Run("should run the build with the environment of the job", func(t *testing.T) {
		h := newHarness(t, true)

		err := h.run()

		require.NoError(t, err)
		require.NotNil(t, h.build)
		assert.Equal(t, "KIE PR downstream build", h.build.Description())
		assert.Equal(t, "https://github.com/kiegroup/drools/pull/1", h.build.env.Get("ghprbPullLink"))
		assert.Equal(t, "3", h.build.env.Get("BUILD_NUMBER"))
	})

	t.Run("flags override the configuration", func(t *testing.T) {
		h := newHarness(t, true)

		err := h.run("--scope", "upstream", "--pr-link", "https://github.com/kiegroup/jbpm/pull/9")

		require.NoError(t, err)
		assert.Equal(t, "KIE PR upstream build", h.build.Description())
		assert.Equal(t, "https://github.com/kiegroup/jbpm/pull/9", h.build.env.Get("ghprbPullLink"))
	})

	t.Run("failed build exits with code 1", func(t *testing.T) {
		h := newHarness(t, false)

		err := h.run()

		var exitErr cli.ExitCoder
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.ExitCode())
	})

	t.Run("invalid scope is rejected before building", func(t *testing.T) {
		h := newHarness(t, true)

		err := h.run("--scope", "sideways")

		assert.Error(t, err)
		assert.Nil(t, h.build)
	})

	t.Run("broken catalog fails before building", func(t *testing.T) {
		h := newHarness(t, true)
		path := filepath.Join(t.TempDir(), "catalog.toml")
		require.NoError(t, os.WriteFile(path, []byte("[[mapping]"), 0644))

		err := h.run("--catalog", path)

		assert.ErrorIs(t, err, domainErrors.ErrInvalidCatalog)
		assert.Nil(t, h.build)
	})
}
