package config

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/kiegroup/kie-pr-builds/internal/config"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func setupConfigTest(t *testing.T) (*config.Config, *i18n.Translations) {
	t.Helper()
	cfg := config.Default()
	cfg.PathFile = filepath.Join(t.TempDir(), ".kie-pr-builds", "config.toml")

	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return cfg, translations
}

func runConfig(t *testing.T, cfg *config.Config, translations *i18n.Translations, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := &cli.Command{
		Name:     "kie-pr-builds",
		Writer:   &out,
		Commands: []*cli.Command{NewConfigCommandFactory().CreateCommand(translations, cfg)},
	}
	err := app.Run(context.Background(), append([]string{"kie-pr-builds", "config"}, args...))
	return out.String(), err
}

func TestShowCommand(t *testing.T) {
	t.Run("should show the configuration without a token", func(t *testing.T) {
		cfg, translations := setupConfigTest(t)

		out, err := runConfig(t, cfg, translations, "show")

		require.NoError(t, err)
		assert.Contains(t, out, "Current configuration")
		assert.Contains(t, out, cfg.PathFile)
		assert.Contains(t, out, "GitHub token: not set")
		assert.Contains(t, out, "downstream")
		assert.NotContains(t, out, "reference_dir")
	})

	t.Run("should never print the token", func(t *testing.T) {
		cfg, translations := setupConfigTest(t)
		cfg.GitHubToken = "ghp_secret"
		cfg.ReferenceDir = "/home/jenkins/git-repos"

		out, err := runConfig(t, cfg, translations, "show")

		require.NoError(t, err)
		assert.Contains(t, out, "GitHub token: set")
		assert.NotContains(t, out, "ghp_secret")
		assert.Contains(t, out, "/home/jenkins/git-repos")
	})
}

func TestSetTokenCommand(t *testing.T) {
	t.Run("should save the token", func(t *testing.T) {
		cfg, translations := setupConfigTest(t)

		out, err := runConfig(t, cfg, translations, "set-token", "ghp_secret")

		require.NoError(t, err)
		assert.Contains(t, out, "GitHub token saved")

		loaded, err := config.LoadConfig(cfg.PathFile)
		require.NoError(t, err)
		assert.Equal(t, "ghp_secret", loaded.GitHubToken)
	})

	t.Run("should require a token", func(t *testing.T) {
		cfg, translations := setupConfigTest(t)

		_, err := runConfig(t, cfg, translations, "set-token")

		assert.EqualError(t, err, "Expected a token")
		assert.NoFileExists(t, cfg.PathFile)
	})
}

func TestSetLangCommand(t *testing.T) {
	t.Run("should save and switch the language", func(t *testing.T) {
		cfg, translations := setupConfigTest(t)

		out, err := runConfig(t, cfg, translations, "set-lang", "ES")

		require.NoError(t, err)
		assert.Contains(t, out, "Idioma cambiado a es")
		assert.Equal(t, "es", cfg.Language)

		loaded, err := config.LoadConfig(cfg.PathFile)
		require.NoError(t, err)
		assert.Equal(t, "es", loaded.Language)
	})

	t.Run("should reject unsupported languages", func(t *testing.T) {
		cfg, translations := setupConfigTest(t)

		_, err := runConfig(t, cfg, translations, "set-lang", "fr")

		assert.EqualError(t, err, "Language 'fr' is not supported")
		assert.Equal(t, "en", cfg.Language)
	})
}
