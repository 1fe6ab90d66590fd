package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kiegroup/kie-pr-builds/internal/models"
)

type (
	Config struct {
		GitHubToken     string `toml:"github_token,omitempty"`
		GitHubAPIURL    string `toml:"github_api_url,omitempty"`
		CloneBaseURL    string `toml:"clone_base_url,omitempty"`
		ManifestBaseURL string `toml:"manifest_base_url,omitempty"`
		CatalogFile     string `toml:"catalog_file,omitempty"`

		BuildDir     string `toml:"build_dir"`
		ReferenceDir string `toml:"reference_dir,omitempty"`
		Scope        string `toml:"scope"`
		PRLinkEnv    string `toml:"pr_link_env"`
		Language     string `toml:"language"`

		Maven MavenConfig `toml:"maven"`

		PathFile string `toml:"-"`
	}

	MavenConfig struct {
		Home string `toml:"home,omitempty"`
		Opts string `toml:"opts,omitempty"`
		Args string `toml:"args"`
	}
)

const (
	configDirName = ".kie-pr-builds"
	configFile    = "config.toml"

	defaultBuildDir  = "sources"
	defaultPRLinkEnv = "ghprbPullLink"
	defaultMavenArgs = "-B -e clean install"

	EnvGitHubToken       = "KIE_PR_BUILDS_GITHUB_TOKEN"
	EnvGitHubTokenShared = "GITHUB_TOKEN"
)

// DefaultPath returns ~/.kie-pr-builds/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	if home == "" {
		return "", errors.New("home directory is not set")
	}
	return filepath.Join(home, configDirName, configFile), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		BuildDir:  defaultBuildDir,
		Scope:     string(models.ScopeDownstream),
		PRLinkEnv: defaultPRLinkEnv,
		Language:  LangEN,
		Maven: MavenConfig{
			Args: defaultMavenArgs,
		},
	}
}

// LoadConfig reads the file at path. A missing file yields the defaults; the
// file is only written by SaveConfig.
func LoadConfig(path string) (*Config, error) {
	config := Default()
	config.PathFile = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking config file: %w", err)
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
	}
	config.PathFile = path

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return config, nil
}

// ApplyEnv overrides file values with the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for _, key := range []string{EnvGitHubToken, EnvGitHubTokenShared} {
		if v, ok := lookup(key); ok && v != "" {
			c.GitHubToken = v
			return
		}
	}
}

func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if config.PathFile == "" {
		return errors.New("config file path is not defined")
	}

	if err := os.MkdirAll(filepath.Dir(config.PathFile), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	f, err := os.OpenFile(config.PathFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

func validateConfig(config *Config) error {
	if config.BuildDir == "" {
		return errors.New("build_dir can not be empty")
	}
	if config.PRLinkEnv == "" {
		return errors.New("pr_link_env can not be empty")
	}
	if config.Language == "" {
		return errors.New("language can not be empty")
	}
	if _, err := models.ParseBuildScope(config.Scope); err != nil {
		return err
	}
	return nil
}
