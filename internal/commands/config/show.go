package config

import (
	"context"
	"fmt"

	"github.com/kiegroup/kie-pr-builds/internal/config"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/kiegroup/kie-pr-builds/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			w := command.Root().Writer

			_, _ = fmt.Fprintln(w, t.GetMessage("config.current", 0, nil))
			_, _ = fmt.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━")
			_, _ = fmt.Fprintln(w, t.GetMessage("config.path_label", 0, map[string]interface{}{"Path": cfg.PathFile}))

			if cfg.GitHubToken == "" {
				ui.PrintWarning(w, t.GetMessage("config.token_not_set", 0, nil))
			} else {
				ui.PrintSuccess(w, t.GetMessage("config.token_set", 0, nil))
			}

			ui.PrintKeyValue(w, "language", cfg.Language)
			ui.PrintKeyValue(w, "scope", cfg.Scope)
			ui.PrintKeyValue(w, "build_dir", cfg.BuildDir)
			ui.PrintKeyValue(w, "pr_link_env", cfg.PRLinkEnv)
			ui.PrintKeyValue(w, "maven.args", cfg.Maven.Args)

			optional := []struct{ key, value string }{
				{"reference_dir", cfg.ReferenceDir},
				{"catalog_file", cfg.CatalogFile},
				{"github_api_url", cfg.GitHubAPIURL},
				{"clone_base_url", cfg.CloneBaseURL},
				{"manifest_base_url", cfg.ManifestBaseURL},
				{"maven.home", cfg.Maven.Home},
				{"maven.opts", cfg.Maven.Opts},
			}
			for _, kv := range optional {
				if kv.value != "" {
					ui.PrintKeyValue(w, kv.key, kv.value)
				}
			}

			return nil
		},
	}
}
