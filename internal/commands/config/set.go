package config

import (
	"context"
	"errors"
	"strings"

	"github.com/kiegroup/kie-pr-builds/internal/config"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/kiegroup/kie-pr-builds/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetTokenCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set-token",
		Usage:     t.GetMessage("config.set_token_usage", 0, nil),
		ArgsUsage: "<token>",
		Action: func(ctx context.Context, command *cli.Command) error {
			token := strings.TrimSpace(command.Args().First())
			if token == "" {
				return errors.New(t.GetMessage("config.token_missing", 0, nil))
			}

			cfg.GitHubToken = token
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}

			ui.PrintSuccess(command.Root().Writer, t.GetMessage("config.token_saved", 0, nil))
			return nil
		},
	}
}

func (c *ConfigCommandFactory) newSetLangCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set-lang",
		Usage:     t.GetMessage("config.set_lang_usage", 0, nil),
		ArgsUsage: "<" + config.LangEN + "|" + config.LangES + ">",
		Action: func(ctx context.Context, command *cli.Command) error {
			lang := strings.ToLower(strings.TrimSpace(command.Args().First()))
			if lang == "" {
				return errors.New(t.GetMessage("config.lang_missing", 0, nil))
			}
			if config.SupportedLanguage(lang) != lang {
				return errors.New(t.GetMessage("config.lang_unsupported", 0, map[string]interface{}{"Lang": lang}))
			}

			cfg.Language = lang
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}
			if err := t.SetLanguage(lang); err != nil {
				return err
			}

			ui.PrintSuccess(command.Root().Writer, t.GetMessage("config.lang_saved", 0, map[string]interface{}{"Lang": lang}))
			return nil
		},
	}
}
