package main

import (
	"context"
	"log"
	"os"

	"github.com/kiegroup/kie-pr-builds/internal/commands/build"
	catalogCmd "github.com/kiegroup/kie-pr-builds/internal/commands/catalog"
	configCmd "github.com/kiegroup/kie-pr-builds/internal/commands/config"
	"github.com/kiegroup/kie-pr-builds/internal/commands/refs"
	"github.com/kiegroup/kie-pr-builds/internal/commands/registry"
	"github.com/kiegroup/kie-pr-builds/internal/commands/repos"
	versionCmd "github.com/kiegroup/kie-pr-builds/internal/commands/version"
	cfg "github.com/kiegroup/kie-pr-builds/internal/config"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/kiegroup/kie-pr-builds/internal/logger"
	"github.com/kiegroup/kie-pr-builds/internal/services"
	"github.com/kiegroup/kie-pr-builds/internal/ui"
	"github.com/kiegroup/kie-pr-builds/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, translations, err := initializeApp()
	if err != nil {
		log.Fatalf("Error starting the cli: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.HandleAppError(err, translations)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	path, err := cfg.DefaultPath()
	if err != nil {
		return nil, nil, err
	}

	cfgApp, err := cfg.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	cfgApp.ApplyEnv(os.LookupEnv)

	translations, err := i18n.NewTranslations(cfg.SupportedLanguage(cfgApp.Language), "")
	if err != nil {
		return nil, nil, err
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)

	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"build", build.NewBuildCommandFactory()},
		{"refs", refs.NewRefsCommandFactory()},
		{"repos", repos.NewReposCommandFactory()},
		{"catalog", catalogCmd.NewCatalogCommandFactory()},
		{"config", configCmd.NewConfigCommandFactory()},
		{"version", versionCmd.NewVersionCommandFactory(version.FullVersion(), services.NewVersionChecker(version.Version, nil))},
	}
	for _, f := range factories {
		if err := registerCommand.Register(f.name, f.factory); err != nil {
			return nil, nil, err
		}
	}

	commands := registerCommand.CreateCommands()
	commands = append(commands, &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   translations.GetMessage("help_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	})

	return &cli.Command{
		Name:        "kie-pr-builds",
		Usage:       translations.GetMessage("app_usage", 0, nil),
		Version:     version.Version,
		Description: translations.GetMessage("app_description", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Sources: cli.EnvVars("KIE_PR_BUILDS_DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Initialize(cmd.Bool("debug"), cmd.Bool("quiet"))
			return ctx, nil
		},
		Commands:              commands,
		EnableShellCompletion: true,
	}, translations, nil
}
