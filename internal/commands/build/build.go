package build

import (
	"context"

	"github.com/kiegroup/kie-pr-builds/internal/catalog"
	"github.com/kiegroup/kie-pr-builds/internal/config"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/kiegroup/kie-pr-builds/internal/models"
	"github.com/kiegroup/kie-pr-builds/internal/services"
	"github.com/kiegroup/kie-pr-builds/internal/ui"
	"github.com/urfave/cli/v3"
)

type prBuild interface {
	Perform(ctx context.Context, env services.Environment) bool
}

type BuildCommandFactory struct {
	newBuild func(cfg *config.Config, opts ...services.PRBuilderOption) prBuild
	environ  func() services.Environment
}

func NewBuildCommandFactory() *BuildCommandFactory {
	return &BuildCommandFactory{
		newBuild: func(cfg *config.Config, opts ...services.PRBuilderOption) prBuild {
			return services.NewPRBuilder(cfg, opts...)
		},
		environ: services.EnvironmentFromOS,
	}
}

func (f *BuildCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "build",
		Aliases: []string{"b"},
		Usage:   t.GetMessage("build.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "scope",
				Usage: t.GetMessage("build.flag_scope", 0, nil),
				Value: cfg.Scope,
				Validator: func(s string) error {
					_, err := models.ParseBuildScope(s)
					return err
				},
			},
			&cli.StringFlag{
				Name:  "build-dir",
				Usage: t.GetMessage("build.flag_build_dir", 0, nil),
				Value: cfg.BuildDir,
			},
			&cli.StringFlag{
				Name:  "reference-dir",
				Usage: t.GetMessage("build.flag_reference_dir", 0, nil),
				Value: cfg.ReferenceDir,
			},
			&cli.StringFlag{
				Name:  "mvn-home",
				Usage: t.GetMessage("build.flag_mvn_home", 0, nil),
				Value: cfg.Maven.Home,
			},
			&cli.StringFlag{
				Name:  "mvn-opts",
				Usage: t.GetMessage("build.flag_mvn_opts", 0, nil),
				Value: cfg.Maven.Opts,
			},
			&cli.StringFlag{
				Name:  "mvn-args",
				Usage: t.GetMessage("build.flag_mvn_args", 0, nil),
				Value: cfg.Maven.Args,
			},
			&cli.StringFlag{
				Name:  "pr-link",
				Usage: t.GetMessage("build.flag_pr_link", 0, nil),
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: t.GetMessage("build.flag_catalog", 0, nil),
				Value: cfg.CatalogFile,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			scope, err := models.ParseBuildScope(command.String("scope"))
			if err != nil {
				return err
			}

			cat, err := catalog.Load(command.String("catalog"))
			if err != nil {
				return err
			}

			env := f.environ()
			if link := command.String("pr-link"); link != "" {
				env[cfg.PRLinkEnv] = link
			}

			w := command.Root().Writer
			builder := f.newBuild(cfg,
				services.WithResolver(cat.Resolver(cfg.ManifestBaseURL)),
				services.WithScope(scope),
				services.WithBuildDir(command.String("build-dir")),
				services.WithReferenceDir(command.String("reference-dir")),
				services.WithBuildStep(services.BuildStep{
					MavenHome: command.String("mvn-home"),
					MavenOpts: command.String("mvn-opts"),
					MavenArgs: command.String("mvn-args"),
				}),
				services.WithOutput(w),
				services.WithProgress(ui.ProgressPrinter(w, t)))

			if !builder.Perform(ctx, env) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
