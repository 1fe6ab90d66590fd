package refs

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiegroup/kie-pr-builds/internal/catalog"
	"github.com/kiegroup/kie-pr-builds/internal/config"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/kiegroup/kie-pr-builds/internal/models"
	"github.com/kiegroup/kie-pr-builds/internal/services"
	"github.com/kiegroup/kie-pr-builds/internal/ui"
	"github.com/urfave/cli/v3"
)

type refSelector interface {
	SelectRefs(ctx context.Context, link string) (models.PullRequestSummary, []models.RepositoryRef, error)
}

type RefsCommandFactory struct {
	newSelector func(cfg *config.Config, opts ...services.PRBuilderOption) refSelector
}

func NewRefsCommandFactory() *RefsCommandFactory {
	return &RefsCommandFactory{
		newSelector: func(cfg *config.Config, opts ...services.PRBuilderOption) refSelector {
			return services.NewPRBuilder(cfg, opts...)
		},
	}
}

func (f *RefsCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "refs",
		Usage:     t.GetMessage("refs.usage", 0, nil),
		ArgsUsage: t.GetMessage("refs.args_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "scope",
				Usage: t.GetMessage("build.flag_scope", 0, nil),
				Value: cfg.Scope,
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: t.GetMessage("build.flag_catalog", 0, nil),
				Value: cfg.CatalogFile,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			link := command.Args().First()
			if link == "" {
				return errors.New(t.GetMessage("refs.missing_args", 0, nil))
			}

			scope, err := models.ParseBuildScope(command.String("scope"))
			if err != nil {
				return err
			}

			cat, err := catalog.Load(command.String("catalog"))
			if err != nil {
				return err
			}

			selector := f.newSelector(cfg,
				services.WithResolver(cat.Resolver(cfg.ManifestBaseURL)),
				services.WithScope(scope))

			var (
				pr       models.PullRequestSummary
				selected []models.RepositoryRef
			)
			err = ui.WithSpinner(t.GetMessage("refs.selecting", 0, nil), func() error {
				pr, selected, err = selector.SelectRefs(ctx, link)
				return err
			})
			if err != nil {
				return err
			}

			w := command.Root().Writer
			_, _ = fmt.Fprintln(w, t.GetMessage("refs.header", 0, map[string]interface{}{"PR": pr.String()}))
			ui.PrintRefs(w, t, selected)
			return nil
		},
	}
}
