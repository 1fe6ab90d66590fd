package repos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kiegroup/kie-pr-builds/internal/catalog"
	"github.com/kiegroup/kie-pr-builds/internal/config"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/kiegroup/kie-pr-builds/internal/models"
	"github.com/kiegroup/kie-pr-builds/internal/ui"
	"github.com/urfave/cli/v3"
)

type ReposCommandFactory struct{}

func NewReposCommandFactory() *ReposCommandFactory {
	return &ReposCommandFactory{}
}

func (f *ReposCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "repos",
		Usage:     t.GetMessage("repos.usage", 0, nil),
		ArgsUsage: t.GetMessage("repos.args_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "catalog",
				Usage: t.GetMessage("build.flag_catalog", 0, nil),
				Value: cfg.CatalogFile,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			owner, name, ok := strings.Cut(command.Args().Get(0), "/")
			branch := command.Args().Get(1)
			if !ok || owner == "" || name == "" || branch == "" {
				return errors.New(t.GetMessage("repos.missing_args", 0, nil))
			}
			repo := models.NewRepository(owner, name)

			cat, err := catalog.Load(command.String("catalog"))
			if err != nil {
				return err
			}

			var list models.RepositoryList
			err = ui.WithSpinner(t.GetMessage("repos.resolving", 0, nil), func() error {
				list, err = cat.Resolver(cfg.ManifestBaseURL).Resolve(ctx, repo, models.Branch(branch))
				return err
			})
			if err != nil {
				return err
			}

			w := command.Root().Writer
			_, _ = fmt.Fprintln(w, t.GetMessage("repos.header", 0, map[string]interface{}{
				"Repo":   repo.String(),
				"Branch": branch,
			}))
			ui.PrintRepositoryList(w, t, list)
			return nil
		},
	}
}
