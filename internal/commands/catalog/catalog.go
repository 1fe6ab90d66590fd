package catalog

import (
	"context"

	"github.com/kiegroup/kie-pr-builds/internal/catalog"
	"github.com/kiegroup/kie-pr-builds/internal/config"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/urfave/cli/v3"
)

type CatalogCommandFactory struct{}

func NewCatalogCommandFactory() *CatalogCommandFactory {
	return &CatalogCommandFactory{}
}

// CreateCommand prints the catalog in effect, which is a starting point for a
// custom catalog_file.
func (f *CatalogCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: t.GetMessage("catalog.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "catalog",
				Usage: t.GetMessage("build.flag_catalog", 0, nil),
				Value: cfg.CatalogFile,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			cat, err := catalog.Load(command.String("catalog"))
			if err != nil {
				return err
			}
			return cat.Write(command.Root().Writer)
		},
	}
}
