package version

import (
	"context"
	"fmt"

	"github.com/kiegroup/kie-pr-builds/internal/config"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/kiegroup/kie-pr-builds/internal/logger"
	"github.com/kiegroup/kie-pr-builds/internal/ui"
	"github.com/urfave/cli/v3"
)

type updateChecker interface {
	CheckForUpdates(ctx context.Context) (string, bool, error)
}

type VersionCommandFactory struct {
	currentVersion string
	checker        updateChecker
}

func NewVersionCommandFactory(currentVersion string, checker updateChecker) *VersionCommandFactory {
	return &VersionCommandFactory{
		currentVersion: currentVersion,
		checker:        checker,
	}
}

func (f *VersionCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: t.GetMessage("version.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: t.GetMessage("version.flag_check", 0, nil),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			w := command.Root().Writer
			_, _ = fmt.Fprintln(w, t.GetMessage("version.current", 0, map[string]interface{}{"Version": f.currentVersion}))

			if !command.Bool("check") {
				return nil
			}

			latest, newer, err := f.checker.CheckForUpdates(ctx)
			if err != nil {
				logger.Warn(ctx, "update check failed", "error", err)
				ui.PrintWarning(w, t.GetMessage("version.check_failed", 0, nil))
				return nil
			}
			if newer {
				ui.PrintInfo(w, t.GetMessage("version.update_available", 0, map[string]interface{}{"Latest": latest}))
			} else {
				ui.PrintSuccess(w, t.GetMessage("version.up_to_date", 0, nil))
			}
			return nil
		},
	}
}
