package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/kiegroup/kie-pr-builds/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mergeStyle  = cellStyle.Foreground(lipgloss.Color("2"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// PrintRepositoryList writes one row per repository, in build order.
func PrintRepositoryList(w io.Writer, t *i18n.Translations, list models.RepositoryList) {
	tbl := newTable("#",
		t.GetMessage("table.repository", 0, nil),
		t.GetMessage("table.branch", 0, nil)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for i, item := range list.Items() {
		tbl.Row(strconv.Itoa(i+1), item.Repo.String(), item.Branch.String())
	}
	_, _ = fmt.Fprintln(w, tbl.Render())
}

// PrintRefs writes the ref every repository is checked out at. Rows built from
// a pull request merge ref are highlighted.
func PrintRefs(w io.Writer, t *i18n.Translations, refs []models.RepositoryRef) {
	tbl := newTable("#",
		t.GetMessage("table.repository", 0, nil),
		t.GetMessage("table.origin", 0, nil),
		t.GetMessage("table.refspec", 0, nil)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row < len(refs) && refs[row].PullRequest != nil:
				return mergeStyle
			default:
				return cellStyle
			}
		})

	for i, ref := range refs {
		origin := t.GetMessage("refs.branch_ref", 0, nil)
		if ref.PullRequest != nil {
			origin = t.GetMessage("refs.merge_ref", 0, map[string]interface{}{"Number": ref.PullRequest.Number})
		}
		tbl.Row(strconv.Itoa(i+1), ref.Repo.String(), origin, ref.RefSpec.String())
	}
	_, _ = fmt.Fprintln(w, tbl.Render())
}

// ProgressPrinter renders build progress events as console lines.
func ProgressPrinter(w io.Writer, t *i18n.Translations) func(models.BuildProgress) {
	return func(p models.BuildProgress) {
		switch p.Type {
		case models.BuildProgressRepo:
			PrintSectionBanner(w, t.GetMessage("build.progress_repo", 0, map[string]interface{}{
				"Repo":    p.Repo,
				"Current": p.Current,
				"Total":   p.Total,
			}))
		case models.BuildProgressComplete:
			PrintSuccess(w, t.GetMessage("build.succeeded", 0, nil))
		case models.BuildProgressError:
			PrintError(w, t.GetMessage("build.failed", 0, nil))
		}
	}
}
