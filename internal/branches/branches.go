// Package branches correlates the branches of the satellite projects with the
// branches of the main product line.
package branches

import (
	"fmt"

	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/models"
)

// Mapping is one row of the table. An empty column means the satellite has no
// tracked dependency at that main-line branch.
type Mapping struct {
	Errai       models.Branch `toml:"errai,omitempty"`
	UberFire    models.Branch `toml:"uberfire,omitempty"`
	Dashbuilder models.Branch `toml:"dashbuilder,omitempty"`
	KIE         models.Branch `toml:"kie"`
}

// BranchFor returns the column for class. ok is false for a null column.
func (m Mapping) BranchFor(class models.RepositoryClass) (models.Branch, bool) {
	var b models.Branch
	switch class {
	case models.ClassErrai:
		b = m.Errai
	case models.ClassUberFire:
		b = m.UberFire
	case models.ClassDashbuilder:
		b = m.Dashbuilder
	default:
		b = m.KIE
	}
	return b, b != ""
}

// Table is searched first-match, in order.
type Table []Mapping

// DefaultTable returns the built-in mappings, newest release first.
func DefaultTable() Table {
	return Table{
		{Errai: "master", UberFire: "master", Dashbuilder: "master", KIE: "master"},
		{Errai: "4.0.x", UberFire: "1.3.x", Dashbuilder: "0.9.x", KIE: "7.3.x"},
		{Errai: "4.0.x", UberFire: "1.2.x", Dashbuilder: "0.8.x", KIE: "7.2.x"},
		{Errai: "4.0.x", UberFire: "1.0.x", Dashbuilder: "0.6.x", KIE: "7.0.x"},
		{Errai: "3.2", UberFire: "0.9.x", Dashbuilder: "0.5.x", KIE: "6.5.x"},
		{Errai: "3.2", UberFire: "0.8.x", Dashbuilder: "0.4.x", KIE: "6.4.x"},
		// errai was consumed as a released version on these lines
		{UberFire: "0.7.x", Dashbuilder: "0.3.x", KIE: "6.3.x"},
		{UberFire: "0.5.x", Dashbuilder: "0.2.x", KIE: "6.2.x"},
	}
}

// MappingFor returns the first row whose column for class equals branch.
func (t Table) MappingFor(class models.RepositoryClass, branch models.Branch) (Mapping, error) {
	for _, m := range t {
		if b, ok := m.BranchFor(class); ok && b == branch {
			return m, nil
		}
	}
	return Mapping{}, domainErrors.ErrNoMappingFound.
		WithMessage(fmt.Sprintf("No branch mapping found for %s branch %s", class, branch)).
		WithContext("class", class.String()).
		WithContext("branch", branch.String())
}

// BaseBranchFor translates otherBranch of otherRepo into the branch repo has to
// be built from. ok is false when repo is not tracked on that line.
func (t Table) BaseBranchFor(repo, otherRepo string, otherBranch models.Branch) (models.Branch, bool, error) {
	m, err := t.MappingFor(models.Classify(otherRepo), otherBranch)
	if err != nil {
		return "", false, err
	}
	b, ok := m.BranchFor(models.Classify(repo))
	return b, ok, nil
}

// Validate checks that every row carries a main-line branch and that no
// column value repeats within a class, which would make lookups ambiguous.
func (t Table) Validate() error {
	seen := map[models.RepositoryClass]map[models.Branch]bool{}
	classes := []models.RepositoryClass{models.ClassMainLine, models.ClassUberFire, models.ClassDashbuilder}
	for i, m := range t {
		if m.KIE == "" {
			return domainErrors.ErrInvalidCatalog.WithMessage(fmt.Sprintf("mapping #%d has no kie branch", i+1))
		}
		for _, class := range classes {
			b, ok := m.BranchFor(class)
			if !ok {
				continue
			}
			if seen[class] == nil {
				seen[class] = map[models.Branch]bool{}
			}
			if seen[class][b] {
				return domainErrors.ErrInvalidCatalog.
					WithMessage(fmt.Sprintf("mapping #%d repeats %s branch %s", i+1, class, b))
			}
			seen[class][b] = true
		}
	}
	return nil
}
