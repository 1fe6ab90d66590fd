package repolist

import (
	"fmt"

	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/models"
)

const (
	KieGroupOrg   = "kiegroup"
	DroolsJBPMOrg = "droolsjbpm"
)

// Release describes one maintained release line. Keys are namespaced branch
// ids ("<namespace>:<branch>") that select the line.
type Release struct {
	Keys           []string
	Satellites     []models.Repository
	ManifestOrg    string
	ManifestBranch models.Branch
}

var (
	errai              = models.NewRepository("errai", "errai")
	uberfire           = models.NewRepository("uberfire", "uberfire")
	uberfireExtensions = models.NewRepository("uberfire", "uberfire-extensions")
	dashbuilder        = models.NewRepository("dashbuilder", "dashbuilder")
)

// MasterSatellites are built on top of every master build.
func MasterSatellites() []models.Repository {
	return []models.Repository{errai, uberfire, dashbuilder}
}

// DefaultReleases returns the built-in release lines.
func DefaultReleases() []Release {
	return []Release{
		{
			Keys:           []string{"kiegroup:7.3.x", "dashbuilder:0.9.x", "uberfire:1.3.x"},
			Satellites:     []models.Repository{errai, uberfire, dashbuilder},
			ManifestOrg:    KieGroupOrg,
			ManifestBranch: "7.3.x",
		},
		{
			Keys:           []string{"kiegroup:7.2.x", "dashbuilder:0.8.x", "uberfire:1.2.x"},
			Satellites:     []models.Repository{errai, uberfire, dashbuilder},
			ManifestOrg:    KieGroupOrg,
			ManifestBranch: "7.2.x",
		},
		{
			Keys:           []string{"kiegroup:7.0.x", "dashbuilder:0.6.x", "uberfire:1.0.x"},
			Satellites:     []models.Repository{errai, uberfire, dashbuilder},
			ManifestOrg:    KieGroupOrg,
			ManifestBranch: "7.0.x",
		},
		{
			Keys:           []string{"kiegroup:6.5.x", "dashbuilder:0.5.x", "uberfire:0.9.x"},
			Satellites:     []models.Repository{uberfire, uberfireExtensions, dashbuilder},
			ManifestOrg:    DroolsJBPMOrg,
			ManifestBranch: "6.5.x",
		},
	}
}

// ValidateReleases rejects lines without keys or manifest location and keys
// claimed by more than one line.
func ValidateReleases(releases []Release) error {
	seen := map[string]int{}
	for i, rel := range releases {
		if len(rel.Keys) == 0 {
			return domainErrors.ErrInvalidCatalog.WithMessage(fmt.Sprintf("release #%d has no keys", i+1))
		}
		if rel.ManifestOrg == "" || rel.ManifestBranch == "" {
			return domainErrors.ErrInvalidCatalog.WithMessage(fmt.Sprintf("release #%d has no manifest location", i+1))
		}
		for _, key := range rel.Keys {
			if prev, ok := seen[key]; ok {
				return domainErrors.ErrInvalidCatalog.
					WithMessage(fmt.Sprintf("key %s used by releases #%d and #%d", key, prev+1, i+1))
			}
			seen[key] = i
		}
	}
	return nil
}
