// Package catalog loads the branch mapping table and the release lines from a
// TOML file, so a new release line needs no code change.
package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kiegroup/kie-pr-builds/internal/branches"
	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/models"
	"github.com/kiegroup/kie-pr-builds/internal/regex"
	"github.com/kiegroup/kie-pr-builds/internal/repolist"
)

// Catalog holds the tables the repository list resolver works from.
type Catalog struct {
	Table    branches.Table
	Releases []repolist.Release
}

type file struct {
	Mappings []branches.Mapping `toml:"mapping"`
	Releases []releaseEntry     `toml:"release"`
}

type releaseEntry struct {
	Keys           []string `toml:"keys"`
	Satellites     []string `toml:"satellites"`
	ManifestOrg    string   `toml:"manifest_org"`
	ManifestBranch string   `toml:"manifest_branch"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Table:    branches.DefaultTable(),
		Releases: repolist.DefaultReleases(),
	}
}

// Load reads the catalog at path. A file without [[mapping]] entries keeps the
// built-in table and one without [[release]] entries keeps the built-in
// release lines. An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domainErrors.ErrInvalidCatalog.
			WithMessage(fmt.Sprintf("Can not read catalog %s", path)).
			WithError(err)
	}

	return Parse(string(data))
}

// Parse decodes a catalog document.
func Parse(data string) (*Catalog, error) {
	var f file
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, domainErrors.ErrInvalidCatalog.WithError(err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, domainErrors.ErrInvalidCatalog.
			WithMessage(fmt.Sprintf("Unknown catalog key %s", undecoded[0]))
	}

	c := Default()
	if len(f.Mappings) > 0 {
		c.Table = f.Mappings
	}
	if len(f.Releases) > 0 {
		releases, err := toReleases(f.Releases)
		if err != nil {
			return nil, err
		}
		c.Releases = releases
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks both tables.
func (c *Catalog) Validate() error {
	if err := c.Table.Validate(); err != nil {
		return err
	}
	for _, rel := range c.Releases {
		for _, key := range rel.Keys {
			if !regex.ReleaseKey.MatchString(key) {
				return domainErrors.ErrInvalidCatalog.
					WithMessage(fmt.Sprintf("Release key %q is not of the form <namespace>:<branch>", key))
			}
		}
	}
	return repolist.ValidateReleases(c.Releases)
}

// Resolver returns a repository list resolver working from c. Manifests are
// read below manifestBaseURL, or from GitHub when it is empty.
func (c *Catalog) Resolver(manifestBaseURL string) *repolist.Resolver {
	return repolist.NewResolver(c.Table, c.Releases, repolist.NewManifestFetcher(nil, manifestBaseURL))
}

// Write encodes c in the format Load reads.
func (c *Catalog) Write(w io.Writer) error {
	f := file{Mappings: c.Table}
	for _, rel := range c.Releases {
		entry := releaseEntry{
			Keys:           rel.Keys,
			ManifestOrg:    rel.ManifestOrg,
			ManifestBranch: rel.ManifestBranch.String(),
		}
		for _, repo := range rel.Satellites {
			entry.Satellites = append(entry.Satellites, repo.String())
		}
		f.Releases = append(f.Releases, entry)
	}
	return toml.NewEncoder(w).Encode(f)
}

func toReleases(entries []releaseEntry) ([]repolist.Release, error) {
	releases := make([]repolist.Release, 0, len(entries))
	for i, e := range entries {
		rel := repolist.Release{
			Keys:           e.Keys,
			ManifestOrg:    e.ManifestOrg,
			ManifestBranch: models.Branch(e.ManifestBranch),
		}
		for _, s := range e.Satellites {
			owner, name, ok := strings.Cut(s, "/")
			if !ok || owner == "" || name == "" {
				return nil, domainErrors.ErrInvalidCatalog.
					WithMessage(fmt.Sprintf("release #%d: satellite %q is not of the form <owner>/<name>", i+1, s))
			}
			rel.Satellites = append(rel.Satellites, models.NewRepository(owner, name))
		}
		releases = append(releases, rel)
	}
	return releases, nil
}
