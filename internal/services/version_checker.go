package services

import (
	"context"
	"strings"

	"github.com/google/go-github/v80/github"
	"golang.org/x/mod/semver"

	"github.com/kiegroup/kie-pr-builds/internal/logger"
)

const (
	releaseOwner = "kiegroup"
	releaseRepo  = "kie-pr-builds"
)

type latestReleaseService interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error)
}

// VersionChecker compares the running version with the latest published release.
type VersionChecker struct {
	currentVersion string
	releases       latestReleaseService
}

func NewVersionChecker(version string, releases latestReleaseService) *VersionChecker {
	if releases == nil {
		releases = github.NewClient(nil).Repositories
	}
	return &VersionChecker{
		currentVersion: version,
		releases:       releases,
	}
}

// CheckForUpdates returns the latest release tag and whether it is newer
// than the running version.
func (v *VersionChecker) CheckForUpdates(ctx context.Context) (string, bool, error) {
	release, _, err := v.releases.GetLatestRelease(ctx, releaseOwner, releaseRepo)
	if err != nil {
		logger.FromContext(ctx).Debug("latest release lookup failed", "error", err)
		return "", false, err
	}

	latest := release.GetTagName()
	return latest, v.isUpdateAvailable(latest), nil
}

func (v *VersionChecker) isUpdateAvailable(latest string) bool {
	current := v.currentVersion
	if !strings.HasPrefix(current, "v") {
		current = "v" + current
	}
	if !strings.HasPrefix(latest, "v") {
		latest = "v" + latest
	}

	if !semver.IsValid(current) || !semver.IsValid(latest) {
		return current != latest
	}

	return semver.Compare(latest, current) > 0
}
