package regex

import "regexp"

var (
	// GitHub linkage patterns
	PullRequestLink = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([^/]+)/([^/]+)/pull/(\d+)(?:[/?#].*)?$`)

	// Catalog patterns
	ReleaseKey = regexp.MustCompile(`^([A-Za-z0-9._-]+):([A-Za-z0-9._/-]+)$`)
)
