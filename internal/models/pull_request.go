package models

import (
	"fmt"
	"time"
)

// PullRequestSummary holds what the build needs to know about one open pull request.
// MergeableUnknown is set while GitHub has not computed mergeability yet.
type PullRequestSummary struct {
	SourceRepo       Repository
	SourceBranch     Branch
	TargetRepo       Repository
	TargetBranch     Branch
	Number           int
	Mergeable        bool
	MergeableUnknown bool
	CreatedAt        time.Time
}

// Link returns the web URL of the pull request.
func (pr PullRequestSummary) Link() string {
	return fmt.Sprintf("https://github.com/%s/pull/%d", pr.TargetRepo, pr.Number)
}

func (pr PullRequestSummary) String() string {
	return fmt.Sprintf("%s#%d (%s:%s -> %s)", pr.TargetRepo, pr.Number, pr.SourceRepo.Owner, pr.SourceBranch, pr.TargetBranch)
}
