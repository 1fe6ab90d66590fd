// Package refs decides which git ref every repository of a build is checked out at.
package refs

import (
	"context"
	"fmt"

	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/logger"
	"github.com/kiegroup/kie-pr-builds/internal/models"
	"github.com/kiegroup/kie-pr-builds/internal/vcs"
)

type Selector struct {
	finder vcs.PullRequestFinder
}

func NewSelector(finder vcs.PullRequestFinder) *Selector {
	return &Selector{finder: finder}
}

// Select returns one ref per repository of siblings, in list order. A
// repository with an open pull request from the same fork branch as current
// is built from that pull request's merge ref, any other repository from its
// base branch. The first unmergeable pull request stops the selection.
func (s *Selector) Select(ctx context.Context, siblings models.RepositoryList, current models.PullRequestSummary) ([]models.RepositoryRef, error) {
	log := logger.FromContext(ctx)
	sourceOwner := current.SourceRepo.Owner

	refs := make([]models.RepositoryRef, 0, siblings.Len())
	for _, item := range siblings.Items() {
		pr, found, err := s.finder.FindOpenPullRequest(ctx, item.Repo, current.SourceBranch, sourceOwner)
		if err != nil {
			return nil, err
		}

		if !found {
			refs = append(refs, models.RepositoryRef{
				Repo:    item.Repo,
				Branch:  item.Branch,
				RefSpec: models.BranchRefSpec(item.Branch),
			})
			continue
		}

		if !pr.Mergeable {
			return nil, unmergeable(ctx, item.Repo, pr)
		}

		summary := pr
		refs = append(refs, models.RepositoryRef{
			Repo:        item.Repo,
			Branch:      item.Branch,
			RefSpec:     models.MergeRefSpec(pr.Number, pr.SourceBranch),
			PullRequest: &summary,
		})
		log.Debug("building pull request merge ref",
			"repo", item.Repo.String(),
			"pr", pr.Number)
	}

	return refs, nil
}

func unmergeable(ctx context.Context, repo models.Repository, pr models.PullRequestSummary) error {
	state := "conflicting"
	if pr.MergeableUnknown {
		state = "unknown"
	}
	logger.FromContext(ctx).Error("pull request is not automatically mergeable",
		"repo", repo.String(),
		"pr", pr.Number,
		"mergeable_state", state)

	err := domainErrors.ErrUnmergeablePullRequest.
		WithContext("pr_number", pr.Number).
		WithContext("repo", repo.String()).
		WithContext("mergeable_state", state)
	if pr.MergeableUnknown {
		return err.
			WithMessage(fmt.Sprintf("GitHub has not computed yet whether PR %d for repo %s is mergeable", pr.Number, repo)).
			WithSuggestion("Wait a few seconds and run the build again")
	}
	return err.WithMessage(fmt.Sprintf("PR %d for repo %s is not automatically mergeable", pr.Number, repo))
}
