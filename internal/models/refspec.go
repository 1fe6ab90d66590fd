package models

import "fmt"

// RefSpec is a git fetch refspec of the form <source>:<destination>.
type RefSpec struct {
	Source      string
	Destination string
}

// BranchRefSpec builds the refspec used when a repository is built from its base branch.
func BranchRefSpec(branch Branch) RefSpec {
	return RefSpec{
		Source:      branch.String(),
		Destination: fmt.Sprintf("%s-pr-build", branch),
	}
}

// MergeRefSpec builds the refspec pointing at the merge ref GitHub exposes for a pull request.
func MergeRefSpec(number int, sourceBranch Branch) RefSpec {
	return RefSpec{
		Source:      fmt.Sprintf("pull/%d/merge", number),
		Destination: fmt.Sprintf("pr%d-%s-merge", number, sourceBranch),
	}
}

func (r RefSpec) String() string {
	return r.Source + ":" + r.Destination
}

// LocalBranch is the branch created locally by fetching the refspec.
func (r RefSpec) LocalBranch() string {
	return r.Destination
}

// RepositoryRef is the resolved build instruction for one repository.
type RepositoryRef struct {
	Repo    Repository
	Branch  Branch
	RefSpec RefSpec
	// PullRequest is set when the ref points at a pull request merge ref.
	PullRequest *PullRequestSummary
}
