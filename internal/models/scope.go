package models

import "fmt"

// BuildScope selects which part of the resolved repository list gets built,
// relative to the repository the pull request was opened against.
type BuildScope string

const (
	// ScopeUpstream builds the repositories the PR repository depends on.
	ScopeUpstream BuildScope = "upstream"
	// ScopeDownstream builds the PR repository and everything that depends on it.
	ScopeDownstream BuildScope = "downstream"
	// ScopeFull builds the whole list.
	ScopeFull BuildScope = "full"
)

func ParseBuildScope(s string) (BuildScope, error) {
	switch BuildScope(s) {
	case ScopeUpstream, ScopeDownstream, ScopeFull:
		return BuildScope(s), nil
	}
	return "", fmt.Errorf("unknown build scope %q (expected upstream, downstream or full)", s)
}

// Filter returns the part of list covered by the scope. The PR repository is
// matched by owner and name, then by name alone since older release lines
// list the main-line repositories under a different organization. A
// repository missing from the list leaves nothing to build upstream and
// everything downstream.
func (s BuildScope) Filter(list RepositoryList, prRepo Repository) RepositoryList {
	idx := list.IndexOf(prRepo)
	if idx < 0 {
		idx = list.IndexOfName(prRepo.Name)
	}
	switch s {
	case ScopeUpstream:
		if idx < 0 {
			return RepositoryList{}
		}
		return list.Slice(0, idx)
	case ScopeDownstream:
		if idx < 0 {
			return list
		}
		return list.Slice(idx, list.Len())
	default:
		return list
	}
}
