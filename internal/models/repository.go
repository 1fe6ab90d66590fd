package models

import (
	"fmt"
	"strings"
)

// Branch is a git branch name.
type Branch string

// BranchMaster is the default branch of every repository in the product family.
const BranchMaster Branch = "master"

func (b Branch) String() string {
	return string(b)
}

// Repository identifies a GitHub repository. Two repositories are equal when
// both owner and name are equal.
type Repository struct {
	Owner string
	Name  string
}

func NewRepository(owner, name string) Repository {
	return Repository{Owner: owner, Name: name}
}

func (r Repository) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// RepositoryClass tags a repository as part of the main line or of one of the
// satellite projects.
type RepositoryClass int

const (
	ClassMainLine RepositoryClass = iota
	ClassErrai
	ClassUberFire
	ClassDashbuilder
)

func (c RepositoryClass) String() string {
	switch c {
	case ClassErrai:
		return "errai"
	case ClassUberFire:
		return "uberfire"
	case ClassDashbuilder:
		return "dashbuilder"
	default:
		return "kie"
	}
}

// IsSatellite reports whether the class is one of the satellite projects.
func (c RepositoryClass) IsSatellite() bool {
	return c != ClassMainLine
}

// Classify returns the class of a repository based on its name prefix.
func Classify(repoName string) RepositoryClass {
	switch {
	case strings.HasPrefix(repoName, "errai"):
		return ClassErrai
	case strings.HasPrefix(repoName, "uberfire"):
		return ClassUberFire
	case strings.HasPrefix(repoName, "dashbuilder"):
		return ClassDashbuilder
	default:
		return ClassMainLine
	}
}

// RepositoryBranch pairs a repository with the branch it has to be built from.
type RepositoryBranch struct {
	Repo   Repository
	Branch Branch
}

// RepositoryList is the ordered set of repositories making up one build.
// A repository never appears twice.
type RepositoryList struct {
	items []RepositoryBranch
}

func NewRepositoryList(items ...RepositoryBranch) RepositoryList {
	var l RepositoryList
	for _, item := range items {
		l.Add(item.Repo, item.Branch)
	}
	return l
}

// Add appends the repository unless it is already part of the list.
func (l *RepositoryList) Add(repo Repository, branch Branch) bool {
	if l.Contains(repo) {
		return false
	}
	l.items = append(l.items, RepositoryBranch{Repo: repo, Branch: branch})
	return true
}

func (l RepositoryList) Contains(repo Repository) bool {
	return l.IndexOf(repo) >= 0
}

// IndexOf returns the position of repo in the list or -1.
func (l RepositoryList) IndexOf(repo Repository) int {
	for i, item := range l.items {
		if item.Repo == repo {
			return i
		}
	}
	return -1
}

// IndexOfName returns the position of the first repository named name or -1.
func (l RepositoryList) IndexOfName(name string) int {
	for i, item := range l.items {
		if item.Repo.Name == name {
			return i
		}
	}
	return -1
}

func (l RepositoryList) Len() int {
	return len(l.items)
}

// Items returns a copy of the list entries.
func (l RepositoryList) Items() []RepositoryBranch {
	out := make([]RepositoryBranch, len(l.items))
	copy(out, l.items)
	return out
}

func (l RepositoryList) Repositories() []Repository {
	out := make([]Repository, len(l.items))
	for i, item := range l.items {
		out[i] = item.Repo
	}
	return out
}

// Slice returns the entries in [from, to) as a new list.
func (l RepositoryList) Slice(from, to int) RepositoryList {
	return NewRepositoryList(l.items[from:to]...)
}
