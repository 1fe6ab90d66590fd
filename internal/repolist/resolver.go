// Package repolist resolves the repositories that make up one product family build.
package repolist

import (
	"context"
	"fmt"

	"github.com/kiegroup/kie-pr-builds/internal/branches"
	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/logger"
	"github.com/kiegroup/kie-pr-builds/internal/models"
)

type Resolver struct {
	table    branches.Table
	releases []Release
	fetcher  Fetcher
}

func NewResolver(table branches.Table, releases []Release, fetcher Fetcher) *Resolver {
	if table == nil {
		table = branches.DefaultTable()
	}
	if releases == nil {
		releases = DefaultReleases()
	}
	return &Resolver{
		table:    table,
		releases: releases,
		fetcher:  fetcher,
	}
}

// Namespace returns the namespace a repository's branches are keyed by.
func Namespace(repoName string) string {
	if models.Classify(repoName).IsSatellite() {
		return repoName
	}
	return KieGroupOrg
}

// Resolve returns every repository, with its branch, that has to be checked out
// to build targetRepo at targetBranch.
func (r *Resolver) Resolve(ctx context.Context, targetRepo models.Repository, targetBranch models.Branch) (models.RepositoryList, error) {
	return r.resolve(ctx, targetRepo, targetBranch, nil)
}

// ResolveWithBootstrap is Resolve with the main-line repository list read from
// bootstrap instead of the organization's bootstrap repository.
func (r *Resolver) ResolveWithBootstrap(ctx context.Context, targetRepo models.Repository, targetBranch models.Branch, bootstrap ManifestSource) (models.RepositoryList, error) {
	return r.resolve(ctx, targetRepo, targetBranch, &bootstrap)
}

func (r *Resolver) resolve(ctx context.Context, targetRepo models.Repository, targetBranch models.Branch, bootstrap *ManifestSource) (models.RepositoryList, error) {
	log := logger.FromContext(ctx)

	satellites, org, src, err := r.lookupRelease(targetRepo, targetBranch)
	if err != nil {
		return models.RepositoryList{}, err
	}
	if bootstrap != nil {
		src = *bootstrap
	}

	if _, err := r.table.MappingFor(models.Classify(targetRepo.Name), targetBranch); err != nil {
		return models.RepositoryList{}, err
	}

	components, err := r.fetcher.Fetch(ctx, org, src)
	if err != nil {
		return models.RepositoryList{}, err
	}

	var list models.RepositoryList
	for _, repo := range append(satellites, components...) {
		branch, ok, err := r.table.BaseBranchFor(repo.Name, targetRepo.Name, targetBranch)
		if err != nil {
			return models.RepositoryList{}, err
		}
		if !ok {
			log.Debug("repository not tracked on this line, skipping",
				"repo", repo.String(),
				"branch", targetBranch.String())
			continue
		}
		if !list.Add(repo, branch) {
			log.Debug("repository listed twice, keeping first entry", "repo", repo.String())
		}
	}

	log.Info("repository list resolved",
		"repo", targetRepo.String(),
		"branch", targetBranch.String(),
		"manifest", src.String(),
		"count", list.Len())

	return list, nil
}

func (r *Resolver) lookupRelease(targetRepo models.Repository, targetBranch models.Branch) ([]models.Repository, string, ManifestSource, error) {
	if targetBranch == models.BranchMaster {
		return MasterSatellites(), KieGroupOrg, DefaultManifestSource(KieGroupOrg, models.BranchMaster), nil
	}

	key := fmt.Sprintf("%s:%s", Namespace(targetRepo.Name), targetBranch)
	for _, rel := range r.releases {
		for _, k := range rel.Keys {
			if k == key {
				satellites := make([]models.Repository, len(rel.Satellites))
				copy(satellites, rel.Satellites)
				return satellites, rel.ManifestOrg, DefaultManifestSource(rel.ManifestOrg, rel.ManifestBranch), nil
			}
		}
	}

	return nil, "", ManifestSource{}, domainErrors.ErrUnknownBranch.
		WithMessage(fmt.Sprintf("Unknown branch '%s'", targetBranch)).
		WithContext("key", key)
}
