package repolist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/httpclient"
	"github.com/kiegroup/kie-pr-builds/internal/logger"
	"github.com/kiegroup/kie-pr-builds/internal/models"
)

const (
	DefaultManifestBaseURL = "https://raw.githubusercontent.com"
	BootstrapRepoName      = "droolsjbpm-build-bootstrap"
	manifestPath           = "script/repository-list.txt"

	// kie-eap-modules lives outside the kiegroup organization
	relocatedRepoName  = "kie-eap-modules"
	relocatedRepoOwner = "jboss-integration"
)

// ManifestSource locates a repository-list.txt file.
type ManifestSource struct {
	Owner  string
	Repo   string
	Branch models.Branch
}

// DefaultManifestSource is the bootstrap repository of org at branch.
func DefaultManifestSource(org string, branch models.Branch) ManifestSource {
	return ManifestSource{Owner: org, Repo: BootstrapRepoName, Branch: branch}
}

func (s ManifestSource) String() string {
	return fmt.Sprintf("%s/%s@%s", s.Owner, s.Repo, s.Branch)
}

// Fetcher returns the component repositories listed by a manifest. Components
// are owned by org.
type Fetcher interface {
	Fetch(ctx context.Context, org string, src ManifestSource) ([]models.Repository, error)
}

type ManifestFetcher struct {
	client  httpclient.HTTPClient
	baseURL string
}

func NewManifestFetcher(client httpclient.HTTPClient, baseURL string) *ManifestFetcher {
	if client == nil {
		client = httpclient.Default()
	}
	if baseURL == "" {
		baseURL = DefaultManifestBaseURL
	}
	return &ManifestFetcher{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// URL returns the address of the manifest described by src.
func (f *ManifestFetcher) URL(src ManifestSource) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", f.baseURL, src.Owner, src.Repo, src.Branch, manifestPath)
}

func (f *ManifestFetcher) Fetch(ctx context.Context, org string, src ManifestSource) ([]models.Repository, error) {
	log := logger.FromContext(ctx)
	url := f.URL(src)

	fail := func(err error) error {
		return domainErrors.ErrManifestFetchFailed.
			WithMessage(fmt.Sprintf("Can not fetch %s repository list '%s'", org, url)).
			WithError(err).
			WithContext("url", url)
	}

	log.Debug("fetching repository list", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fail(err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fail(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fail(fmt.Errorf("unexpected status %s", resp.Status))
	}

	repos, err := parseManifest(resp.Body, org)
	if err != nil {
		return nil, fail(err)
	}
	if len(repos) == 0 {
		return nil, fail(fmt.Errorf("repository list is empty"))
	}

	log.Debug("repository list fetched", "url", url, "count", len(repos))
	return repos, nil
}

func parseManifest(r io.Reader, org string) ([]models.Repository, error) {
	var repos []models.Repository
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		if name == relocatedRepoName {
			repos = append(repos, models.NewRepository(relocatedRepoOwner, name))
		} else {
			repos = append(repos, models.NewRepository(org, name))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return repos, nil
}
