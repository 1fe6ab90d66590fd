package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeVCS           ErrorType = "VCS"
	TypeResolution    ErrorType = "RESOLUTION"
	TypeGit           ErrorType = "GIT"
	TypeBuild         ErrorType = "BUILD"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error.
// Code identifies the error kind; decorated copies keep the code of the
// sentinel they were derived from, so errors.Is still matches them.
type AppError struct {
	Type       ErrorType
	Code       string
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Code != "" || t.Code != "" {
		return e.Code == t.Code
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Code:       e.Code,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithMessage creates a new AppError with a more specific message
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Type:       e.Type,
		Code:       e.Code,
		Message:    msg,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Code:       e.Code,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Code:       e.Code,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

func newKind(t ErrorType, code, msg string) *AppError {
	return &AppError{
		Type:    t,
		Code:    code,
		Message: msg,
	}
}

// Configuration errors
var (
	ErrMissingCredential = newKind(TypeConfiguration, "MISSING_CREDENTIAL", "No GitHub OAuth token found").
				WithSuggestion("Set one with: kie-pr-builds config set-token <token>\nor export KIE_PR_BUILDS_GITHUB_TOKEN")

	ErrMissingPRContext = newKind(TypeConfiguration, "MISSING_PR_CONTEXT", "PR link not set").
				WithSuggestion("Make sure variable 'ghprbPullLink' contains a valid link to a GitHub pull request")

	ErrInvalidPRLink = newKind(TypeConfiguration, "INVALID_PR_LINK", "Invalid GitHub pull request link").
				WithSuggestion("Expected a link like https://github.com/<owner>/<repo>/pull/<number>")

	ErrInvalidCatalog = newKind(TypeConfiguration, "INVALID_CATALOG", "Invalid release catalog")
)

// VCS errors
var (
	ErrAuthFailure = newKind(TypeVCS, "AUTH_FAILURE", "Can not connect to GitHub using the configured OAuth token").
			WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrRepositoryNotFound = newKind(TypeVCS, "REPOSITORY_NOT_FOUND", "repository not found").
				WithSuggestion("Check repository name and token access permissions")

	ErrGitHubRateLimit = newKind(TypeVCS, "RATE_LIMIT", "GitHub API rate limit exceeded").
				WithSuggestion("Wait a few minutes or use a token with a higher limit")

	ErrAmbiguousPullRequest = newKind(TypeVCS, "AMBIGUOUS_PULL_REQUEST", "More than one open pull request matches the source branch").
				WithSuggestion("Close the duplicate pull requests so only one remains open per repository")

	ErrUnmergeablePullRequest = newKind(TypeVCS, "UNMERGEABLE_PULL_REQUEST", "Pull request is not automatically mergeable").
					WithSuggestion("Please fix the conflicts first!")
)

// Resolution errors
var (
	ErrUnknownBranch = newKind(TypeResolution, "UNKNOWN_BRANCH", "Unknown branch").
				WithSuggestion("Make sure the release catalog is aware of the specified branch")

	ErrNoMappingFound = newKind(TypeResolution, "NO_MAPPING_FOUND", "No branch mapping found")

	ErrManifestFetchFailed = newKind(TypeResolution, "MANIFEST_FETCH_FAILED", "Can not fetch repository list")
)

// Git and build errors
var (
	ErrCloneFailure = newKind(TypeGit, "CLONE_FAILURE", "Failed to clone repository").
			WithSuggestion("Check your network connection and that the ref still exists")

	ErrBuildToolFailure = newKind(TypeBuild, "BUILD_TOOL_FAILURE", "Maven build failed").
				WithSuggestion("Check the build log above for compilation or test failures")

	ErrWorkspaceCleanup = newKind(TypeBuild, "WORKSPACE_CLEANUP", "Failed to clean up build directory")
)

var (
	ErrUnexpected = newKind(TypeInternal, "UNEXPECTED", "Unexpected error")
)
