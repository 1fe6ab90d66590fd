package models

// BuildProgressType represents the type of build progress event
type BuildProgressType string

const (
	BuildProgressState    BuildProgressType = "state"
	BuildProgressRepo     BuildProgressType = "repo"
	BuildProgressComplete BuildProgressType = "complete"
	BuildProgressError    BuildProgressType = "error"
)

// BuildProgress represents a progress update emitted while a PR build runs
type BuildProgress struct {
	Type    BuildProgressType
	State   string
	Repo    string // e.g., "kiegroup/drools"
	Current int    // Current repository being built
	Total   int    // Total repositories to build
	Error   error  // Error if Type is BuildProgressError
}
