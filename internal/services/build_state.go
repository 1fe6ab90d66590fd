package services

// State is a step of a PR build. A run moves through the states in order and
// ends in StateDone or StateFailed.
type State int

const (
	StateInit State = iota
	StateEnvironmentResolved
	StateAuthenticated
	StatePRIdentified
	StateWorkspaceCleaned
	StateRepoListResolved
	StateRefsSelected
	StateCloned
	StateBuildingRepo
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateInit:                "Init",
	StateEnvironmentResolved: "EnvironmentResolved",
	StateAuthenticated:       "Authenticated",
	StatePRIdentified:        "PRIdentified",
	StateWorkspaceCleaned:    "WorkspaceCleaned",
	StateRepoListResolved:    "RepoListResolved",
	StateRefsSelected:        "RefsSelected",
	StateCloned:              "Cloned",
	StateBuildingRepo:        "BuildingRepo",
	StateDone:                "Done",
	StateFailed:              "Failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
