package version

// Version is the current release of kie-pr-builds. It is bumped on every release.
const Version = "0.4.0"

// FullVersion returns the version with the v prefix
func FullVersion() string {
	return "v" + Version
}
