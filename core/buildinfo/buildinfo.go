package buildinfo

// These variables are intended to be set via -ldflags at build time:
//
//	-X 'github.com/itcenter/coursebot/core/buildinfo.Version=v1.0.0'
//	-X 'github.com/itcenter/coursebot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/itcenter/coursebot/core/buildinfo.Date=2026-10-01T12:00:00Z'
var (
	// Version reports the semantic version or tag of the build.
	Version = "dev"
	// Commit reports the source control commit used for the build.
	Commit = "local"
	// Date reports the build timestamp in RFC3339 format.
	Date = ""
)

// String renders the build identity for startup logs and the admin stats view.
func String() string {
	if Date == "" {
		return Version + " (" + Commit + ")"
	}
	return Version + " (" + Commit + ", " + Date + ")"
}
