// Package version reports the build version of digicarbon.
package version

import "runtime/debug"

// Set at build time with
// -ldflags "-X github.com/greendilt/digicarbon/pkg/version.version=v1.2.3".
var (
	version = "" //nolint:gochecknoglobals // Injected by the linker.
	commit  = "" //nolint:gochecknoglobals // Injected by the linker.
)

// devVersion is reported when neither ldflags nor module info carry a version.
const devVersion = "dev"

// GetVersion returns the linker-injected version, falling back to the module
// version recorded by `go install`, then "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return devVersion
}

// GetCommit returns the linker-injected commit, or the VCS revision stamped
// by the go command.
func GetCommit() string {
	if commit != "" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}
