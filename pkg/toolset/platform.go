package toolset

import (
	"runtime"

	"github.com/gnodet/mvx/pkg/version"
)

// HostPlatformKey returns the "<os>-<arch>" platform key for the running
// process, using mise's naming convention (macos, not darwin) per §4.5's
// GLOSSARY entry for "Platform key".
func HostPlatformKey() string {
	return PlatformKey(runtime.GOOS, runtime.GOARCH)
}

// PlatformKey normalizes a (goos, goarch) pair into the lockfile's
// "<os>-<arch>" key form.
func PlatformKey(goos, goarch string) string {
	osName := goos
	if goos == "darwin" {
		osName = "macos"
	}
	archName := goarch
	switch goarch {
	case "amd64":
		archName = "x64"
	case "arm64":
		archName = "arm64"
	}
	return osName + "-" + archName
}

// VersionGreater reports whether a sorts after b. Both are parsed with
// version.ParseVersion (optional "v", up to three numeric components, an
// optional "-pre" and "+build") and compared with Version.Compare: numeric
// components numerically, a pre-release below the release with the same
// numbers. Strings with more than three numeric components or with '_'
// separators do not parse; when either side fails to parse, the two raw
// strings are compared lexically.
func VersionGreater(a, b string) bool {
	va, errA := version.ParseVersion(a)
	vb, errB := version.ParseVersion(b)
	if errA != nil || errB != nil {
		return a > b
	}
	return va.Compare(vb) > 0
}
