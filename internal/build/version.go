package build

import "fmt"

const (
	appMajor = 0
	appMinor = 3
	appPatch = 0
)

// Commit is the git commit the binary was built from. Set via ldflags at
// build time; empty for go-install builds.
var Commit string

// Version returns the semantic version of the binary.
func Version() string {
	return fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
}
