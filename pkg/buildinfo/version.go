// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/schemeview/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/schemeview/pkg/buildinfo.Commit=$(git rev-parse HEAD)"
package buildinfo

import "fmt"

// Name is the product name shown in titles and server headers.
const Name = "schemeview"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// ServerHeader returns the value of the Server header sent by the live view.
func ServerHeader() string {
	return Name + "/" + Version
}
