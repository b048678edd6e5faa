package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var Version string

// Get returns the release the binary was built from.
func Get() string {
	return strings.TrimSpace(Version)
}
