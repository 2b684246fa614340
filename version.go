package partmaint

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// GetVersion returns the release this binary was built from.
func GetVersion() string {
	v := strings.TrimSpace(version)
	if v == "" {
		return "v0.0.0"
	}
	return v
}
