// Package version exposes the build-time version information.
package version

import (
	"encoding/json"
	"fmt"
)

var (
	// Version is the current version of skillmd, set at build time.
	Version = "dev"

	// GitCommit is the git commit SHA that was built, set at build time.
	GitCommit = "unknown"
)

// Info represents version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
}

// Get returns the version information.
func Get() Info {
	return Info{Version: Version, GitCommit: GitCommit}
}

// String returns the human-readable form of the version info.
func (i Info) String() string {
	return fmt.Sprintf("Version: %s, GitCommit: %s", i.Version, i.GitCommit)
}

// JSON returns the JSON form of the version info.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
