package version

import "fmt"

// Populated at build time via -ldflags.
var (
	version      = "v0.0.0-unknown"
	gitCommit    = ""
	gitTreeState = ""
)

// Info holds the build identity of this binary.
type Info struct {
	Version      string `json:"version"`
	GitCommit    string `json:"git_commit"`
	GitTreeState string `json:"git_tree_state"`
}

// Get returns the version information stamped into the binary.
func Get() Info {
	return Info{
		Version:      version,
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
	}
}

func (i Info) String() string {
	if i.GitCommit == "" {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, i.GitCommit)
}
