package version

import (
	"fmt"
	"io"
	"os"
)

// Set at build time with -ldflags "-X github.com/He-ro616/we4x-CO/internal/version.Version=...".
var (
	App       = "we4x"
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	BuildOS   string
	BuildArch string
)

// String returns the version, "dev" for untagged builds.
func String() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// PrintVersion prints the build metadata to stdout
func PrintVersion() {
	Fprint(os.Stdout)
}

// Fprint writes the build metadata that was set, one item per line.
func Fprint(w io.Writer) {
	fmt.Fprintf(w, "%s version %s\n", App, String())

	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	lines := []struct{ label, value string }{
		{"Git commit", commit},
		{"Build time", BuildTime},
		{"Go version", GoVersion},
	}
	for _, l := range lines {
		if l.value != "" {
			fmt.Fprintf(w, "%s: %s\n", l.label, l.value)
		}
	}
	if BuildOS != "" && BuildArch != "" {
		fmt.Fprintf(w, "Built for: %s/%s\n", BuildOS, BuildArch)
	}
}
