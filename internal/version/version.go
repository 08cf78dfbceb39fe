// Package version holds build information for rankcheck and rankd.
//
// Set at build time via ldflags:
//
//	go build -ldflags "-X github.com/rickgao/shoprank/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/shoprank/internal/version.Commit=$(git rev-parse --short HEAD)" ./cmd/...
package version

// Build-time variables (set via ldflags)
var (
	Version = "dev"
	Commit  = "unknown"
)

// Info is the build information reported by /healthz and -version.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit}
}

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ")"
}
