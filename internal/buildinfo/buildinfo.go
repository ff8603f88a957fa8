package buildinfo

import "fmt"

// Set at build time with -ldflags "-X github.com/hrntsm/dmkit/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("dmkit %s (commit=%s, date=%s)", Version, Commit, Date)
}
