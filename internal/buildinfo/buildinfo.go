package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/njchilds90/goresidue/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("residue %s (commit=%s, date=%s)", Version, Commit, Date)
}
