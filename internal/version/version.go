package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/genomicx/qrx/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/genomicx/qrx/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/genomicx/qrx/internal/version.Date={{.Date}}
)
