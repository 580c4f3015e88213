package assetstore

// Config describes where a game install's files come from.
type Config struct {
	// Backend selects the source type (dir, bucket).
	Backend string `mapstructure:"backend" default:"dir"`
	// Root is the install directory, or the key prefix for the bucket backend.
	Root string `mapstructure:"root" default:""`
	// Bucket is the bucket holding the install when Backend is bucket.
	Bucket string `mapstructure:"bucket" default:""`
	// ArchiveExtension marks files whose entries are indexed as well.
	ArchiveExtension string `mapstructure:"archive_extension" default:".vpp_pc"`
}

const (
	BackendDir    = "dir"
	BackendBucket = "bucket"
)

// IsValidBackend checks if the configured backend is known.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendDir, BackendBucket:
		return true
	default:
		return false
	}
}
