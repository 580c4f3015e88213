package migration

import "path/filepath"

// Config holds configuration for a migration run.
type Config struct {
	// Profile selects the source game (srtt, srg).
	Profile string `mapstructure:"profile" default:"srtt"`
	// OutputRoot is deleted and recreated at the start of every run.
	OutputRoot string `mapstructure:"output_root" default:"output"`
	// StagingDir receives extracted morph files. Empty means the output root.
	StagingDir string `mapstructure:"staging_dir" default:""`
	// IncludeDLC keeps items flagged as DLC. When false they are skipped.
	IncludeDLC bool `mapstructure:"include_dlc" default:"true"`
	// KeyPolicy overrides the profile's item name comparison (exact, lowercase).
	KeyPolicy string `mapstructure:"key_policy" default:""`
	// TemplateCatalog is the local destination catalog the output starts from.
	TemplateCatalog string `mapstructure:"template_catalog" default:"customization_items.xtbl"`
	// TemplateContainers is the local destination container table the output starts from.
	TemplateContainers string `mapstructure:"template_containers" default:"customize_item.asm_pc"`
	// Publish uploads the output tree to the storage bucket after a successful run.
	Publish bool `mapstructure:"publish" default:"false"`
	// PublishPrefix is the key prefix for published output. Empty means the profile name.
	PublishPrefix string `mapstructure:"publish_prefix" default:""`
}

const (
	ProfileSRTT = "srtt"
	ProfileSRG  = "srg"
)

const (
	KeyPolicyExact     = "exact"
	KeyPolicyLowercase = "lowercase"
)

// IsValidProfile checks if the configured profile is known.
func (c Config) IsValidProfile() bool {
	switch c.Profile {
	case ProfileSRTT, ProfileSRG:
		return true
	default:
		return false
	}
}

// IsValidKeyPolicy checks the key policy override. Empty is valid.
func (c Config) IsValidKeyPolicy() bool {
	switch c.KeyPolicy {
	case "", KeyPolicyExact, KeyPolicyLowercase:
		return true
	default:
		return false
	}
}

// Staging returns the directory for extracted side files.
func (c Config) Staging() string {
	if c.StagingDir == "" {
		return c.OutputRoot
	}
	return c.StagingDir
}

// LockPath returns the lock file guarding OutputRoot. It lives beside the
// root so that deleting the root does not release it.
func (c Config) LockPath() string {
	clean := filepath.Clean(c.OutputRoot)
	return filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean)+".lock")
}

// Prefix returns the key prefix used when publishing.
func (c Config) Prefix() string {
	if c.PublishPrefix == "" {
		return c.Profile
	}
	return c.PublishPrefix
}
