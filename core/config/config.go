package config

import (
	"fmt"
	"reflect"
	"strings"

	"clothing-importer/core/assetstore"
	"clothing-importer/core/database"
	"clothing-importer/core/logger"
	"clothing-importer/core/migration"
	"clothing-importer/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Migration holds configuration for the migration run.
	Migration migration.Config `mapstructure:"migration"`
	// Source locates the install items are migrated from.
	Source assetstore.Config `mapstructure:"source"`
	// Destination locates the install items are migrated into.
	Destination assetstore.Config `mapstructure:"destination"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the ledger database connection.
	Database database.Config `mapstructure:"database"`
}

// Validate rejects settings no run can work with.
func (c *Config) Validate() error {
	if !c.Migration.IsValidProfile() {
		return fmt.Errorf("unknown migration profile %q", c.Migration.Profile)
	}
	if !c.Migration.IsValidKeyPolicy() {
		return fmt.Errorf("unknown key policy %q", c.Migration.KeyPolicy)
	}
	if c.Migration.OutputRoot == "" {
		return fmt.Errorf("migration output root is required")
	}
	for name, src := range map[string]assetstore.Config{"source": c.Source, "destination": c.Destination} {
		if !src.IsValidBackend() {
			return fmt.Errorf("%s: unknown backend %q", name, src.Backend)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SOURCE_ROOT -> source.root)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
