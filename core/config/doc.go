// Package config provides configuration management for the clothing importer.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of every
// section and are registered by reflection.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Migration: profile, output root, templates, DLC and key policy switches
//   - Source / Destination: where each game install is read from (directory or bucket)
//   - Storage: S3/MinIO credentials and bucket settings
//   - Database: optional ledger database
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Migration.OutputRoot)
package config
