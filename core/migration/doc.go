// Package migration holds the migration run configuration and constants.
//
// The Config struct names the source profile, the output root that a run owns
// exclusively, the local destination templates a run starts from, and the
// switches that resolve the behavior choices of a run once: DLC handling, item
// name comparison and publishing.
//
// # Usage
//
// This package is embedded by core/config and read by the clothing service and
// the migrate command.
package migration
