// Package ledger records per-item migration outcomes in a database.
//
// Recording is optional. When no database is configured the service uses
// NopRecorder and a run behaves exactly the same.
//
// # Schema
//
// Outcomes are stored in the migration_outcomes table, one row per source item
// and run, ordered by catalog and position. GormRecorder.Migrate creates or
// updates the table.
package ledger
