// Package database handles the optional ledger database connection and
// schema inspection.
//
// It wraps GORM to open either a MySQL server or a SQLite file, configured from
// the database section of the application config.
//
// # Connect
//
// Connect opens and pings the database. The ledger is optional, so callers log
// a warning and continue without it when Connect fails.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns for both dialects. The integrity
// command uses it to confirm the ledger table matches the expected model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Ledger disabled", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "migration_outcomes")
package database
