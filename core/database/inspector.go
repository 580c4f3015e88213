package database

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ColumnInfo is one column of a live table. Field and Type are lowercased.
type ColumnInfo struct {
	Field      string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// GetTableColumns lists the columns of table in declaration order. A missing
// table yields no columns on sqlite and an error on mysql.
func GetTableColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	var (
		cols []ColumnInfo
		err  error
	)
	if db.Dialector.Name() == DriverSQLite {
		cols, err = sqliteColumns(db, table)
	} else {
		cols, err = mysqlColumns(db, table)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	return cols, nil
}

// IndexColumns keys cols by field name.
func IndexColumns(cols []ColumnInfo) map[string]ColumnInfo {
	out := make(map[string]ColumnInfo, len(cols))
	for _, c := range cols {
		out[c.Field] = c
	}
	return out
}

type pragmaColumn struct {
	Cid     int
	Name    string
	Type    string
	Notnull int
	Pk      int
}

func sqliteColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	var rows []pragmaColumn
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", table)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	cols := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		cols = append(cols, ColumnInfo{
			Field:      strings.ToLower(r.Name),
			Type:       strings.ToLower(r.Type),
			Nullable:   r.Notnull == 0 && r.Pk == 0,
			PrimaryKey: r.Pk > 0,
		})
	}
	return cols, nil
}

type showColumn struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

// SHOW COLUMNS keeps the exact MySQL type strings, lengths included.
func mysqlColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	var rows []showColumn
	if err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", table)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	cols := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		cols = append(cols, ColumnInfo{
			Field:      strings.ToLower(r.Field),
			Type:       strings.ToLower(r.Type),
			Nullable:   strings.EqualFold(r.Null, "YES"),
			PrimaryKey: strings.EqualFold(r.Key, "PRI"),
		})
	}
	return cols, nil
}
