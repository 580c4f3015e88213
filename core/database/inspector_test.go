package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns_SQLite(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE outcomes (id INTEGER PRIMARY KEY, item_name TEXT NOT NULL, reason TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "outcomes")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	byName := IndexColumns(columns)
	assert.Equal(t, "integer", byName["id"].Type)
	assert.True(t, byName["id"].PrimaryKey)
	assert.False(t, byName["item_name"].Nullable)
	assert.True(t, byName["reason"].Nullable)

	cols, err := GetTableColumns(db, "missing")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("ID", "BIGINT UNSIGNED", "NO", "PRI", nil, "auto_increment").
		AddRow("run_id", "varchar(36)", "NO", "MUL", nil, "").
		AddRow("reason", "varchar(64)", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `outcomes`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "outcomes")
	require.NoError(t, err)
	require.Len(t, columns, 3)
	assert.Equal(t, ColumnInfo{Field: "id", Type: "bigint unsigned", PrimaryKey: true}, columns[0])
	assert.True(t, columns[2].Nullable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableColumns_InvalidName(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	_, err = GetTableColumns(db, "outcomes; DROP TABLE x")
	assert.Error(t, err)
}
