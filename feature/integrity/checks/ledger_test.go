package checks

import (
	"context"
	"regexp"
	"testing"

	"clothing-importer/core/database"
	"clothing-importer/feature/clothing/ledger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestCheckLedgerSchema_NilDB(t *testing.T) {
	report, err := CheckLedgerSchema(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckLedgerSchema_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	t.Run("MissingTable", func(t *testing.T) {
		report, err := CheckLedgerSchema(db)
		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.NotEmpty(t, report.Errors)
	})

	t.Run("Migrated", func(t *testing.T) {
		require.NoError(t, ledger.NewRecorder(db).Migrate(context.Background()))

		report, err := CheckLedgerSchema(db)
		require.NoError(t, err)
		assert.True(t, report.Matched, "%+v", report)
		assert.Equal(t, "ok", report.Tables["migration_outcomes"].Status)
	})
}

func TestCheckLedgerSchema_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	rows.AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment")
	rows.AddRow("run_id", "varchar(36)", "NO", "MUL", nil, "")
	rows.AddRow("item_name", "int(11)", "NO", "", nil, "") // expect varchar
	mock.ExpectQuery("SHOW COLUMNS FROM `migration_outcomes`").WillReturnRows(rows)

	report, err := CheckLedgerSchema(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)

	tbl := report.Tables["migration_outcomes"]
	assert.Equal(t, "error", tbl.Status)
	assert.Contains(t, tbl.MissingColumns, "display_key")
	assert.NotContains(t, tbl.MissingColumns, "run_id")

	foundMismatch := false
	for _, m := range tbl.TypeMismatches {
		if regexp.MustCompile(`item_name: expected varchar\(128\), got int\(11\)`).MatchString(m) {
			foundMismatch = true
		}
	}
	assert.True(t, foundMismatch, "Got: %v", tbl.TypeMismatches)
}

func TestParseGormTags(t *testing.T) {
	assert.Equal(t, "id", parseGormColumn("column:id;primaryKey"))
	assert.Equal(t, "item_name", parseGormColumn("primaryKey;column:item_name;type:varchar(100)"))
	assert.Equal(t, "int(11)", parseGormType("column:id;type:int(11)"))
	assert.Equal(t, "", parseGormType("column:id"))
}
