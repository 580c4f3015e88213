package ledger

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"clothing-importer/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *GormRecorder {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	r := NewRecorder(db)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

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

func TestGormRecorder_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := setupSQLite(t)

	outcomes := []Outcome{
		{RunID: "run-1", Profile: "srtt", Catalog: "customization_items.xtbl", Position: 0, ItemName: "police_uniform", State: "skipped", Reason: "already_exists"},
		{RunID: "run-1", Profile: "srtt", Catalog: "customization_items.xtbl", Position: 1, ItemName: "riot_gear", State: "included",
			DisplayKey: "SRTT_CUST_RIOT_GEAR", Archives: JoinArchives([]string{"custmesh_-2005229641.str2_pc"})},
		{RunID: "run-2", Profile: "srg", Catalog: "customization_items.xtbl", ItemName: "hat", State: "unresolved"},
	}
	require.NoError(t, r.Record(ctx, outcomes))

	got, err := r.List(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "police_uniform", got[0].ItemName)
	assert.Equal(t, "already_exists", got[0].Reason)
	assert.Equal(t, []string{"custmesh_-2005229641.str2_pc"}, got[1].ArchiveList())
	assert.Nil(t, got[0].ArchiveList())
	assert.False(t, got[1].CreatedAt.IsZero())

	got, err = r.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, r.Record(ctx, nil))
}

func TestGormRecorder_Schema(t *testing.T) {
	r := setupSQLite(t)

	columns, err := database.GetTableColumns(r.db, Outcome{}.TableName())
	require.NoError(t, err)

	var names []string
	for _, c := range columns {
		names = append(names, c.Field)
	}
	assert.Subset(t, names, []string{"id", "run_id", "profile", "catalog", "position", "item_name", "state", "reason", "display_key", "archives", "created_at"})
}

func TestGormRecorder_InsertError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `migration_outcomes`")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := NewRecorder(db).Record(context.Background(), []Outcome{{RunID: "r", ItemName: "x", State: "included"}})
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRecorder_ListError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `migration_outcomes` WHERE run_id = ?")).
		WithArgs("r").
		WillReturnError(errors.New("connection reset"))

	_, err := NewRecorder(db).List(context.Background(), "r")
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	assert.NoError(t, r.Record(context.Background(), []Outcome{{}}))
	got, err := r.List(context.Background(), "any")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
