package integrity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"clothing-importer/core/database"
	"clothing-importer/core/migration"
	"clothing-importer/core/storage/mocks"
	"clothing-importer/feature/clothing"
	"clothing-importer/feature/clothing/ledger"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func emptyOutput(t *testing.T) migration.Config {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, clothing.CatalogFilename), []byte("<root><Table/></root>"), 0o644))
	return migration.Config{Profile: migration.ProfileSRTT, OutputRoot: root}
}

func TestService_CheckAll(t *testing.T) {
	cfg := emptyOutput(t)
	svc := NewService(cfg, nil, "", nil, zaptest.NewLogger(t))

	report := svc.CheckAll(context.Background())
	assert.False(t, report.OK())

	assert.Equal(t, "failed", report["output"].Status)
	assert.Equal(t, []string{clothing.ContainersFilename}, report["output"].Detail)
	assert.Equal(t, "failed", report["strings"].Status, "no string files")
	assert.Equal(t, "error", report["archives"].Status)
	assert.NotContains(t, report, "ledger")
	assert.NotContains(t, report, "published")
}

func TestService_CheckAll_Dependencies(t *testing.T) {
	ctx := context.Background()
	cfg := emptyOutput(t)

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, ledger.NewRecorder(db).Migrate(ctx))

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "mods").Return(true, nil)
	client.On("ListObjects", mock.Anything, "mods", minio.ListObjectsOptions{Prefix: "srtt/", Recursive: true}).
		Return(mocks.ObjectList(minio.ObjectInfo{Key: "srtt/" + clothing.CatalogFilename, Size: 21}))

	report := NewService(cfg, client, "mods", db, nil).CheckAll(ctx)
	assert.Equal(t, "ok", report["ledger"].Status)
	assert.Equal(t, "ok", report["published"].Status)
}

func TestService_CheckPublished_NoClient(t *testing.T) {
	_, err := NewService(emptyOutput(t), nil, "mods", nil, nil).CheckPublished(context.Background())
	assert.Error(t, err)
}

func TestService_CheckLedger_NoDB(t *testing.T) {
	_, err := NewService(emptyOutput(t), nil, "", nil, nil).CheckLedger()
	assert.Error(t, err)
}
