package checks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"clothing-importer/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPublished(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.str2_pc"), []byte("abc"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.str2_pc"), []byte("de"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.str2_pc"), []byte("f"), 0o644))

	client := new(mocks.Client)
	client.On("BucketExists", ctx, "mods").Return(true, nil)
	client.On("ListObjects", ctx, "mods", minio.ListObjectsOptions{Prefix: "srtt/", Recursive: true}).
		Return(mocks.ObjectList(
			minio.ObjectInfo{Key: "srtt/a.str2_pc", Size: 3},
			minio.ObjectInfo{Key: "srtt/b.str2_pc", Size: 5},
		))

	missing, err := CheckPublished(ctx, client, "mods", "/srtt/", root)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.str2_pc", "c.str2_pc"}, missing)
	client.AssertExpectations(t)
}

func TestCheckPublished_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("NoBucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "mods").Return(false, nil)
		_, err := CheckPublished(ctx, client, "mods", "", t.TempDir())
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("ListFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "mods").Return(true, nil)
		client.On("ListObjects", ctx, "mods", minio.ListObjectsOptions{Recursive: true}).
			Return(mocks.ObjectList(minio.ObjectInfo{Err: errors.New("denied")}))
		_, err := CheckPublished(ctx, client, "mods", "", t.TempDir())
		assert.ErrorContains(t, err, "denied")
	})
}
