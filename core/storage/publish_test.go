package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"clothing-importer/core/storage"
	"clothing-importer/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func drainRemovals(args mock.Arguments) {
	for range args.Get(2).(<-chan minio.ObjectInfo) {
	}
}

func noRemoveErrors() <-chan minio.RemoveObjectError {
	ch := make(chan minio.RemoveObjectError)
	close(ch)
	return ch
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "out").Return(true, nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "out", ""))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "out").Return(false, nil)
		client.On("MakeBucket", ctx, "out", minio.MakeBucketOptions{Region: "eu"}).Return(nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "out", "eu"))
		client.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "out").Return(false, errors.New("denied"))

		assert.Error(t, storage.EnsureBucket(ctx, client, "out", ""))
	})
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "customize_item.asm_pc"), []byte("asm"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "morphs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "morphs", "a.cmorph_pc"), []byte("morph!"), 0o644))

	client := new(mocks.Client)
	client.On("ListObjects", ctx, "out", minio.ListObjectsOptions{Prefix: "srtt/", Recursive: true}).
		Return(mocks.ObjectList(minio.ObjectInfo{Key: "srtt/stale.str2_pc"}))
	client.On("RemoveObjects", ctx, "out", mock.Anything, minio.RemoveObjectsOptions{}).
		Run(drainRemovals).
		Return(noRemoveErrors())
	client.On("PutObject", ctx, "out", "srtt/customize_item.asm_pc", mock.Anything, int64(3), mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("PutObject", ctx, "out", "srtt/morphs/a.cmorph_pc", mock.Anything, int64(6), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	report, err := storage.Publish(ctx, client, "out", "/srtt/", root)
	require.NoError(t, err)
	assert.Equal(t, storage.PublishReport{Removed: 1, Uploaded: 2, Bytes: 9}, report)
	client.AssertExpectations(t)
}

func TestPublish_UploadFails(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "x.bin"), []byte("x"), 0o644))

	client := new(mocks.Client)
	client.On("ListObjects", ctx, "out", mock.Anything).Return(mocks.ObjectList())
	client.On("RemoveObjects", ctx, "out", mock.Anything, mock.Anything).
		Run(drainRemovals).
		Return(noRemoveErrors())
	client.On("PutObject", ctx, "out", "x.bin", mock.Anything, int64(1), mock.Anything).
		Return(minio.UploadInfo{}, errors.New("quota"))

	_, err := storage.Publish(ctx, client, "out", "", root)
	assert.ErrorContains(t, err, "quota")
}
