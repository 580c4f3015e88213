package assetstore

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"clothing-importer/core/packfile"
	"clothing-importer/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func buildArchive(t *testing.T, entries map[string]string, order ...string) []byte {
	t.Helper()
	a := packfile.New(packfile.Version10, packfile.Options{Compressed: true, Condensed: true})
	for _, name := range order {
		require.NoError(t, a.Add(name, []byte(entries[name])))
	}
	var buf bytes.Buffer
	_, err := a.Save(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	misc := buildArchive(t, map[string]string{
		"customization_items.xtbl": "packed table",
		"static_us.le_strings":     "us strings",
	}, "customization_items.xtbl", "static_us.le_strings")
	dlc := buildArchive(t, map[string]string{
		"Static_US.le_strings": "dlc us strings",
		"custmesh_17.str2_pc":  "mesh archive",
	}, "Static_US.le_strings", "custmesh_17.str2_pc")

	return fstest.MapFS{
		"packfiles/pc/cache/misc.vpp_pc":          {Data: misc},
		"packfiles/pc/cache/dlc1.vpp_pc":          {Data: dlc},
		"packfiles/pc/cache/broken.vpp_pc":        {Data: []byte("not an archive")},
		"customize_item.asm_pc":                   {Data: []byte("loose asm")},
		"data/overrides/customization_items.xtbl": {Data: []byte("loose table")},
	}
}

func TestStore_Open(t *testing.T) {
	ctx := context.Background()
	s := New(NewFSSource(testFS(t)), ".vpp_pc", nil)

	tests := []struct {
		name    string
		file    string
		want    string
		wantErr error
	}{
		{"LooseFile", "customize_item.asm_pc", "loose asm", nil},
		{"LooseWinsOverArchive", "customization_items.xtbl", "loose table", nil},
		{"ArchiveEntry", "custmesh_17.str2_pc", "mesh archive", nil},
		{"CaseInsensitive", "CUSTMESH_17.STR2_PC", "mesh archive", nil},
		{"Missing", "custmesh_18.str2_pc", "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := s.Open(ctx, tt.file)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestStore_OpenIn(t *testing.T) {
	ctx := context.Background()
	s := New(NewFSSource(testFS(t)), ".vpp_pc", nil)

	data, err := s.OpenIn(ctx, "static_us.le_strings", "packfiles/pc/cache/dlc1.vpp_pc")
	require.NoError(t, err)
	assert.Equal(t, "dlc us strings", string(data))

	data, err = s.OpenIn(ctx, "customization_items.xtbl", "packfiles/pc/cache/misc.vpp_pc")
	require.NoError(t, err)
	assert.Equal(t, "packed table", string(data))

	_, err = s.OpenIn(ctx, "custmesh_17.str2_pc", "packfiles/pc/cache/misc.vpp_pc")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.OpenIn(ctx, "custmesh_17.str2_pc", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Search(t *testing.T) {
	ctx := context.Background()
	s := New(NewFSSource(testFS(t)), ".vpp_pc", nil)

	got, err := s.Search(ctx, "*.le_strings")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, loc := range got {
		assert.NotEmpty(t, loc.Archive)
	}

	_, err = s.Search(ctx, "[")
	assert.Error(t, err)
}

func TestStore_Exists(t *testing.T) {
	ctx := context.Background()
	s := New(NewFSSource(testFS(t)), ".vpp_pc", nil)

	ok, err := s.Exists(ctx, "custmesh_17.str2_pc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "nope.bin")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(NewFSSource(testFS(t)), ".vpp_pc", nil)
	_, err := s.Open(ctx, "customize_item.asm_pc")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBucketSource(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("ListObjects", ctx, "installs", minio.ListObjectsOptions{Prefix: "srtt/", Recursive: true}).
		Return(mocks.ObjectList(
			minio.ObjectInfo{Key: "srtt/"},
			minio.ObjectInfo{Key: "srtt/customize_item.asm_pc"},
		))
	client.On("GetObject", ctx, "installs", "srtt/customize_item.asm_pc", minio.GetObjectOptions{}).
		Return(mocks.ObjectReader([]byte("asm from bucket")), nil)

	s := New(NewBucketSource(client, "installs", "/srtt"), ".vpp_pc", nil)
	data, err := s.Open(ctx, "customize_item.asm_pc")
	require.NoError(t, err)
	assert.Equal(t, "asm from bucket", string(data))
	client.AssertExpectations(t)
}

func TestBucketSource_ListError(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("ListObjects", ctx, "installs", mock.Anything).
		Return(mocks.ObjectList(minio.ObjectInfo{Err: errors.New("access denied")}))

	s := New(NewBucketSource(client, "installs", ""), ".vpp_pc", nil)
	_, err := s.Open(ctx, "anything")
	assert.ErrorContains(t, err, "access denied")
}

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"Dir", Config{Backend: BackendDir, Root: t.TempDir()}, false},
		{"DirWithoutRoot", Config{Backend: BackendDir}, true},
		{"BucketWithoutClient", Config{Backend: BackendBucket, Bucket: "b"}, true},
		{"Unknown", Config{Backend: "ftp"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFromConfig(tt.cfg, nil, nil)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.name != "Unknown", tt.cfg.IsValidBackend())
		})
	}
}
