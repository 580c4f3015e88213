package assetstore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"clothing-importer/core/storage"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/minio/minio-go/v7"
)

// Source lists and opens the raw files of one game install.
type Source interface {
	// List returns the slash-separated paths of every file, in a stable order.
	List(ctx context.Context) ([]string, error)
	// Open returns the content of the file at path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// DirSource reads an install from a local directory tree.
type DirSource struct {
	fsys fs.FS
}

// NewDirSource returns a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir)}
}

// NewFSSource returns a source over an arbitrary file system.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

func (s *DirSource) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths, err := doublestar.Glob(s.fsys, "**", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}
	return paths, nil
}

func (s *DirSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fsys.Open(path)
}

// BucketSource reads an install mirrored into an object storage bucket.
type BucketSource struct {
	client storage.Client
	bucket string
	prefix string
}

// NewBucketSource returns a source over the objects below prefix in bucket.
func NewBucketSource(client storage.Client, bucket, prefix string) *BucketSource {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &BucketSource{client: client, bucket: bucket, prefix: prefix}
}

func (s *BucketSource) List(ctx context.Context) ([]string, error) {
	var paths []string
	opts := minio.ListObjectsOptions{Prefix: s.prefix, Recursive: true}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list bucket %s: %w", s.bucket, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		paths = append(paths, strings.TrimPrefix(obj.Key, s.prefix))
	}
	return paths, nil
}

func (s *BucketSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.prefix+path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", path, err)
	}
	return obj, nil
}
