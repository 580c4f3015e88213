package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
)

// PublishReport summarizes an upload of a directory tree.
type PublishReport struct {
	Removed  int
	Uploaded int
	Bytes    int64
}

// EnsureBucket creates bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, client Client, bucket string, region string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// Publish mirrors every file under root into bucket below prefix.
// Objects already stored below prefix are removed first so the bucket holds
// exactly one run's output.
func Publish(ctx context.Context, client Client, bucket, prefix, root string) (PublishReport, error) {
	var report PublishReport
	prefix = normalizePrefix(prefix)

	removed, err := clearPrefix(ctx, client, bucket, prefix)
	report.Removed = removed
	if err != nil {
		return report, err
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		key := path.Join(prefix, filepath.ToSlash(rel))
		_, err = client.PutObject(ctx, bucket, key, f, info.Size(), minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}

		report.Uploaded++
		report.Bytes += info.Size()
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("publish %s: %w", root, err)
	}

	return report, nil
}

func clearPrefix(ctx context.Context, client Client, bucket, prefix string) (int, error) {
	objectsCh := make(chan minio.ObjectInfo)
	var listErr error
	count := 0

	go func() {
		defer close(objectsCh)
		for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
			if obj.Err != nil {
				listErr = obj.Err
				return
			}
			count++
			objectsCh <- obj
		}
	}()

	var removeErr error
	for rErr := range client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if removeErr == nil {
			removeErr = fmt.Errorf("remove %s: %w", rErr.ObjectName, rErr.Err)
		}
	}
	// Wait for the lister so count and listErr are final.
	for range objectsCh {
	}
	if listErr != nil {
		return count, fmt.Errorf("list %s/%s: %w", bucket, prefix, listErr)
	}
	return count, removeErr
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}
