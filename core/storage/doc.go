// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that game asset
// trees can be read from a bucket and migration output can be published to one.
// Both AWS S3 and self-hosted MinIO instances are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Publishing
//
//   - EnsureBucket: creates the target bucket when missing.
//   - Publish: clears a key prefix and uploads a local directory tree below it.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	report, err := storage.Publish(ctx, client, cfg.Storage.Bucket, "srtt", outputRoot)
package storage
