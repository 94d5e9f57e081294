// Package repositories declares the interfaces core usecases depend on;
// infrastructure packages provide the concrete implementations.
package repositories

import "context"

// ProgressFunc receives monotonically non-decreasing values in [0.0, 1.0];
// implementations report at least once when a transfer completes (§4.1).
type ProgressFunc func(fraction float64)

// Store names one of the two logical blob namespaces (§3).
type Store int

const (
	StoreInput Store = iota
	StoreOutput
)

// BlobStore is the uniform blob contract C1 exposes over the pluggable
// Local/AWS/GCP backends. Every operation may fail with apperr's
// DependencyUnavailable (transient, caller retries) or Internal
// (permanent, caller reports).
type BlobStore interface {
	DeleteFolder(ctx context.Context, store Store, prefix string) error
	DownloadFile(ctx context.Context, store Store, srcKey, dstPath string, progress ProgressFunc) error
	DownloadFolder(ctx context.Context, store Store, srcPrefix, dstDir string, progress ProgressFunc) error
	UploadFile(ctx context.Context, store Store, srcPath, dstKey string, progress ProgressFunc) error
	UploadBuffer(ctx context.Context, store Store, data []byte, dstKey string, progress ProgressFunc) error
	UploadFolder(ctx context.Context, store Store, srcDir, dstPrefix string, progress ProgressFunc) error
}
