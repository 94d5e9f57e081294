package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/playforge/updatedist/internal/domain/repositories"
	"github.com/playforge/updatedist/pkg/apperr"
)

// Local is the filesystem-backed BlobStore, the default for development
// and the teacher's own chunk-writer idiom: write to a temp path, rename
// into place atomically.
type Local struct {
	basePath string
}

func NewLocal(basePath string) *Local {
	return &Local{basePath: basePath}
}

func (l *Local) root(store repositories.Store) string {
	if store == repositories.StoreOutput {
		return filepath.Join(l.basePath, "output")
	}
	return filepath.Join(l.basePath, "input")
}

func (l *Local) path(store repositories.Store, key string) string {
	return filepath.Join(l.root(store), filepath.FromSlash(key))
}

func (l *Local) DeleteFolder(ctx context.Context, store repositories.Store, prefix string) error {
	err := os.RemoveAll(l.path(store, prefix))
	if err != nil {
		return apperr.Internal(fmt.Errorf("storage: delete folder %s: %w", prefix, err))
	}
	return nil
}

func (l *Local) DownloadFile(ctx context.Context, store repositories.Store, srcKey, dstPath string, progress repositories.ProgressFunc) error {
	src, err := os.Open(l.path(store, srcKey))
	if err != nil {
		return apperr.Internal(fmt.Errorf("storage: open %s: %w", srcKey, err))
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return apperr.Internal(fmt.Errorf("storage: mkdir for %s: %w", dstPath, err))
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return apperr.Internal(fmt.Errorf("storage: create %s: %w", dstPath, err))
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dstPath)
		return apperr.Internal(fmt.Errorf("storage: copy %s: %w", srcKey, err))
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return apperr.Internal(fmt.Errorf("storage: close %s: %w", dstPath, err))
	}
	if progress != nil {
		progress(1.0)
	}
	return nil
}

func (l *Local) DownloadFolder(ctx context.Context, store repositories.Store, srcPrefix, dstDir string, progress repositories.ProgressFunc) error {
	root := l.path(store, srcPrefix)
	var keys []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperr.Internal(fmt.Errorf("storage: walk %s: %w", srcPrefix, err))
	}

	return fanOutKeys(ctx, keys, func(ctx context.Context, key string) error {
		dst := filepath.Join(dstDir, filepath.FromSlash(key))
		return l.DownloadFile(ctx, store, joinKey(srcPrefix, key), dst, nil)
	}, progress)
}

func (l *Local) UploadFile(ctx context.Context, store repositories.Store, srcPath, dstKey string, progress repositories.ProgressFunc) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return apperr.Internal(fmt.Errorf("storage: read %s: %w", srcPath, err))
	}
	return l.UploadBuffer(ctx, store, data, dstKey, progress)
}

func (l *Local) UploadBuffer(ctx context.Context, store repositories.Store, data []byte, dstKey string, progress repositories.ProgressFunc) error {
	dst := l.path(store, dstKey)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return apperr.Internal(fmt.Errorf("storage: mkdir for %s: %w", dstKey, err))
	}

	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperr.Internal(fmt.Errorf("storage: write %s: %w", dstKey, err))
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return apperr.Internal(fmt.Errorf("storage: rename %s: %w", dstKey, err))
	}
	if progress != nil {
		progress(1.0)
	}
	return nil
}

func (l *Local) UploadFolder(ctx context.Context, store repositories.Store, srcDir, dstPrefix string, progress repositories.ProgressFunc) error {
	var rels []string
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return apperr.Internal(fmt.Errorf("storage: walk %s: %w", srcDir, err))
	}

	return fanOutKeys(ctx, rels, func(ctx context.Context, rel string) error {
		return l.UploadFile(ctx, store, filepath.Join(srcDir, filepath.FromSlash(rel)), joinKey(dstPrefix, rel), nil)
	}, progress)
}

// joinKey normalizes path separators to forward slash before use as an
// object key (§4.1).
func joinKey(prefix, rel string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + rel
}
