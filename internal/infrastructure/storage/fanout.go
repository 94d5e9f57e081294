package storage

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/playforge/updatedist/internal/domain/repositories"
	"github.com/playforge/updatedist/pkg/apperr"
	"golang.org/x/sync/errgroup"
)

// folderFanOut bounds concurrent per-file transfers within one folder
// operation (§5).
const folderFanOut = 10

// fanOutKeys runs fn over items with bounded concurrency and reports
// monotonically non-decreasing progress, at least once on completion
// (§4.1). Shared by every backend's *Folder methods.
func fanOutKeys(ctx context.Context, items []string, fn func(ctx context.Context, item string) error, progress repositories.ProgressFunc) error {
	if len(items) == 0 {
		if progress != nil {
			progress(1.0)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(folderFanOut)

	var done int32
	total := float64(len(items))
	for _, item := range items {
		item := item
		g.Go(func() error {
			if err := fn(gctx, item); err != nil {
				return err
			}
			if progress != nil {
				n := atomic.AddInt32(&done, 1)
				progress(float64(n) / total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return apperr.Internal(fmt.Errorf("storage: folder op: %w", err))
	}
	if progress != nil {
		progress(1.0)
	}
	return nil
}
