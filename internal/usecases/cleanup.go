package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/internal/domain/repositories"
	"go.uber.org/zap"
)

// orphanStaleness is the window after which any Upload still in
// PROCESSING is considered orphaned; epochs are not compared (§10 supplemented feature,
// a consequence of §5's "CAS guards avoid double-commit" note).
const orphanStaleness = 15 * time.Minute

// CleanupService sweeps uploads stuck in PROCESSING past a staleness
// window, the same cron-driven idiom as the teacher's temp-file sweep,
// generalized from local directories to catalog rows and blob prefixes.
type CleanupService interface {
	SweepOrphanedUploads(ctx context.Context) error
}

type cleanupService struct {
	catalog repositories.CatalogStore
	blobs   repositories.BlobStore
	log     *zap.Logger
}

func NewCleanupService(catalog repositories.CatalogStore, blobs repositories.BlobStore, log *zap.Logger) CleanupService {
	return &cleanupService{catalog: catalog, blobs: blobs, log: log.With(zap.String("component", "cleanup"))}
}

func (s *cleanupService) SweepOrphanedUploads(ctx context.Context) error {
	stale, err := s.catalog.ListStaleProcessingUploads(ctx, int64(orphanStaleness.Seconds()))
	if err != nil {
		return err
	}

	for _, u := range stale {
		s.log.Info("sweeping orphaned upload", zap.String("upload_id", u.ID), zap.String("version_id", u.VersionID))

		if err := s.catalog.DeleteChunks(ctx, u.ID, u.ConcurrentID); err != nil {
			s.log.Warn("failed to delete chunk rows during sweep", zap.String("upload_id", u.ID), zap.Error(err))
			continue
		}
		prefix := fmt.Sprintf("%s/%s/", strings.ToUpper(u.ID), strings.ToUpper(u.Hash))
		if err := s.blobs.DeleteFolder(ctx, repositories.StoreInput, prefix); err != nil {
			s.log.Warn("failed to delete blob prefix during sweep", zap.String("upload_id", u.ID), zap.Error(err))
			continue
		}
		if err := s.catalog.CASUploadState(ctx, u.ID, entities.UploadProcessing, entities.UploadNone); err != nil {
			s.log.Warn("failed to reset upload state during sweep", zap.String("upload_id", u.ID), zap.Error(err))
		}
	}
	return nil
}
