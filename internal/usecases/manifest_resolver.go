package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/internal/domain/repositories"
	"github.com/playforge/updatedist/internal/infrastructure/cache"
	"github.com/playforge/updatedist/pkg/category"
	"go.uber.org/zap"
)

// ManifestResolver is C7: given a client's current version and
// (os, texture), computes the set of files it must fetch.
type ManifestResolver interface {
	Resolve(ctx context.Context, clientMajor, clientMinor, clientRevision int, os category.OS, texture category.Texture) (dto.Manifest, error)
}

type manifestResolver struct {
	catalog repositories.CatalogStore
	cache   repositories.ManifestCache
	log     *zap.Logger
}

func NewManifestResolver(catalog repositories.CatalogStore, c repositories.ManifestCache, log *zap.Logger) ManifestResolver {
	return &manifestResolver{catalog: catalog, cache: c, log: log.With(zap.String("component", "manifest_resolver"))}
}

func (r *manifestResolver) Resolve(ctx context.Context, clientMajor, clientMinor, clientRevision int, osIdx category.OS, texture category.Texture) (dto.Manifest, error) {
	versions, err := r.catalog.ListVersionsAfter(ctx, clientMajor, clientMinor, clientRevision)
	if err != nil {
		return dto.Manifest{}, err
	}
	if len(versions) == 0 {
		return dto.Manifest{Version: fmt.Sprintf("%d.%d.%d", clientMajor, clientMinor, clientRevision), Files: []dto.ManifestFile{}}, nil
	}

	source := versions[0]
	target := versions[len(versions)-1]
	cacheKey := cache.Key(source.Semantic(), target.Semantic(), int(osIdx), int(texture))

	if m, hit, err := r.cache.Get(ctx, cacheKey); err == nil && hit {
		return m, nil
	}

	relevant := category.RelevantSet(osIdx, texture)
	categories := make([]int, 0, len(relevant))
	for c := range relevant {
		categories = append(categories, int(c))
	}

	versionIDs := make([]string, len(versions))
	createdAt := make(map[string]int64, len(versions))
	for i, v := range versions {
		versionIDs[i] = v.ID
		createdAt[v.ID] = v.CreatedAt.UnixNano()
	}

	files, err := r.catalog.FilesForVersions(ctx, versionIDs, categories)
	if err != nil {
		return dto.Manifest{}, err
	}

	// Newest-wins dedup keyed by local_path (§4.7 step 5).
	byPath := make(map[string]entities.UpdateFile, len(files))
	for _, f := range files {
		cur, ok := byPath[f.LocalPath]
		if !ok || createdAt[f.VersionID] > createdAt[cur.VersionID] {
			byPath[f.LocalPath] = f
		}
	}

	manifestFiles := make([]dto.ManifestFile, 0, len(byPath))
	for _, f := range byPath {
		manifestFiles = append(manifestFiles, dto.ManifestFile{
			UrlPath:      strings.ToUpper(f.VersionID),
			LocalPath:    f.LocalPath,
			Filename:     f.FileName,
			Extension:    f.Extension,
			PackedSize:   f.PackedSize,
			OriginalSize: f.FileSize,
			CRC32:        f.CRC32,
		})
	}

	m := dto.Manifest{Version: target.Semantic(), Files: manifestFiles}
	if err := r.cache.Set(ctx, cacheKey, m, cache.DefaultTTL); err != nil {
		r.log.Warn("failed to write manifest cache", zap.String("key", cacheKey), zap.Error(err))
	}
	return m, nil
}
