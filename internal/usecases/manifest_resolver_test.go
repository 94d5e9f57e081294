package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/pkg/category"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManifestResolver() (ManifestResolver, *fakeCatalog, *fakeCache) {
	catalog := newFakeCatalog()
	cache := newFakeCache()
	return NewManifestResolver(catalog, cache, zap.NewNop()), catalog, cache
}

func TestResolve_NoNewerVersionsReturnsEmptyManifest(t *testing.T) {
	resolver, _, _ := newTestManifestResolver()
	m, err := resolver.Resolve(context.Background(), 1, 0, 0, category.OSWindows, category.TextureUncompressed)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", m.Version)
	assert.Empty(t, m.Files)
}

func TestResolve_NewestWinsDedupByLocalPath(t *testing.T) {
	resolver, catalog, _ := newTestManifestResolver()
	ctx := context.Background()

	older := entities.Version{ID: "v-older", Major: 1, Minor: 0, Revision: 1, State: entities.VersionReady, CreatedAt: time.Unix(100, 0)}
	newer := entities.Version{ID: "v-newer", Major: 1, Minor: 0, Revision: 2, State: entities.VersionReady, CreatedAt: time.Unix(200, 0)}
	catalog.versions[older.ID] = older
	catalog.versions[newer.ID] = newer

	catalog.files = []entities.UpdateFile{
		{VersionID: older.ID, Category: category.General, LocalPath: "shared/a.bin", FileName: "OLD"},
		{VersionID: newer.ID, Category: category.General, LocalPath: "shared/a.bin", FileName: "NEW"},
		{VersionID: newer.ID, Category: category.General, LocalPath: "shared/b.bin", FileName: "B"},
	}

	m, err := resolver.Resolve(ctx, 1, 0, 0, category.OSWindows, category.TextureUncompressed)
	require.NoError(t, err)
	assert.Equal(t, "1.0.2", m.Version)
	require.Len(t, m.Files, 2)

	byPath := map[string]string{}
	for _, f := range m.Files {
		byPath[f.LocalPath] = f.Filename
	}
	assert.Equal(t, "NEW", byPath["shared/a.bin"])
	assert.Equal(t, "B", byPath["shared/b.bin"])
}

func TestResolve_CacheHitSkipsCatalog(t *testing.T) {
	resolver, catalog, cache := newTestManifestResolver()
	ctx := context.Background()

	v := entities.Version{ID: "v1", Major: 2, Minor: 0, Revision: 0, State: entities.VersionReady, CreatedAt: time.Unix(1, 0)}
	catalog.versions[v.ID] = v
	catalog.files = []entities.UpdateFile{{VersionID: v.ID, Category: category.General, LocalPath: "a.bin", FileName: "A"}}

	first, err := resolver.Resolve(ctx, 1, 0, 0, category.OSWindows, category.TextureUncompressed)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Sets)

	// Mutate the catalog after the first resolve; a cache hit must not
	// see the mutation.
	catalog.files = append(catalog.files, entities.UpdateFile{VersionID: v.ID, Category: category.General, LocalPath: "b.bin", FileName: "B"})

	second, err := resolver.Resolve(ctx, 1, 0, 0, category.OSWindows, category.TextureUncompressed)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Sets)
}
