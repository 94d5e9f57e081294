package repositories

import (
	"context"
	"time"

	"github.com/playforge/updatedist/internal/domain/dto"
)

// ManifestCache is the keyed byte-store of C3. A miss is silent; a
// successful compute always writes back regardless of concurrent writers
// (§4.3 — last-write-wins is safe because every writer computes the same
// value for a given key).
type ManifestCache interface {
	Get(ctx context.Context, key string) (dto.Manifest, bool, error)
	Set(ctx context.Context, key string, m dto.Manifest, ttl time.Duration) error
}
