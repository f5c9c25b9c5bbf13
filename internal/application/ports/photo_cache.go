package ports

import (
	"context"

	"photo-manager-api/internal/domain/photo"
)

// PhotoCache entries carry a per-photo version. Invalidate bumps it, and Set
// only writes when the version read before the repository fetch still holds.
type PhotoCache interface {
	Get(ctx context.Context, uuid photo.UUID) (*photo.Photo, bool)
	Version(ctx context.Context, uuid photo.UUID) (int64, bool)
	Set(ctx context.Context, p *photo.Photo, version int64)
	Invalidate(ctx context.Context, uuids ...photo.UUID)
}
