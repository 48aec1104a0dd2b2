package store

import (
	"context"
	"encoding/json"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/allisson/cardbook/internal/card/domain"
	apperrors "github.com/allisson/cardbook/internal/errors"
)

// Snapshot is the durable unit of persistence: the full card collection and,
// for the database-backed store, the last-known stats. Written after every
// mutating operation, read once at startup.
type Snapshot struct {
	Cards []domain.Card `json:"cards"`
	Stats *domain.Stats `json:"stats,omitempty"`
}

// LoadSnapshot reads a snapshot from the bucket. A missing key yields an
// empty snapshot; an unparsable one yields ErrSnapshotCorrupt so callers can
// recover by starting empty.
func LoadSnapshot(ctx context.Context, bucket *blob.Bucket, key string) (Snapshot, error) {
	data, err := bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return Snapshot{}, nil
		}
		return Snapshot{}, apperrors.Wrap(err, "failed to read card snapshot")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, apperrors.Wrap(domain.ErrSnapshotCorrupt, err.Error())
	}
	return snap, nil
}

// SaveSnapshot writes a snapshot to the bucket under key.
func SaveSnapshot(ctx context.Context, bucket *blob.Bucket, key string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode card snapshot")
	}
	if err := bucket.WriteAll(ctx, key, data, nil); err != nil {
		return apperrors.Wrap(err, "failed to write card snapshot")
	}
	return nil
}
