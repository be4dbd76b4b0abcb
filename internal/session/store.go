package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"lineup/internal/schedule"
)

// SnapshotStore caches grid snapshots in Redis with a TTL so an
// interrupted editing session can be recovered. All failures are
// soft; the in-memory grid stays authoritative.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotStore wraps a Redis client. TTL must be positive.
func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &SnapshotStore{client: client, ttl: ttl}
}

func snapshotKey(sessionID string) string {
	return "lineup:snapshot:" + sessionID
}

// Save writes the snapshot, refreshing the TTL.
func (st *SnapshotStore) Save(ctx context.Context, sessionID string, snap schedule.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return st.client.Set(ctx, snapshotKey(sessionID), data, st.ttl).Err()
}

// Load reads a cached snapshot. The second return value reports
// whether one existed.
func (st *SnapshotStore) Load(ctx context.Context, sessionID string) (schedule.Snapshot, bool, error) {
	val, err := st.client.Get(ctx, snapshotKey(sessionID)).Result()
	if err == redis.Nil {
		return schedule.Snapshot{}, false, nil
	}
	if err != nil {
		return schedule.Snapshot{}, false, err
	}

	var snap schedule.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return schedule.Snapshot{}, false, err
	}
	return snap, true, nil
}

// Delete drops a cached snapshot.
func (st *SnapshotStore) Delete(ctx context.Context, sessionID string) error {
	return st.client.Del(ctx, snapshotKey(sessionID)).Err()
}
