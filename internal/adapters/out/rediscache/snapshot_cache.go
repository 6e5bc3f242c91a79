// Package rediscache caches tracking snapshots in Redis. Entries expire on a
// short TTL; a miss or a Redis failure just sends the reader to PostgreSQL.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"parceltrack/internal/core/application/usecases/queries"
)

// DefaultTTL bounds how stale a cached tracking snapshot can get.
const DefaultTTL = 10 * time.Second

// SnapshotCache implements the queries.SnapshotCache interface using Redis.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a Redis-backed snapshot cache.
// The redisURL should be in the format: redis://[:password@]host[:port][/database]
func NewSnapshotCache(redisURL string, ttl time.Duration) (*SnapshotCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &SnapshotCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

func key(trackingID string) string {
	return "parcel:snapshot:" + trackingID
}

// Get retrieves a cached snapshot. The second return value reports whether
// the snapshot was present.
func (c *SnapshotCache) Get(ctx context.Context, trackingID string) (queries.TrackParcelQueryResponse, bool, error) {
	raw, err := c.client.Get(ctx, key(trackingID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return queries.TrackParcelQueryResponse{}, false, nil
	}
	if err != nil {
		return queries.TrackParcelQueryResponse{}, false, fmt.Errorf("failed to get snapshot %s: %w", trackingID, err)
	}

	var snapshot queries.TrackParcelQueryResponse
	if err = json.Unmarshal(raw, &snapshot); err != nil {
		return queries.TrackParcelQueryResponse{}, false, fmt.Errorf("failed to decode snapshot %s: %w", trackingID, err)
	}
	return snapshot, true, nil
}

// Set stores a snapshot with the configured TTL.
func (c *SnapshotCache) Set(ctx context.Context, trackingID string, snapshot queries.TrackParcelQueryResponse) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", trackingID, err)
	}

	if err = c.client.Set(ctx, key(trackingID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot %s: %w", trackingID, err)
	}
	return nil
}

// Invalidate drops a cached snapshot. Mutation paths call it so trackers see
// fresh state before the TTL runs out.
func (c *SnapshotCache) Invalidate(ctx context.Context, trackingID string) error {
	if err := c.client.Del(ctx, key(trackingID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot %s: %w", trackingID, err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (c *SnapshotCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *SnapshotCache) Close() error {
	return c.client.Close()
}
