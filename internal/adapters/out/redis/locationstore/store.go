// Package locationstore keeps the latest published position of each delivery
// agent in Redis. Positions are last-write-wins: every waypoint overwrites the
// previous one, so a reader always sees the agent's most recent location.
// Entries carry a TTL so positions of finished simulations age out on their own.
package locationstore

import (
	"context"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 30 * time.Minute

// RedisLocationStore implements both the location publisher port and the
// position reader used by the query side.
type RedisLocationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocationStore creates a store backed by the given client.
// A non-positive ttl falls back to the default of 30 minutes.
func NewRedisLocationStore(client *redis.Client, ttl time.Duration) *RedisLocationStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisLocationStore{client: client, ttl: ttl}
}

// positionKey names the per-agent hash holding the latest coordinates.
func positionKey(agentID kernel.UUID) string {
	return "fulfillment:agent:position:" + agentID.String()
}

// Publish overwrites the agent's position and refreshes the key TTL.
func (s *RedisLocationStore) Publish(ctx context.Context, agentID kernel.UUID, position kernel.GeoPoint) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if err := position.Validate(); err != nil {
		return err
	}

	key := positionKey(agentID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"lat", strconv.FormatFloat(position.Lat(), 'f', -1, 64),
		"lng", strconv.FormatFloat(position.Lng(), 'f', -1, 64),
		"updated_at", strconv.FormatInt(time.Now().UTC().UnixMilli(), 10),
	)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Get returns the agent's latest position. An agent that has never published
// (or whose entry has expired) yields an object-not-found error.
func (s *RedisLocationStore) Get(ctx context.Context, agentID kernel.UUID) (kernel.GeoPoint, error) {
	if err := agentID.Validate(); err != nil {
		return kernel.GeoPoint{}, err
	}

	m, err := s.client.HGetAll(ctx, positionKey(agentID)).Result()
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	if len(m) == 0 {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("agentID", agentID.String())
	}

	lat, err := strconv.ParseFloat(m["lat"], 64)
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	lng, err := strconv.ParseFloat(m["lng"], 64)
	if err != nil {
		return kernel.GeoPoint{}, err
	}

	return kernel.NewGeoPoint(lat, lng)
}
