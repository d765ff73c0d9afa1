package cache

import (
	"context"
	"fmt"
	"time"

	"cinema-tickets/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache holds short-lived availability snapshots so seat-map polling does not
// hammer the database. Misses and redis failures are both soft; callers fall
// back to the database.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func InitRedis(config utils.RedisConfig, log *zap.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Cache{
		client: client,
		ttl:    config.SnapshotTTL,
		log:    log.With(zap.String("component", "cache")),
	}, nil
}

func availabilityKey(showtimeID string) string {
	return "availability:" + showtimeID
}

// GetAvailability returns the cached snapshot for a showtime, or false on
// miss or error.
func (c *Cache) GetAvailability(ctx context.Context, showtimeID string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, availabilityKey(showtimeID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Availability cache read failed",
			zap.Error(err),
			zap.String("showtime_id", showtimeID),
		)
		return nil, false
	}
	return payload, true
}

func (c *Cache) SetAvailability(ctx context.Context, showtimeID string, payload []byte) {
	if err := c.client.Set(ctx, availabilityKey(showtimeID), payload, c.ttl).Err(); err != nil {
		c.log.Warn("Availability cache write failed",
			zap.Error(err),
			zap.String("showtime_id", showtimeID),
		)
	}
}

// InvalidateAvailability drops the snapshot after any hold or sale mutation.
func (c *Cache) InvalidateAvailability(ctx context.Context, showtimeID string) {
	if err := c.client.Del(ctx, availabilityKey(showtimeID)).Err(); err != nil {
		c.log.Warn("Availability cache invalidation failed",
			zap.Error(err),
			zap.String("showtime_id", showtimeID),
		)
	}
}

func (c *Cache) Close() error {
	return c.client.Close()
}
