package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mikey/deepguard/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisArchive keeps scan records in a sorted set scored by archive time
type RedisArchive struct {
	client    *redis.Client
	key       string
	logger    *zap.Logger
	retention time.Duration
	now       func() time.Time
	cleaner   *cleaner
}

// NewRedisArchive connects to Redis at addr
func NewRedisArchive(addr, key string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*RedisArchive, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return NewRedisArchiveWithClient(client, key, logger, retention, cleanupFreq), nil
}

// NewRedisArchiveWithClient wraps an existing Redis client
func NewRedisArchiveWithClient(client *redis.Client, key string, logger *zap.Logger, retention, cleanupFreq time.Duration) *RedisArchive {
	a := &RedisArchive{
		client:    client,
		key:       key,
		logger:    logger,
		retention: retention,
		now:       time.Now,
	}
	a.cleaner = startCleaner(cleanupFreq, logger, func() error {
		return a.Cleanup(context.Background())
	})
	return a
}

// Append stores a scan record
func (a *RedisArchive) Append(ctx context.Context, record *core.ScanRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode scan record: %w", err)
	}

	err = a.client.ZAdd(ctx, a.key, redis.Z{
		Score:  float64(a.now().Unix()),
		Member: string(payload),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to add archive entry: %w", err)
	}
	return nil
}

// Count returns the number of archived records
func (a *RedisArchive) Count(ctx context.Context) (int64, error) {
	n, err := a.client.ZCard(ctx, a.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count archive entries: %w", err)
	}
	return n, nil
}

// Cleanup removes records older than the retention window
func (a *RedisArchive) Cleanup(ctx context.Context) error {
	cutoff := a.now().Add(-a.retention).Unix()
	removed, err := a.client.ZRemRangeByScore(ctx, a.key, "-inf", strconv.FormatInt(cutoff, 10)).Result()
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	a.logger.Debug("Cleaned up expired archive entries", zap.Int64("expired_count", removed))
	return nil
}

// Stop stops the background cleanup task and closes the client
func (a *RedisArchive) Stop() {
	a.cleaner.stop()
	if err := a.client.Close(); err != nil {
		a.logger.Error("Failed to close Redis client", zap.Error(err))
	}
}
