// Package redisrepo implements the rate-limit attempt store on Redis sorted
// sets. Each key holds one sliding window: members are attempt ids, scores
// are the attempt unix timestamps, so counting a window is a ZCOUNT and the
// 24h sweep is a ZREMRANGEBYSCORE.
//
// Selectable via rate_limit.driver: "redis" for deployments that already run
// Redis and don't want attempt churn in Postgres.
package redisrepo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kavvi/landing-backend/internal/domain"
)

const (
	ipKeyPrefix    = "ratelimit:ip:"
	emailKeyPrefix = "ratelimit:email:"

	// Keys expire one hour after the longest rate-limit window so an idle
	// key never outlives its usefulness even if the sweep stops running.
	keyTTL = 25 * time.Hour
)

// AttemptStore implements ratelimit.Store on Redis.
type AttemptStore struct {
	client *redis.Client
}

// New creates a Redis-backed attempt store.
func New(client *redis.Client) *AttemptStore {
	return &AttemptStore{client: client}
}

// NewFromURL connects to Redis and verifies the connection.
func NewFromURL(redisURL string) (*AttemptStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return New(client), nil
}

func (s *AttemptStore) CountByIP(ctx context.Context, ip string, since time.Time) (int, error) {
	return s.countWindow(ctx, ipKeyPrefix+ip, since)
}

func (s *AttemptStore) CountByEmail(ctx context.Context, email string, since time.Time) (int, error) {
	return s.countWindow(ctx, emailKeyPrefix+email, since)
}

func (s *AttemptStore) countWindow(ctx context.Context, key string, since time.Time) (int, error) {
	n, err := s.client.ZCount(ctx, key,
		strconv.FormatInt(since.UnixMilli(), 10), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("count window %s: %w", key, err)
	}
	return int(n), nil
}

// Insert appends the attempt under both the IP key and, when present, the
// email key. The two writes land in one pipeline round trip.
func (s *AttemptStore) Insert(ctx context.Context, rec domain.AttemptRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.WindowStart.IsZero() {
		rec.WindowStart = time.Now().UTC()
	}
	score := float64(rec.WindowStart.UnixMilli())

	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, ipKeyPrefix+rec.IPAddress, redis.Z{Score: score, Member: rec.ID})
	pipe.Expire(ctx, ipKeyPrefix+rec.IPAddress, keyTTL)
	if rec.Email != "" {
		pipe.ZAdd(ctx, emailKeyPrefix+rec.Email, redis.Z{Score: score, Member: rec.ID})
		pipe.Expire(ctx, emailKeyPrefix+rec.Email, keyTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// DeleteOlderThan trims every attempt key down to entries newer than cutoff.
// SCAN-based so it never blocks Redis on a large keyspace.
func (s *AttemptStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	maxScore := strconv.FormatInt(cutoff.UnixMilli()-1, 10)

	for _, prefix := range []string{ipKeyPrefix, emailKeyPrefix} {
		iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			n, err := s.client.ZRemRangeByScore(ctx, iter.Val(), "-inf", maxScore).Result()
			if err != nil {
				return deleted, fmt.Errorf("trim %s: %w", iter.Val(), err)
			}
			deleted += n
		}
		if err := iter.Err(); err != nil {
			return deleted, fmt.Errorf("scan attempts: %w", err)
		}
	}
	return deleted, nil
}

// Client exposes the underlying connection for health checks.
func (s *AttemptStore) Client() *redis.Client { return s.client }

// Close closes the underlying Redis connection.
func (s *AttemptStore) Close() error { return s.client.Close() }
