package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/gema-math-solver/internal/models"
)

const keyPrefix = "solver:solution:"

// SolutionCache memoizes solutions for identical problem text.
type SolutionCache interface {
	Get(ctx context.Context, problem string) (models.Solution, bool, error)
	Set(ctx context.Context, problem string, solution models.Solution) error
}

// ConnectRedis configures a Redis client using the supplied URL.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}

	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	return client, nil
}

type redisSolutionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSolutionCache stores solutions in Redis with the given TTL.
func NewRedisSolutionCache(client *redis.Client, ttl time.Duration) SolutionCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisSolutionCache{client: client, ttl: ttl}
}

func (c *redisSolutionCache) Get(ctx context.Context, problem string) (models.Solution, bool, error) {
	raw, err := c.client.Get(ctx, Key(problem)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Solution{}, false, nil
	}
	if err != nil {
		return models.Solution{}, false, err
	}

	var solution models.Solution
	if err := json.Unmarshal(raw, &solution); err != nil {
		return models.Solution{}, false, fmt.Errorf("decode cached solution: %w", err)
	}
	return solution, true, nil
}

func (c *redisSolutionCache) Set(ctx context.Context, problem string, solution models.Solution) error {
	payload, err := json.Marshal(solution)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(problem), payload, c.ttl).Err()
}

// Key derives the cache key for a problem.
func Key(problem string) string {
	sum := sha256.Sum256([]byte(problem))
	return keyPrefix + hex.EncodeToString(sum[:])
}
