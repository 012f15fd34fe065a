package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"adaptive_rag/internal/core"
)

// Key prefixes for stored values
const (
	runKeyPrefix    = "run:"
	answerKeyPrefix = "answer:"
)

// RunStore keeps finished run traces and a final-answer cache in
// Redis, both expiring after their TTL
type RunStore struct {
	client *redis.Client
}

// NewRunStore connects to Redis and verifies the connection
func NewRunStore(ctx context.Context, redisURL string) (*RunStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RunStore{client: client}, nil
}

// SaveRun stores the result of a finished run under its run ID
func (s *RunStore) SaveRun(ctx context.Context, runID string, result *core.RunResult, ttl time.Duration) error {
	data, err := sonic.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal run result: %w", err)
	}

	if err := s.client.Set(ctx, runKeyPrefix+runID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun retrieves a stored run by ID
func (s *RunStore) GetRun(ctx context.Context, runID string) (*core.RunResult, error) {
	data, err := s.client.Get(ctx, runKeyPrefix+runID).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var result core.RunResult
	if err := sonic.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run result: %w", err)
	}
	return &result, nil
}

// CacheAnswer stores the final answer keyed by question hash
func (s *RunStore) CacheAnswer(ctx context.Context, question, answer string, ttl time.Duration) error {
	if err := s.client.Set(ctx, answerKey(question), answer, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache answer: %w", err)
	}
	return nil
}

// CachedAnswer returns a previously cached answer for the question, if any
func (s *RunStore) CachedAnswer(ctx context.Context, question string) (string, bool, error) {
	val, err := s.client.Get(ctx, answerKey(question)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cached answer: %w", err)
	}
	return val, true, nil
}

// Ping tests the Redis connection
func (s *RunStore) Ping(ctx context.Context) error {
	_, err := s.client.Ping(ctx).Result()
	return err
}

// Close closes the Redis connection
func (s *RunStore) Close() error {
	return s.client.Close()
}

func answerKey(question string) string {
	sum := sha256.Sum256([]byte(question))
	return answerKeyPrefix + hex.EncodeToString(sum[:])
}
