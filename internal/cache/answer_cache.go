package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"academy-qabot/internal/model"
)

type AnswerCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewAnswerCache(client *redisv9.Client, ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &AnswerCache{client: client, ttl: ttl}
}

func (c *AnswerCache) Get(ctx context.Context, key string) (*model.CachedAnswer, bool, error) {
	raw, err := c.client.Get(ctx, c.answerKey(key)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get answer failed: %w", err)
	}

	var answer model.CachedAnswer
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached answer failed: %w", err)
	}
	return &answer, true, nil
}

func (c *AnswerCache) Set(ctx context.Context, key string, answer model.CachedAnswer) error {
	payload, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("marshal answer cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.answerKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set answer failed: %w", err)
	}
	return nil
}

// Flush drops every cached answer. Called after ingestion changes the index.
func (c *AnswerCache) Flush(ctx context.Context) (int, error) {
	var deleted int
	iter := c.client.Scan(ctx, 0, "qa:answer:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("redis delete answer failed: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("redis scan answers failed: %w", err)
	}
	return deleted, nil
}

func (c *AnswerCache) answerKey(key string) string {
	return "qa:answer:" + key
}
