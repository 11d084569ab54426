package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const conversationTTL = 24 * time.Hour

// RedisStore persists conversations in Redis so follow-up context survives
// process restarts. Each (session, topic) pair maps to a list of
// JSON-encoded exchanges.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func conversationKey(sessionID, topic string) string {
	return "conv:" + sessionID + ":" + topic
}

func (s *RedisStore) Get(ctx context.Context, sessionID, topic string) ([]Exchange, error) {
	raw, err := s.client.LRange(ctx, conversationKey(sessionID, topic), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]Exchange, 0, len(raw))
	for _, item := range raw {
		var ex Exchange
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			return nil, fmt.Errorf("decode exchange: %w", err)
		}
		out = append(out, ex)
	}
	return out, nil
}

func (s *RedisStore) Append(ctx context.Context, sessionID, topic string, ex Exchange) error {
	if ex.AskedAt.IsZero() {
		ex.AskedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("encode exchange: %w", err)
	}
	key := conversationKey(sessionID, topic)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, conversationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append exchange: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID, topic string) error {
	if err := s.client.Del(ctx, conversationKey(sessionID, topic)).Err(); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearAll(ctx context.Context, sessionID string) error {
	iter := s.client.Scan(ctx, 0, "conv:"+sessionID+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("clear session conversations: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan session conversations: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
