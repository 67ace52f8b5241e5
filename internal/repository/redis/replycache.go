package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	replyCachePrefix = "quackbot:reply:"
)

// ReplyCache stores responder replies keyed by phase, topic and utterance
type ReplyCache struct {
	client *Client
	ttl    time.Duration
}

// NewReplyCache creates a reply cache; a zero ttl keeps entries until flushed
func NewReplyCache(client *Client, ttl time.Duration) *ReplyCache {
	return &ReplyCache{client: client, ttl: ttl}
}

// ReplyKey builds the cache key. Utterances are hashed so arbitrary user text never lands in a key.
func ReplyKey(phase, topic, utterance string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(utterance)))
	return fmt.Sprintf("%s%s:%s:%s", replyCachePrefix, phase, topic, hex.EncodeToString(sum[:]))
}

// Get returns the cached reply and whether it was found
func (c *ReplyCache) Get(ctx context.Context, phase, topic, utterance string) (string, bool, error) {
	reply, err := c.client.rdb.Get(ctx, ReplyKey(phase, topic, utterance)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached reply: %w", err)
	}
	return reply, true, nil
}

// Set caches a reply
func (c *ReplyCache) Set(ctx context.Context, phase, topic, utterance, reply string) error {
	return c.client.rdb.Set(ctx, ReplyKey(phase, topic, utterance), reply, c.ttl).Err()
}

// FlushAll removes all cached replies
func (c *ReplyCache) FlushAll(ctx context.Context) (int64, error) {
	pattern := replyCachePrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
