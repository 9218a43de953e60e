// Package convstore keeps per-conversation chat history. Redis stores each
// conversation as a list under "chat:<id>" with a 30-day expiry refreshed on
// every append; the memory backend mirrors that for local runs.
package convstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"modelpuzzle/internal/memcache"
)

// DefaultTTL matches the project-state expiry so a conversation outlives
// its board by exactly nothing.
const DefaultTTL = 30 * 24 * time.Hour

const keyPrefix = "chat:"

// Message is one chat turn. Role is "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Store struct {
	ttl time.Duration
	rdb *redis.Client
	mem *memcache.LRUTTL[string, []Message]
}

func NewMemory(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, mem: memcache.New[string, []Message](1024, ttl)}
}

func NewRedis(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, rdb: client}
}

// Append adds messages to the conversation and refreshes its expiry.
func (s *Store) Append(ctx context.Context, convID string, msgs ...Message) error {
	if s == nil {
		return errors.New("store is nil")
	}
	convID = strings.TrimSpace(convID)
	if convID == "" {
		return errors.New("conversationId required")
	}
	if len(msgs) == 0 {
		return nil
	}

	if s.rdb != nil {
		vals := make([]interface{}, 0, len(msgs))
		for _, m := range msgs {
			raw, err := json.Marshal(m)
			if err != nil {
				return err
			}
			vals = append(vals, raw)
		}
		key := keyPrefix + convID
		if err := s.rdb.RPush(ctx, key, vals...).Err(); err != nil {
			return err
		}
		return s.rdb.Expire(ctx, key, s.ttl).Err()
	}

	hist, _ := s.mem.Get(convID)
	hist = append(hist, msgs...)
	s.mem.SetWithTTL(convID, hist, s.ttl)
	return nil
}

// List returns the full conversation in append order. An unknown or expired
// conversation is an empty history, not an error.
func (s *Store) List(ctx context.Context, convID string) ([]Message, error) {
	if s == nil {
		return nil, errors.New("store is nil")
	}
	convID = strings.TrimSpace(convID)
	if convID == "" {
		return nil, errors.New("conversationId required")
	}

	if s.rdb != nil {
		raws, err := s.rdb.LRange(ctx, keyPrefix+convID, 0, -1).Result()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		msgs := make([]Message, 0, len(raws))
		for _, raw := range raws {
			var m Message
			if err := json.Unmarshal([]byte(raw), &m); err != nil {
				continue
			}
			msgs = append(msgs, m)
		}
		return msgs, nil
	}

	hist, _ := s.mem.Get(convID)
	out := make([]Message, len(hist))
	copy(out, hist)
	return out, nil
}
