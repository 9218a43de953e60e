// Package statestore persists full project state (nodes, edges, metadata)
// under a 30-day expiry. Backends: Redis, Postgres, or in-process memory.
package statestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"modelpuzzle/internal/memcache"
)

// DefaultTTL matches the original deployment's 30-day project expiry.
const DefaultTTL = 30 * 24 * time.Hour

const keyPrefix = "project:"

type Store struct {
	ttl time.Duration

	rdb *redis.Client
	db  *sql.DB
	mem *memcache.LRUTTL[string, json.RawMessage]

	// Read-through cache in front of the SQL backend. Entries carry the
	// row's expiry so a warm cache never outlives the record.
	cache *lru.Cache[string, cachedState]

	schemaOnce sync.Once
	schemaErr  error
}

func NewMemory(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, mem: memcache.New[string, json.RawMessage](4096, ttl)}
}

func NewRedis(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, rdb: client}
}

func NewPostgres(dsn string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, cachedState](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, db: db, cache: cache}, nil
}

// LoadState returns the raw saved state for a project, or nil when absent
// or expired.
func (s *Store) LoadState(ctx context.Context, projectID string) (json.RawMessage, error) {
	if s == nil {
		return nil, nil
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, errors.New("projectId required")
	}
	switch {
	case s.rdb != nil:
		raw, err := s.rdb.Get(ctx, keyPrefix+projectID).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return json.RawMessage(raw), nil
	case s.db != nil:
		return s.loadDB(ctx, projectID)
	default:
		raw, ok := s.mem.Get(projectID)
		if !ok {
			return nil, nil
		}
		return raw, nil
	}
}

// SaveState upserts the full project state and refreshes its expiry.
func (s *Store) SaveState(ctx context.Context, projectID string, data json.RawMessage) error {
	if s == nil {
		return errors.New("store is nil")
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return errors.New("projectId required")
	}
	if len(data) == 0 {
		return errors.New("data required")
	}
	switch {
	case s.rdb != nil:
		return s.rdb.Set(ctx, keyPrefix+projectID, []byte(data), s.ttl).Err()
	case s.db != nil:
		return s.saveDB(ctx, projectID, data)
	default:
		s.mem.SetWithTTL(projectID, data, s.ttl)
		return nil
	}
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	if s.rdb != nil {
		return s.rdb.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
