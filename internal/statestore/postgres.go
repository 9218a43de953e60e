package statestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS project_state (
	project_id TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`

func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, createTableSQL)
	})
	return s.schemaErr
}

// cachedState is one read-cache entry. The expiry mirrors the row's
// expires_at so a stale hit is treated as a miss.
type cachedState struct {
	data      json.RawMessage
	expiresAt time.Time
}

func (s *Store) cacheGet(projectID string) (json.RawMessage, bool) {
	ent, ok := s.cache.Get(projectID)
	if !ok {
		return nil, false
	}
	if time.Now().After(ent.expiresAt) {
		s.cache.Remove(projectID)
		return nil, false
	}
	return ent.data, true
}

func (s *Store) loadDB(ctx context.Context, projectID string) (json.RawMessage, error) {
	if raw, ok := s.cacheGet(projectID); ok {
		return raw, nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	var raw []byte
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT data, expires_at FROM project_state WHERE project_id = $1 AND expires_at > now()`,
		projectID,
	).Scan(&raw, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.cache.Add(projectID, cachedState{data: json.RawMessage(raw), expiresAt: expiresAt})
	return json.RawMessage(raw), nil
}

func (s *Store) saveDB(ctx context.Context, projectID string, data json.RawMessage) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.ttl)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO project_state (project_id, data, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (project_id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`,
		projectID, []byte(data), expiresAt,
	)
	if err == nil {
		s.cache.Add(projectID, cachedState{data: data, expiresAt: expiresAt})
	}
	return err
}
