// Package jobstore tracks asynchronous document-import jobs by id. Records
// carry a fixed expiry whether or not they are consumed; a missing record
// means "job not found, possibly expired".
package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"modelpuzzle/internal/memcache"
)

// DefaultTTL is the job record expiry window.
const DefaultTTL = time.Hour

const keyPrefix = "job:"

// Status values a job moves through.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Job is the polling contract between the background worker and the
// client.
type Job struct {
	JobID     string          `json:"jobId"`
	Status    string          `json:"status"`
	Progress  int             `json:"progress"`
	Message   string          `json:"message"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
}

// Update is a partial job mutation. Nil fields leave the stored value
// untouched, so a progress-only update never clobbers CreatedAt or the
// original message.
type Update struct {
	Status   string
	Progress *int
	Message  *string
	Result   json.RawMessage
	Error    *string
}

type Store struct {
	ttl time.Duration
	rdb *redis.Client
	mem *memcache.LRUTTL[string, Job]
}

func NewMemory(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, mem: memcache.New[string, Job](1024, ttl)}
}

func NewRedis(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, rdb: client}
}

// Set applies a field-preserving upsert and refreshes UpdatedAt and the
// record's TTL.
func (s *Store) Set(ctx context.Context, jobID string, up Update) (Job, error) {
	if s == nil {
		return Job{}, errors.New("store is nil")
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return Job{}, errors.New("jobId required")
	}

	now := time.Now().UnixMilli()
	job, ok, err := s.Get(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	if !ok {
		job = Job{JobID: jobID, Status: StatusPending, CreatedAt: now}
	}
	if v := strings.TrimSpace(up.Status); v != "" {
		job.Status = v
	}
	if up.Progress != nil {
		job.Progress = *up.Progress
	}
	if up.Message != nil {
		job.Message = *up.Message
	}
	if len(up.Result) > 0 {
		job.Result = up.Result
	}
	if up.Error != nil {
		job.Error = *up.Error
	}
	job.UpdatedAt = now

	if s.rdb != nil {
		raw, err := json.Marshal(job)
		if err != nil {
			return Job{}, err
		}
		if err := s.rdb.Set(ctx, keyPrefix+jobID, raw, s.ttl).Err(); err != nil {
			return Job{}, err
		}
		return job, nil
	}
	s.mem.SetWithTTL(jobID, job, s.ttl)
	return job, nil
}

// Get returns the job record, reporting ok=false when absent or expired.
func (s *Store) Get(ctx context.Context, jobID string) (Job, bool, error) {
	if s == nil {
		return Job{}, false, errors.New("store is nil")
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return Job{}, false, errors.New("jobId required")
	}
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, keyPrefix+jobID).Bytes()
		if errors.Is(err, redis.Nil) {
			return Job{}, false, nil
		}
		if err != nil {
			return Job{}, false, err
		}
		var job Job
		if err := json.Unmarshal(raw, &job); err != nil {
			return Job{}, false, err
		}
		return job, true, nil
	}
	job, ok := s.mem.Get(jobID)
	return job, ok, nil
}

// Helpers for building partial updates.

func IntPtr(v int) *int { return &v }

func StrPtr(v string) *string { return &v }
