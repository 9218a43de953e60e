package smartimport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modelpuzzle/internal/jobstore"
)

// ErrJobExpired means the job record vanished mid-poll, which happens when
// the record's TTL lapses before the client collects the result.
var ErrJobExpired = errors.New("job expired or not found")

// ErrPollTimeout means the job was still running when the attempt limit
// ran out.
var ErrPollTimeout = errors.New("timed out waiting for job")

const (
	DefaultPollInterval = 2 * time.Second
	DefaultPollAttempts = 150
)

// StatusFunc fetches the current job record; ok=false means absent.
type StatusFunc func(ctx context.Context, jobID string) (jobstore.Job, bool, error)

// Poller waits for a background import job to finish.
type Poller struct {
	Status   StatusFunc
	Interval time.Duration
	Attempts int

	// OnProgress, when set, observes each polled record.
	OnProgress func(job jobstore.Job)
}

// Wait polls until the job completes, fails, expires, or the attempt limit
// runs out.
func (p *Poller) Wait(ctx context.Context, jobID string) (jobstore.Job, error) {
	if p == nil || p.Status == nil {
		return jobstore.Job{}, errors.New("poller has no status source")
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultPollAttempts
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < attempts; i++ {
		job, ok, err := p.Status(ctx, jobID)
		if err != nil {
			return jobstore.Job{}, err
		}
		if !ok {
			return jobstore.Job{}, ErrJobExpired
		}
		if p.OnProgress != nil {
			p.OnProgress(job)
		}
		switch job.Status {
		case jobstore.StatusCompleted:
			return job, nil
		case jobstore.StatusError:
			if job.Error != "" {
				return job, fmt.Errorf("job failed: %s", job.Error)
			}
			return job, errors.New("job failed")
		}

		select {
		case <-ctx.Done():
			return jobstore.Job{}, ctx.Err()
		case <-ticker.C:
		}
	}
	return jobstore.Job{}, ErrPollTimeout
}
