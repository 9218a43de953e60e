package app

import (
	"log"

	"github.com/redis/go-redis/v9"

	"modelpuzzle/internal/convstore"
	"modelpuzzle/internal/gateway/config"
	"modelpuzzle/internal/jobstore"
	"modelpuzzle/internal/statestore"
)

// Store selection order: Redis when configured, then Postgres for project
// state, then memory. Memory backends lose data on restart, which is fine
// for local development.

func newStateStore(cfg *config.Config, rdb *redis.Client) *statestore.Store {
	if rdb != nil {
		return statestore.NewRedis(rdb, cfg.StateTTL)
	}
	if cfg.PostgresDSN != "" {
		s, err := statestore.NewPostgres(cfg.PostgresDSN, cfg.StateTTL)
		if err == nil {
			return s
		}
		log.Printf("[app] postgres state store unavailable, using memory: %v", err)
	}
	return statestore.NewMemory(cfg.StateTTL)
}

func newJobStore(cfg *config.Config, rdb *redis.Client) *jobstore.Store {
	if rdb != nil {
		return jobstore.NewRedis(rdb, cfg.JobTTL)
	}
	return jobstore.NewMemory(cfg.JobTTL)
}

func newConvStore(cfg *config.Config, rdb *redis.Client) *convstore.Store {
	if rdb != nil {
		return convstore.NewRedis(rdb, cfg.ChatTTL)
	}
	return convstore.NewMemory(cfg.ChatTTL)
}
