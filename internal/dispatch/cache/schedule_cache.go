// Package cache keeps the dispatch service's read-through copy of master
// schedules. Schedules change rarely and every flow starts by reading them,
// so they are the one thing worth caching; a Kafka consumer drops entries
// the moment the schedules service announces a change.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"grafik/pkg/client"
	"grafik/pkg/logger"
	"grafik/pkg/metrics"
	"grafik/pkg/model"
)

const (
	keyPrefix = "schedules:master:"
	cacheName = "schedules"

	// schedulePageSize pages the origin fetch; masters rarely carry more
	// than a handful of active schedules.
	schedulePageSize = 200
)

type ScheduleCache struct {
	redis     *redis.Client
	schedules *client.ScheduleClient
	ttl       time.Duration
	log       *logger.Logger
}

func NewScheduleCache(rdb *redis.Client, schedules *client.ScheduleClient, ttl time.Duration, log *logger.Logger) *ScheduleCache {
	return &ScheduleCache{
		redis:     rdb,
		schedules: schedules,
		ttl:       ttl,
		log:       log,
	}
}

// ActiveForMaster returns the master's active schedules, serving from Redis
// when possible. Cache failures degrade to the origin, never to an error.
func (c *ScheduleCache) ActiveForMaster(ctx context.Context, masterID string) ([]*model.WorkSchedule, error) {
	key := keyPrefix + masterID

	data, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var schedules []*model.WorkSchedule
		if unmarshalErr := json.Unmarshal(data, &schedules); unmarshalErr == nil {
			metrics.IncCacheHit(cacheName)
			return schedules, nil
		}
		// An undecodable entry is stale beyond use; drop it and refetch.
		c.redis.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("Schedule cache read failed", "master_id", masterID, "error", err)
	}
	metrics.IncCacheMiss(cacheName)

	schedules, err := c.fetchActive(masterID)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(schedules); marshalErr == nil {
		if setErr := c.redis.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.log.Warn("Schedule cache write failed", "master_id", masterID, "error", setErr)
		}
	}

	return schedules, nil
}

// Invalidate drops the master's cached schedules.
func (c *ScheduleCache) Invalidate(ctx context.Context, masterID string) error {
	return c.redis.Del(ctx, keyPrefix+masterID).Err()
}

func (c *ScheduleCache) fetchActive(masterID string) ([]*model.WorkSchedule, error) {
	all := []*model.WorkSchedule{}
	var offset int64

	for {
		resp, err := c.schedules.Search(masterID, "true", "", schedulePageSize, offset)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("schedules service answered %d", resp.StatusCode)
		}
		page, metadata, err := c.schedules.DecodeSchedules(resp)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		offset += int64(len(page))
		if len(page) == 0 || offset >= metadata.TotalCount {
			return all, nil
		}
	}
}
