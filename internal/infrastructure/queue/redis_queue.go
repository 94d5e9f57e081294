// Package queue implements C5 over the teacher's own Redis client
// (go-redis/v8), generalizing its bare LPush/BRPop loop into a durable
// queue with per-job-id dedup, lease/progress/complete/fail semantics,
// and introspectable job records (§4.5, §10).
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/internal/domain/repositories"
	"github.com/playforge/updatedist/pkg/apperr"
)

const pollTimeout = 5 * time.Second

// RedisQueue is the durable FIFO: a pending list of job ids plus one hash
// per job carrying payload, status and progress.
type RedisQueue struct {
	rdb  *redis.Client
	name string
}

func NewRedisQueue(rdb *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{rdb: rdb, name: queueName}
}

func (q *RedisQueue) pendingKey() string { return q.name + ":pending" }
func (q *RedisQueue) jobsKey() string    { return q.name + ":jobs" }
func (q *RedisQueue) jobKey(id string) string {
	return fmt.Sprintf("%s:job:%s", q.name, id)
}

type jobHash struct {
	Payload  string  `redis:"payload"`
	Status   string  `redis:"status"`
	Progress float64 `redis:"progress"`
	Error    string  `redis:"error"`
}

func (q *RedisQueue) Enqueue(ctx context.Context, jobID string, payload entities.JobPayload) error {
	key := q.jobKey(jobID)
	existing, err := q.rdb.HGet(ctx, key, "status").Result()
	if err != nil && err != redis.Nil {
		return apperr.Unavailable(fmt.Errorf("queue: hget %s: %w", key, err))
	}
	if err == nil {
		if entities.JobStatus(existing) == entities.JobFailed {
			if err := q.rdb.Del(ctx, key).Err(); err != nil {
				return apperr.Unavailable(fmt.Errorf("queue: del %s: %w", key, err))
			}
		} else {
			// A live job with this id already exists; enqueue is a no-op.
			return nil
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return apperr.Internal(fmt.Errorf("queue: marshal payload: %w", err))
	}

	pipe := q.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"payload":  string(data),
		"status":   string(entities.JobWaiting),
		"progress": 0.0,
		"error":    "",
	})
	pipe.SAdd(ctx, q.jobsKey(), jobID)
	pipe.LPush(ctx, q.pendingKey(), jobID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Unavailable(fmt.Errorf("queue: enqueue %s: %w", jobID, err))
	}
	return nil
}

func (q *RedisQueue) LeaseNext(ctx context.Context) (repositories.Lease, error) {
	res, err := q.rdb.BRPop(ctx, pollTimeout, q.pendingKey()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("queue: brpop: %w", err))
	}
	jobID := res[1]

	raw, err := q.rdb.HGet(ctx, q.jobKey(jobID), "payload").Result()
	if err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("queue: hget payload %s: %w", jobID, err))
	}
	var payload entities.JobPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, apperr.Internal(fmt.Errorf("queue: unmarshal payload %s: %w", jobID, err))
	}

	if err := q.rdb.HSet(ctx, q.jobKey(jobID), "status", string(entities.JobActive)).Err(); err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("queue: mark active %s: %w", jobID, err))
	}

	return &redisLease{q: q, jobID: jobID, payload: payload}, nil
}

func (q *RedisQueue) Active(ctx context.Context) ([]entities.JobRecord, error) {
	return q.recordsByStatus(ctx, entities.JobActive)
}

func (q *RedisQueue) Waiting(ctx context.Context) ([]entities.JobRecord, error) {
	return q.recordsByStatus(ctx, entities.JobWaiting)
}

func (q *RedisQueue) recordsByStatus(ctx context.Context, want entities.JobStatus) ([]entities.JobRecord, error) {
	ids, err := q.rdb.SMembers(ctx, q.jobsKey()).Result()
	if err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("queue: smembers: %w", err))
	}

	var out []entities.JobRecord
	for _, id := range ids {
		vals, err := q.rdb.HGetAll(ctx, q.jobKey(id)).Result()
		if err != nil || len(vals) == 0 {
			continue
		}
		status := entities.JobStatus(vals["status"])
		if status != want {
			continue
		}
		var payload entities.JobPayload
		_ = json.Unmarshal([]byte(vals["payload"]), &payload)
		var progress float64
		fmt.Sscanf(vals["progress"], "%g", &progress)
		out = append(out, entities.JobRecord{
			JobID:    id,
			Payload:  payload,
			Status:   status,
			Progress: progress,
			Error:    vals["error"],
		})
	}
	return out, nil
}

// redisLease is the Lease handle returned by LeaseNext.
type redisLease struct {
	q       *RedisQueue
	jobID   string
	payload entities.JobPayload
}

func (l *redisLease) JobID() string                { return l.jobID }
func (l *redisLease) Payload() entities.JobPayload { return l.payload }

func (l *redisLease) UpdateProgress(ctx context.Context, pct float64) error {
	if err := l.q.rdb.HSet(ctx, l.q.jobKey(l.jobID), "progress", pct).Err(); err != nil {
		return apperr.Unavailable(fmt.Errorf("queue: update progress %s: %w", l.jobID, err))
	}
	return nil
}

func (l *redisLease) Complete(ctx context.Context) error {
	pipe := l.q.rdb.TxPipeline()
	pipe.Del(ctx, l.q.jobKey(l.jobID))
	pipe.SRem(ctx, l.q.jobsKey(), l.jobID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Unavailable(fmt.Errorf("queue: complete %s: %w", l.jobID, err))
	}
	return nil
}

func (l *redisLease) Fail(ctx context.Context, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	err := l.q.rdb.HSet(ctx, l.q.jobKey(l.jobID), map[string]interface{}{
		"status": string(entities.JobFailed),
		"error":  msg,
	}).Err()
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("queue: fail %s: %w", l.jobID, err))
	}
	return nil
}
