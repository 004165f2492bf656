package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "wishcal:workqueue"

// Redis is a queue backed by a redis sorted set scored by due unix time.
// Receive pops members whose score has passed; a crash between the range
// read and the removal leaves the member in place for redelivery, which
// keeps the at-least-once contract.
type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(addr, password string, db int) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		key: defaultRedisKey,
	}
}

func (r *Redis) Send(ctx context.Context, item WorkItem, delay time.Duration) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding work item: %w", err)
	}
	z := redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: payload,
	}
	if err := r.client.ZAdd(ctx, r.key, z).Err(); err != nil {
		return fmt.Errorf("enqueuing work item: %w", err)
	}
	return nil
}

func (r *Redis) Receive(ctx context.Context, max int) ([]WorkItem, error) {
	members, err := r.client.ZRangeByScore(ctx, r.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(time.Now().Unix(), 10),
		Count: int64(max),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("reading due work items: %w", err)
	}

	var items []WorkItem
	for _, member := range members {
		removed, err := r.client.ZRem(ctx, r.key, member).Result()
		if err != nil {
			return items, fmt.Errorf("claiming work item: %w", err)
		}
		if removed == 0 {
			// Another consumer claimed it first.
			continue
		}
		var item WorkItem
		if err := json.Unmarshal([]byte(member), &item); err != nil {
			return items, fmt.Errorf("decoding work item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
