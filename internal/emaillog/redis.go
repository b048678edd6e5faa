package emaillog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis shares the ring between server instances through a capped list.
type Redis struct {
	client   *redis.Client
	key      string
	capacity int
	logger   *zap.Logger
}

// NewRedis connects to Redis and checks the connection
func NewRedis(logger *zap.Logger, opts *redis.Options, key string, capacity int) (*Redis, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Redis{client: client, key: key, capacity: capacity, logger: logger}, nil
}

func (r *Redis) Add(ctx context.Context, e Entry) {
	data, err := json.Marshal(e)
	if err != nil {
		r.logger.Warn("failed to encode email log entry", zap.Error(err))
		return
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, r.key, data)
		p.LTrim(ctx, r.key, 0, int64(r.capacity-1))
		return nil
	})
	if err != nil {
		r.logger.Warn("failed to store email log entry", zap.Error(err))
	}
}

func (r *Redis) List(ctx context.Context) ([]Entry, error) {
	raw, err := r.client.LRange(ctx, r.key, 0, int64(r.capacity-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(raw))
	for _, s := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			r.logger.Warn("skipping malformed email log entry", zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
