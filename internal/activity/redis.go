package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const (
	recentKey       = "mediaflow:activity:recent" // List of JSON entries, newest first
	countKeyPrefix  = "mediaflow:activity:count:" // Counter per kind: mediaflow:activity:count:{kind}
	ActivityChannel = "mediaflow:activity"        // Pub/Sub channel every entry is published on
)

// RedisFeed stores entries in a capped Redis list and publishes each one so
// other instances can follow the feed.
type RedisFeed struct {
	client   *redis.Client
	capacity int64
}

func NewRedisFeed(client *redis.Client, capacity int) *RedisFeed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RedisFeed{client: client, capacity: int64(capacity)}
}

func (f *RedisFeed) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal activity entry: %w", err)
	}

	pipe := f.client.Pipeline()
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, f.capacity-1)
	pipe.Incr(ctx, countKeyPrefix+string(e.Kind))
	pipe.Publish(ctx, ActivityChannel, data)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

func (f *RedisFeed) Recent(ctx context.Context, n int) ([]Entry, error) {
	stop := int64(n) - 1
	if n <= 0 || int64(n) > f.capacity {
		stop = f.capacity - 1
	}

	raw, err := f.client.LRange(ctx, recentKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read activity: %w", err)
	}

	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			slog.Warn("skipping malformed activity entry", "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *RedisFeed) Count(ctx context.Context, kind Kind) (int64, error) {
	n, err := f.client.Get(ctx, countKeyPrefix+string(kind)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read activity count: %w", err)
	}
	return n, nil
}

// Subscribe returns a channel of entries published by any instance. It is
// closed when ctx is done.
func (f *RedisFeed) Subscribe(ctx context.Context) <-chan Entry {
	sub := f.client.Subscribe(ctx, ActivityChannel)
	out := make(chan Entry, 16)

	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				slog.Error("failed to close activity subscription", "error", err)
			}
		}()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Entry
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					slog.Warn("skipping malformed activity message", "error", err)
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
