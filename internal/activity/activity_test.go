package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 7, 20, 10, 0, 0, 0, time.UTC)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func entry(kind Kind, i int) Entry {
	return Entry{Kind: kind, Description: fmt.Sprintf("entry %d", i), At: testNow.Add(time.Duration(i) * time.Minute)}
}

// feeds runs the same contract against each backend.
func feeds(t *testing.T, capacity int) map[string]Feed {
	client, _ := setupTestRedis(t)
	return map[string]Feed{
		"memory": NewMemoryFeed(capacity),
		"redis":  NewRedisFeed(client, capacity),
	}
}

func TestFeedRecentNewestFirst(t *testing.T) {
	for name, feed := range feeds(t, 10) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 1; i <= 3; i++ {
				require.NoError(t, feed.Record(ctx, entry(KindProject, i)))
			}

			got, err := feed.Recent(ctx, 5)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, "entry 3", got[0].Description)
			assert.Equal(t, "entry 1", got[2].Description)
			assert.True(t, testNow.Add(3*time.Minute).Equal(got[0].At))

			got, err = feed.Recent(ctx, 2)
			require.NoError(t, err)
			assert.Len(t, got, 2)
		})
	}
}

func TestFeedIsBounded(t *testing.T) {
	for name, feed := range feeds(t, 3) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 1; i <= 7; i++ {
				require.NoError(t, feed.Record(ctx, entry(KindProof, i)))
			}

			got, err := feed.Recent(ctx, 0)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, "entry 7", got[0].Description)
			assert.Equal(t, "entry 6", got[1].Description)
			assert.Equal(t, "entry 5", got[2].Description)

			// Counters are not capped by the list size.
			n, err := feed.Count(ctx, KindProof)
			require.NoError(t, err)
			assert.Equal(t, int64(7), n)
		})
	}
}

func TestFeedCountPerKind(t *testing.T) {
	for name, feed := range feeds(t, 10) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, feed.Record(ctx, entry(KindStyleGuide, 1)))
			require.NoError(t, feed.Record(ctx, entry(KindStyleGuide, 2)))
			require.NoError(t, feed.Record(ctx, entry(KindMoodBoard, 3)))

			n, err := feed.Count(ctx, KindStyleGuide)
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)

			n, err = feed.Count(ctx, KindReminder)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestFeedEmpty(t *testing.T) {
	for name, feed := range feeds(t, 10) {
		t.Run(name, func(t *testing.T) {
			got, err := feed.Recent(context.Background(), 5)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestFeedSubscribe(t *testing.T) {
	for name, feed := range feeds(t, 10) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sub, ok := feed.(Subscriber)
			require.True(t, ok)
			ch := sub.Subscribe(ctx)

			// Redis subscriptions are established asynchronously.
			want := entry(KindProject, 1)
			deadline := time.After(2 * time.Second)
			for {
				require.NoError(t, feed.Record(context.Background(), want))
				select {
				case got := <-ch:
					assert.Equal(t, want.Description, got.Description)
					assert.Equal(t, KindProject, got.Kind)
					return
				case <-time.After(50 * time.Millisecond):
				case <-deadline:
					t.Fatal("no entry received")
				}
			}
		})
	}
}

func TestRedisFeedUsesKeys(t *testing.T) {
	client, mr := setupTestRedis(t)
	feed := NewRedisFeed(client, 5)

	require.NoError(t, feed.Record(context.Background(), entry(KindReminder, 1)))

	assert.True(t, mr.Exists(recentKey))
	v, err := mr.Get(countKeyPrefix + string(KindReminder))
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestRedisFeedSkipsMalformedEntries(t *testing.T) {
	client, mr := setupTestRedis(t)
	feed := NewRedisFeed(client, 5)

	require.NoError(t, feed.Record(context.Background(), entry(KindProject, 1)))
	_, err := mr.Lpush(recentKey, "{not json")
	require.NoError(t, err)

	got, err := feed.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "entry 1", got[0].Description)
}

func TestRedisFeedUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	feed := NewRedisFeed(client, 5)
	mr.Close()

	assert.Error(t, feed.Record(context.Background(), entry(KindProject, 1)))
}
