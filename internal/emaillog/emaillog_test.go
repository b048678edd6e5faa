package emaillog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/guichet-numerique/carrousel/internal/common/config"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fill(t *testing.T, l Log, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		l.Add(context.Background(), Entry{Timestamp: time.Unix(int64(i), 0).UTC(), Level: LevelInfo, Message: fmt.Sprintf("m%d", i)})
	}
}

func TestMemory_KeepsNewestFirst(t *testing.T) {
	m := NewMemory(0)
	fill(t, m, 150)

	got, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, DefaultCapacity)
	assert.Equal(t, "m149", got[0].Message)
	assert.Equal(t, "m50", got[len(got)-1].Message)

	require.NoError(t, m.Clear(context.Background()))
	got, err = m.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemory_ConcurrentAdds(t *testing.T) {
	m := NewMemory(10)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fill(t, m, 5)
		}()
	}
	wg.Wait()
	got, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func newTestRedis(t *testing.T, capacity int) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	l, err := New(zap.NewNop(), &config.EmailLogConfig{
		Type:     "redis",
		Capacity: capacity,
		Redis:    config.RedisClientConfig{Addr: mr.Addr(), Key: "test:email_logs"},
	})
	require.NoError(t, err)
	r := l.(*Redis)
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func TestRedis_RingAndClear(t *testing.T) {
	r, mr := newTestRedis(t, 5)
	fill(t, r, 8)

	got, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "m7", got[0].Message)
	assert.Equal(t, "m3", got[4].Message)
	assert.Equal(t, time.Unix(7, 0).UTC(), got[0].Timestamp.UTC())

	items, err := mr.List("test:email_logs")
	require.NoError(t, err)
	assert.Len(t, items, 5)

	require.NoError(t, r.Clear(context.Background()))
	assert.False(t, mr.Exists("test:email_logs"))
}

func TestRedis_SkipsMalformedEntries(t *testing.T) {
	r, mr := newTestRedis(t, 5)
	fill(t, r, 1)
	_, err := mr.Lpush("test:email_logs", "{not json")
	require.NoError(t, err)

	got, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m0", got[0].Message)
}

func TestRedis_AddSurvivesOutage(t *testing.T) {
	r, mr := newTestRedis(t, 5)
	mr.Close()
	r.Add(context.Background(), Entry{Message: "lost"})
	_, err := r.List(context.Background())
	assert.Error(t, err)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(zap.NewNop(), &config.EmailLogConfig{Type: "kafka"})
	assert.Error(t, err)
	_, err = New(zap.NewNop(), &config.EmailLogConfig{Type: "redis", Redis: config.RedisClientConfig{Addr: "127.0.0.1:1"}})
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	m := NewMemory(10)
	r := NewRecorder(m, zap.NewNop())
	ctx := context.Background()

	r.Info(ctx, "sending", map[string]any{"to": "a@x"})
	r.Error(ctx, "failed", nil)

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, LevelError, got[0].Level)
	assert.Equal(t, "a@x", got[1].Data["to"])
	assert.False(t, got[0].Timestamp.IsZero())
}
