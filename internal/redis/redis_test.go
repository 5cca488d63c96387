package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fakhrymubarak/weather-cache/internal/cache"
	"github.com/fakhrymubarak/weather-cache/internal/model"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, "weather:cache:test"), mr
}

func TestGetClient(t *testing.T) {
	client := GetClient()
	if client == nil {
		t.Error("Expected Redis client to be created")
	}

	// Test that we can get the same client multiple times (singleton pattern)
	client2 := GetClient()
	if client != client2 {
		t.Error("Expected same client instance (singleton pattern)")
	}
}

func TestResetClientForTest(t *testing.T) {
	client1 := GetClient()
	ResetClientForTest()
	client2 := GetClient()
	if client1 == client2 {
		t.Error("Expected a new client instance after reset")
	}
}

func TestStore_ReadMissing(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Read(context.Background())
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestStore_WriteRead(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, []byte(`{"version":1}`)))
	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	// Persisted without a Redis TTL.
	mr.FastForward(24 * time.Hour)
	assert.True(t, mr.Exists("weather:cache:test"))
}

func TestStore_ServerDown(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()

	_, err := s.Read(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrNotFound)
	assert.Error(t, s.Write(context.Background(), []byte("x")))
}

func TestStore_BacksWeatherCache(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	key := cache.NewKey("openweathermap", "683506")
	rec := &model.WeatherRecord{
		Timestamp:   time.Date(2016, 10, 10, 8, 0, 0, 0, time.UTC),
		City:        "683506",
		Description: "broken clouds",
		Temperature: model.NewMeasurement(15.07, model.Celsius),
		Sunset:      model.UnixMilli(1476113917000),
	}

	written := cache.New(s, zaptest.NewLogger(t).Sugar())
	written.Put(key, rec)
	require.True(t, written.Save(ctx))

	loaded := cache.New(s, zaptest.NewLogger(t).Sugar())
	require.True(t, loaded.Load(ctx))
	got, ok := loaded.Get(key)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}
