package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := NewClient(config.RedisConfig{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisCache_Flights(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	c := NewRedisCache(client, time.Minute)

	got, err := c.GetFlights(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	date := time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)
	flights := []domain.Flight{{ID: 1, AirlineName: "Iberia", Origin: "MAD", Destination: "JFK", Duration: 480, FlightDate: date, PassengerCapacity: 10, Status: domain.FlightStatusAvailable}}
	require.NoError(t, c.SetFlights(ctx, flights))

	got, err = c.GetFlights(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "MAD", got[0].Origin)
	assert.True(t, got[0].FlightDate.Equal(date))

	require.NoError(t, c.InvalidateFlights(ctx))
	got, err = c.GetFlights(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRateLimiter_Allow(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()

	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(client, config.RateLimitConfig{Enabled: true, Prefix: "rl:", Capacity: 2, RefillTokens: 1, RefillIntervalSec: 10})
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "user:1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	d, err := l.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 10*time.Second, d.RetryAfter)

	other, err := l.Allow(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	now = now.Add(10 * time.Second)
	d, err = l.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(0), d.Remaining)

	state, err := client.HGetAll(ctx, "rl:user:1").Result()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"left": "0", "refilled_at": strconv.FormatInt(now.UnixMilli(), 10)}, state)
}
