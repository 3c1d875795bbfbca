//go:build integration

package ingest

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		redisC.Terminate(ctx)
	})

	host, err := redisC.Host(ctx)
	require.NoError(t, err)

	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() {
		client.Close()
	})
	return client
}

func TestRedisFeedState(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	state := NewRedisFeedState(setupRedis(t))
	ctx := context.Background()

	etag, err := state.ETag(ctx, "outage_lines")
	require.NoError(t, err)
	assert.Empty(t, etag)

	require.NoError(t, state.SetETag(ctx, "outage_lines", `W/"abc"`))
	etag, err = state.ETag(ctx, "outage_lines")
	require.NoError(t, err)
	assert.Equal(t, `W/"abc"`, etag)

	other, err := state.ETag(ctx, "service_lines")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, state.SetETag(ctx, "outage_lines", ""))
	etag, err = state.ETag(ctx, "outage_lines")
	require.NoError(t, err)
	assert.Empty(t, etag)
}
