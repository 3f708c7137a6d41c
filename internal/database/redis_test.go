package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClients_ConnectsBothClients(t *testing.T) {
	mr := miniredis.RunT(t)

	clients, err := NewRedisClients("redis://" + mr.Addr())
	require.NoError(t, err)
	defer clients.Close()

	ctx := context.Background()
	require.NoError(t, clients.Publisher.Ping(ctx).Err())
	require.NoError(t, clients.PubSub.Ping(ctx).Err())
	assert.NotSame(t, clients.Publisher, clients.PubSub)
}

func TestNewRedisClients_UnreachableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	clients, err := NewRedisClients("redis://" + addr)
	assert.Nil(t, clients)
	assert.ErrorContains(t, err, "publisher")
}

func TestNewRedisClients_BadURL(t *testing.T) {
	_, err := NewRedisClients("http://not-redis")
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}
