package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hawkeye-rf/emflow/pkg/adapters/redis"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunRunStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTLExpiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewRunRecord("run-ttl", domain.ProjectRef{Path: "p.aedt"}, time.Now())))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "run-ttl")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "run-ttl")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewRunRecord("my-run", domain.ProjectRef{Path: "p.aedt"}, time.Now())))

	assert.True(t, mr.Exists("custom:app:my-run"), "record key carries the prefix")
	assert.True(t, mr.Exists("custom:app:index"), "index key carries the prefix")

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"my-run"}, ids)
}
