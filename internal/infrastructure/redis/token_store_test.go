package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/internal/infrastructure/redis"
)

// Sin servidor Redis las operaciones deben fallar con error, nunca como "sin sesión".
func TestTokenStore_SinServidorDevuelveError(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	store := redis.NewTokenStore(client, "authTokens")
	ctx := context.Background()

	pair, err := store.Load(ctx)
	assert.Error(t, err)
	assert.Nil(t, pair)

	assert.Error(t, store.Save(ctx, entity.TokenPair{Access: "a", Refresh: "r"}))
	assert.Error(t, store.Clear(ctx))
}
