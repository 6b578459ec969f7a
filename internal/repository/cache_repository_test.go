package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/jieqi-converter/internal/models"
	appErrors "github.com/noah-isme/jieqi-converter/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var set models.TermSet
	assert.ErrorIs(t, repo.Get(ctx, "solar_terms:remote:2008", &set), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "solar_terms:remote:2008", set, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "solar_terms:*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositoryUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	repo := NewCacheRepository(client, nil)
	defer repo.Close() //nolint:errcheck
	ctx := context.Background()

	var set models.TermSet
	err := repo.Get(ctx, "solar_terms:remote:2008", &set)
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Contains(t, err.Error(), "redis get solar_terms:remote:2008")

	assert.Error(t, repo.Set(ctx, "solar_terms:remote:2008", set, time.Minute))
	assert.Error(t, repo.Ping(ctx))
}
