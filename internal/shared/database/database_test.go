package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dhukuti/internal/shared/config"
)

func TestRedisOptions(t *testing.T) {
	opts := redisOptions(config.RedisConfig{Addr: "cache:6379", DB: 2, PoolSize: 20, MinIdleConns: 4})

	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, 4, opts.MinIdleConns)
}

func TestModelsCoverTables(t *testing.T) {
	assert.Len(t, Models(), 10)
}
