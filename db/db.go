// Package db owns the Redis connection both stores share: the
// ingredient ledger and the order store.
package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type dbconfig struct {
	poolSize     int
	minIdleConns int
	dialTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

type configOption func(cn *dbconfig)

func PoolSize(size int) func(cn *dbconfig) {
	return func(c *dbconfig) {
		c.poolSize = size
	}
}

func MinIdleConns(conns int) func(cn *dbconfig) {
	return func(c *dbconfig) {
		c.minIdleConns = conns
	}
}

func newDbConfig() dbconfig {
	return dbconfig{
		poolSize:     10,
		minIdleConns: 0,
		dialTimeout:  5 * time.Second,
		readTimeout:  3 * time.Second,
		writeTimeout: 3 * time.Second,
	}
}

// Connect establishes a pooled Redis client and verifies connectivity
// with a ping before handing it out.
func Connect(ctx context.Context, addr, pass string, database int, options ...configOption) (*redis.Client, error) {
	config := newDbConfig()
	for _, option := range options {
		option(&config)
	}

	log.Info().Str("addr", addr).Int("db", database).Msg("connecting to redis...")

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DB:           database,
		PoolSize:     config.poolSize,
		MinIdleConns: config.minIdleConns,
		DialTimeout:  config.dialTimeout,
		ReadTimeout:  config.readTimeout,
		WriteTimeout: config.writeTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.WithMessage(err, "failed to ping redis")
	}

	return client, nil
}
