package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
	defaultPoolSize     = 10
)

// Config пустой Host выключает кэш
type Config struct {
	Host         string        `envconfig:"HOST"`
	Port         string        `envconfig:"PORT" default:"6379"`
	Username     string        `envconfig:"USERNAME"`
	Password     string        `envconfig:"PASSWORD"`
	Database     int           `envconfig:"DATABASE" default:"0"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
}

func (c *Config) Enabled() bool {
	return c != nil && c.Host != ""
}

// NewConnection создаёт подключение к Redis и проверяет его пингом
func (c *Config) NewConnection(ctx context.Context) (*redis.Client, error) {
	dialTimeout := orDefault(c.DialTimeout, defaultDialTimeout)

	poolSize := c.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(c.Host, c.Port),
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.Database,
		MaxRetries:   -1,
		DialTimeout:  dialTimeout,
		ReadTimeout:  orDefault(c.ReadTimeout, defaultReadTimeout),
		WriteTimeout: orDefault(c.WriteTimeout, defaultWriteTimeout),
		PoolSize:     poolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
