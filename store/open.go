package store

import (
	"context"
	"fmt"
	"io"

	"order-entry/config"
	"order-entry/database"

	"github.com/redis/go-redis/v9"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open 按 STORE_DRIVER 创建存储，返回的 Closer 用于释放连接
func Open(ctx context.Context, cfg *config.Config) (LocalStore, io.Closer, error) {
	switch cfg.StoreDriver {
	case "memory":
		return NewMemoryStore(), nopCloser{}, nil
	case database.DriverSQLite, database.DriverMySQL:
		db, err := database.Open(ctx, cfg.StoreDriver, cfg)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewSQLStore(db, cfg.StoreDriver)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, db, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedisStore(client, cfg.RedisPrefix), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
