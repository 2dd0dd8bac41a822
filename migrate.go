package main

import (
	"context"
	"fmt"

	"ms-busbooking/internal/config"
	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/store"

	"github.com/go-redis/redis/v8"
)

// openStore connects the configured durable backend. For the redis driver the
// client is returned too so seat holds can share it. The close func releases
// whatever was opened.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.KV, *redis.Client, func(), error) {
	switch cfg.Store.Driver {
	case "redis":
		client, err := store.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("DATABASE", fmt.Sprintf("✅ Redis store connected at %s (DB: %d)", cfg.Redis.Addr, cfg.Redis.DB))
		return store.NewRedisKV(client, cfg.Store.KeyPrefix), client, func() { client.Close() }, nil

	case "sqlite", "postgres":
		db, err := store.OpenBun(cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		kv, err := store.NewBunKV(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		log.Info("DATABASE", fmt.Sprintf("✅ %s store ready, collections table migrated", cfg.Store.Driver))
		return kv, nil, func() { db.Close() }, nil

	case "memory":
		log.Warn("DATABASE", "Using in-memory store; data is lost on restart")
		return store.NewMemoryKV(), nil, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
