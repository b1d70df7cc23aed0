package kvstore

import (
	"context"
	"fmt"

	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewClient abre a conexão com o redis e valida com um PING
func NewClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return rdb, nil
}

func keyPrefix(prefix string) string {
	if prefix == "" {
		return "dashmilo"
	}
	return prefix
}
