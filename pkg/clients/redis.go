package clients

import (
	"context"
	"strings"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/cfg"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// redisKeyPrefix отделяет ключи журнала от чужих данных в той же базе Redis
const redisKeyPrefix = "ledger"

type RedisClient struct {
	Client *r.Client
}

func NewRedisClient(cfg *cfg.RedisCfg) *RedisClient {
	return &RedisClient{
		Client: r.NewClient(&r.Options{
			Addr:         cfg.Addr,
			Username:     cfg.User,
			Password:     cfg.Password,
			DB:           cfg.DB,
			MaxRetries:   cfg.MaxRetries,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		}),
	}
}

// Key строит ключ вида ledger:<part>:<part>. Пустые части пропускаются.
func Key(parts ...string) string {
	key := []string{redisKeyPrefix}
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			key = append(key, p)
		}
	}
	return strings.Join(key, ":")
}

// Ping проверяет соединение и авторизацию при старте.
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	return c.Client.Close()
}
