package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

type RedisOption func(*RedisCache)

func WithPrefix(prefix string) RedisOption {
	return func(c *RedisCache) { c.prefix = strings.Trim(prefix, ":") }
}

func NovoRedisCache(rdb *redis.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{rdb: rdb, prefix: "protesto:cache"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) chave(k string) string {
	return c.prefix + ":" + k
}

func (c *RedisCache) Obter(ctx context.Context, chave string, destino any) (bool, error) {
	dados, err := c.rdb.Get(ctx, c.chave(chave)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("falha ao ler cache %s: %w", chave, err)
	}
	if err := json.Unmarshal(dados, destino); err != nil {
		return false, fmt.Errorf("falha ao decodificar cache %s: %w", chave, err)
	}
	return true, nil
}

func (c *RedisCache) Gravar(ctx context.Context, chave string, valor any, ttl time.Duration) error {
	dados, err := json.Marshal(valor)
	if err != nil {
		return fmt.Errorf("falha ao serializar cache %s: %w", chave, err)
	}
	return c.rdb.Set(ctx, c.chave(chave), dados, ttl).Err()
}

func (c *RedisCache) Invalidar(ctx context.Context, chaves ...string) error {
	if len(chaves) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for _, k := range chaves {
		pipe.Del(ctx, c.chave(k))
	}
	_, err := pipe.Exec(ctx)
	return err
}
