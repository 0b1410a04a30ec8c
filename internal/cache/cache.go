// Package cache guarda resumos caros de calcular (dashboard e estatísticas).
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Obter preenche destino e devolve true quando a chave existe e não expirou.
	Obter(ctx context.Context, chave string, destino any) (bool, error)
	Gravar(ctx context.Context, chave string, valor any, ttl time.Duration) error
	Invalidar(ctx context.Context, chaves ...string) error
}
