package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type itemMemoria struct {
	dados  []byte
	expira time.Time
}

// MemoriaCache é usado quando REDIS_ADDR não está configurado.
type MemoriaCache struct {
	mu    sync.Mutex
	itens map[string]itemMemoria
	agora func() time.Time
}

func NovoMemoriaCache() *MemoriaCache {
	return &MemoriaCache{itens: make(map[string]itemMemoria), agora: time.Now}
}

func (c *MemoriaCache) Obter(ctx context.Context, chave string, destino any) (bool, error) {
	c.mu.Lock()
	item, ok := c.itens[chave]
	if ok && !item.expira.IsZero() && !c.agora().Before(item.expira) {
		delete(c.itens, chave)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(item.dados, destino); err != nil {
		return false, fmt.Errorf("falha ao decodificar cache %s: %w", chave, err)
	}
	return true, nil
}

func (c *MemoriaCache) Gravar(ctx context.Context, chave string, valor any, ttl time.Duration) error {
	dados, err := json.Marshal(valor)
	if err != nil {
		return fmt.Errorf("falha ao serializar cache %s: %w", chave, err)
	}
	item := itemMemoria{dados: dados}
	if ttl > 0 {
		item.expira = c.agora().Add(ttl)
	}
	c.mu.Lock()
	c.itens[chave] = item
	c.mu.Unlock()
	return nil
}

func (c *MemoriaCache) Invalidar(ctx context.Context, chaves ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range chaves {
		delete(c.itens, k)
	}
	return nil
}
