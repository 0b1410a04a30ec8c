package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoriaCache(t *testing.T) {
	ctx := context.Background()
	agora := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NovoMemoriaCache()
	c.agora = func() time.Time { return agora }

	type resumo struct {
		Total int `json:"total"`
	}

	require.NoError(t, c.Gravar(ctx, "dashboard", resumo{Total: 3}, 5*time.Minute))

	var lido resumo
	ok, err := c.Obter(ctx, "dashboard", &lido)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, lido.Total)

	t.Run("deve expirar após o TTL", func(t *testing.T) {
		agora = agora.Add(5 * time.Minute)
		ok, err := c.Obter(ctx, "dashboard", &lido)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("deve invalidar chave", func(t *testing.T) {
		require.NoError(t, c.Gravar(ctx, "x", resumo{Total: 1}, 0))
		require.NoError(t, c.Invalidar(ctx, "x"))
		ok, _ := c.Obter(ctx, "x", &lido)
		assert.False(t, ok)
	})
}
