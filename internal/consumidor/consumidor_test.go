package consumidor

import (
	"context"
	"testing"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoTitulo(t *testing.T, store repositorio.Store, protocolo string, status dominio.StatusTitulo) *dominio.Titulo {
	t.Helper()
	titulo := &dominio.Titulo{Numero: "1", Protocolo: protocolo, Valor: 150.5, Status: status, RemessaID: 1}
	require.NoError(t, store.CriarTitulo(context.Background(), titulo))
	return titulo
}

func mensagem(id, chave, corpo string) amqp.Delivery {
	return amqp.Delivery{MessageId: id, RoutingKey: chave, Body: []byte(corpo)}
}

func TestProcessarMensagem(t *testing.T) {
	ctx := context.Background()

	t.Run("deve marcar o título como protestado", func(t *testing.T) {
		store := repositorio.NovoMemoriaStore()
		titulo := novoTitulo(t, store, "P-100", dominio.StatusTituloPendente)

		invalidacoes := 0
		c := NovoConsumidor(store, func(context.Context) { invalidacoes++ })

		err := c.ProcessarMensagem(ctx, mensagem("cart-1", dominio.EventoCartorioProtestado,
			`{"protocolo":"P-100","data":"2024-03-01T10:00:00Z"}`))
		require.NoError(t, err)

		atualizado, err := store.BuscarTitulo(ctx, titulo.ID)
		require.NoError(t, err)
		assert.Equal(t, dominio.StatusTituloProtestado, atualizado.Status)
		require.NotNil(t, atualizado.DataProtesto)
		assert.True(t, atualizado.DataProtesto.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
		assert.Equal(t, 1, invalidacoes)

		processada, err := store.MensagemProcessada(ctx, "cart-1")
		require.NoError(t, err)
		assert.True(t, processada)
	})

	t.Run("deve ignorar mensagem repetida", func(t *testing.T) {
		store := repositorio.NovoMemoriaStore()
		titulo := novoTitulo(t, store, "P-200", dominio.StatusTituloPendente)
		c := NovoConsumidor(store, nil)

		msg := mensagem("cart-2", dominio.EventoCartorioPago, `{"protocolo":"P-200"}`)
		require.NoError(t, c.ProcessarMensagem(ctx, msg))
		require.NoError(t, c.ProcessarMensagem(ctx, msg))

		atualizado, err := store.BuscarTitulo(ctx, titulo.ID)
		require.NoError(t, err)
		assert.Equal(t, dominio.StatusTituloPago, atualizado.Status)

		logs, total, err := store.ListarLogs(ctx, dominio.FiltroLogs{Acao: "retorno_cartorio"}, dominio.NovaPaginacao(1, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, logs, 1)
	})

	t.Run("deve reconhecer reentrega sem MessageId", func(t *testing.T) {
		store := repositorio.NovoMemoriaStore()
		titulo := novoTitulo(t, store, "P-250", dominio.StatusTituloPendente)
		c := NovoConsumidor(store, nil)

		corpo := `{"protocolo":"P-250","data":"2024-03-01T10:00:00Z"}`
		primeira := amqp.Delivery{RoutingKey: dominio.EventoCartorioProtestado, DeliveryTag: 1, Body: []byte(corpo)}
		require.NoError(t, c.ProcessarMensagem(ctx, primeira))

		// protesto cancelado depois da primeira entrega
		atual, err := store.BuscarTitulo(ctx, titulo.ID)
		require.NoError(t, err)
		require.NoError(t, atual.CancelarProtesto("engano", time.Now()))
		require.NoError(t, store.AtualizarTitulo(ctx, atual))

		reentrega := primeira
		reentrega.DeliveryTag = 7
		reentrega.Redelivered = true
		assert.Equal(t, idMensagem(primeira), idMensagem(reentrega))
		require.NoError(t, c.ProcessarMensagem(ctx, reentrega))

		atual, err = store.BuscarTitulo(ctx, titulo.ID)
		require.NoError(t, err)
		assert.Equal(t, dominio.StatusTituloPendente, atual.Status)

		outra := amqp.Delivery{RoutingKey: dominio.EventoCartorioPago, DeliveryTag: 1, Body: []byte(corpo)}
		assert.NotEqual(t, idMensagem(primeira), idMensagem(outra))
	})

	t.Run("deve falhar sem gravar a mensagem quando o protocolo não existe", func(t *testing.T) {
		store := repositorio.NovoMemoriaStore()
		c := NovoConsumidor(store, nil)

		err := c.ProcessarMensagem(ctx, mensagem("cart-3", dominio.EventoCartorioPago, `{"protocolo":"X"}`))
		assert.ErrorIs(t, err, dominio.ErrNaoEncontrado)

		processada, err := store.MensagemProcessada(ctx, "cart-3")
		require.NoError(t, err)
		assert.False(t, processada)
	})

	t.Run("deve recusar transição a partir de título pago", func(t *testing.T) {
		store := repositorio.NovoMemoriaStore()
		novoTitulo(t, store, "P-300", dominio.StatusTituloPago)
		c := NovoConsumidor(store, nil)

		err := c.ProcessarMensagem(ctx, mensagem("cart-4", dominio.EventoCartorioProtestado, `{"protocolo":"P-300"}`))
		assert.ErrorIs(t, err, dominio.ErrTransicaoInvalida)
	})

	t.Run("deve rejeitar corpo inválido", func(t *testing.T) {
		c := NovoConsumidor(repositorio.NovoMemoriaStore(), nil)

		assert.ErrorIs(t, c.ProcessarMensagem(ctx, mensagem("cart-5", dominio.EventoCartorioPago, `{`)), dominio.ErrValidacao)
		assert.ErrorIs(t, c.ProcessarMensagem(ctx, mensagem("cart-6", dominio.EventoCartorioPago, `{}`)), dominio.ErrValidacao)
	})

	t.Run("deve ignorar routing key desconhecida", func(t *testing.T) {
		c := NovoConsumidor(repositorio.NovoMemoriaStore(), nil)
		assert.NoError(t, c.ProcessarMensagem(ctx, mensagem("cart-7", "Outro.Evento", `{}`)))
	})
}
