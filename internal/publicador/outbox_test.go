package publicador

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type canalMock struct {
	mock.Mock
}

func (m *canalMock) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, msg)
	return args.Error(0)
}

func registrar(t *testing.T, store repositorio.Store, tipo string, id uint) dominio.EventoOutbox {
	t.Helper()
	e, err := dominio.NovoEvento(tipo, "Remessa", id, map[string]any{"id": id}, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.RegistrarEvento(context.Background(), &e))
	return e
}

func TestPublicarPendentes(t *testing.T) {
	ctx := context.Background()

	t.Run("deve publicar e marcar os eventos pendentes", func(t *testing.T) {
		store := repositorio.NovoMemoriaStore()
		e := registrar(t, store, dominio.EventoRemessaProcessada, 7)

		canal := &canalMock{}
		canal.On("PublishWithContext", Exchange, dominio.EventoRemessaProcessada, mock.MatchedBy(func(msg amqp.Publishing) bool {
			return msg.MessageId == "protesto-1" && string(msg.Body) == e.Payload && msg.DeliveryMode == amqp.Persistent
		})).Return(nil).Once()

		p := NovoPublicador(store, canal)
		assert.Equal(t, 1, p.PublicarPendentes(ctx))
		canal.AssertExpectations(t)

		pendentes, err := store.EventosPendentes(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, pendentes)
	})

	t.Run("deve manter pendente o evento que falhou ao publicar", func(t *testing.T) {
		store := repositorio.NovoMemoriaStore()
		registrar(t, store, dominio.EventoRemessaProcessada, 1)
		registrar(t, store, dominio.EventoRemessaProcessada, 2)

		canal := &canalMock{}
		canal.On("PublishWithContext", Exchange, mock.Anything, mock.MatchedBy(func(msg amqp.Publishing) bool {
			return msg.MessageId == "protesto-1"
		})).Return(errors.New("canal fechado")).Once()
		canal.On("PublishWithContext", Exchange, mock.Anything, mock.Anything).Return(nil).Once()

		p := NovoPublicador(store, canal)
		assert.Equal(t, 1, p.PublicarPendentes(ctx))

		pendentes, err := store.EventosPendentes(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pendentes, 1)
		assert.Equal(t, int64(1), pendentes[0].ID)
	})

	t.Run("deve respeitar o tamanho do lote", func(t *testing.T) {
		store := repositorio.NovoMemoriaStore()
		for i := uint(1); i <= 12; i++ {
			registrar(t, store, dominio.EventoTituloAtualizado, i)
		}

		canal := &canalMock{}
		canal.On("PublishWithContext", Exchange, dominio.EventoTituloAtualizado, mock.Anything).Return(nil)

		p := NovoPublicador(store, canal)
		assert.Equal(t, 10, p.PublicarPendentes(ctx))
		assert.Equal(t, 2, p.PublicarPendentes(ctx))
		assert.Equal(t, 0, p.PublicarPendentes(ctx))
	})
}

func TestIniciarParaComContexto(t *testing.T) {
	store := repositorio.NovoMemoriaStore()
	registrar(t, store, dominio.EventoRemessaProcessada, 1)

	canal := &canalMock{}
	canal.On("PublishWithContext", Exchange, mock.Anything, mock.Anything).Return(nil)

	p := NovoPublicador(store, canal)
	p.intervalo = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Iniciar(ctx)

	assert.Eventually(t, func() bool {
		pendentes, err := store.EventosPendentes(context.Background(), 10)
		return err == nil && len(pendentes) == 0
	}, time.Second, 10*time.Millisecond)
}
