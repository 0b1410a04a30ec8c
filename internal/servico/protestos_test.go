package servico

import (
	"context"
	"testing"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtestos(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	agora := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
	a.titulos.agora = func() time.Time { return agora }
	a.enviar(t, "Remessa", "r.xml", xmlRemessa)

	p1, err := a.store.BuscarTituloPorProtocolo(ctx, "P-001")
	require.NoError(t, err)
	p2, err := a.store.BuscarTituloPorProtocolo(ctx, "P-002")
	require.NoError(t, err)

	t.Run("deve registrar protesto com data retroativa", func(t *testing.T) {
		data := time.Date(2024, 4, 10, 0, 0, 0, 0, time.Local)
		tt, err := a.titulos.RegistrarProtesto(ctx, p1.ID, &data, 1)
		require.NoError(t, err)
		assert.Equal(t, dominio.StatusTituloProtestado, tt.Status)
		require.NotNil(t, tt.DataProtesto)
		assert.True(t, tt.DataProtesto.Equal(data))
	})

	t.Run("deve recusar data de protesto no futuro", func(t *testing.T) {
		amanha := agora.AddDate(0, 0, 1)
		_, err := a.titulos.RegistrarProtesto(ctx, p2.ID, &amanha, 1)
		assert.ErrorIs(t, err, dominio.ErrValidacao)

		ainda, err := a.store.BuscarTitulo(ctx, p2.ID)
		require.NoError(t, err)
		assert.Equal(t, dominio.StatusTituloPendente, ainda.Status)
	})

	t.Run("deve listar só protestados e buscar pelo documento do devedor", func(t *testing.T) {
		pagina, err := a.titulos.ListarProtestos(ctx, dominio.FiltroTitulos{Status: dominio.StatusTituloPendente}, dominio.Paginacao{})
		require.NoError(t, err)
		require.Len(t, pagina.Items, 1)
		assert.Equal(t, "P-001", pagina.Items[0].Protocolo)

		pagina, err = a.titulos.ListarProtestos(ctx, dominio.FiltroTitulos{Devedor: "333-44"}, dominio.Paginacao{})
		require.NoError(t, err)
		assert.Len(t, pagina.Items, 1)

		pagina, err = a.titulos.ListarProtestos(ctx, dominio.FiltroTitulos{Devedor: "beltrano"}, dominio.Paginacao{})
		require.NoError(t, err)
		assert.Empty(t, pagina.Items)
	})

	t.Run("deve recusar detalhe de título não protestado", func(t *testing.T) {
		_, err := a.titulos.BuscarProtesto(ctx, p2.ID)
		assert.ErrorIs(t, err, dominio.ErrValidacao)

		d, err := a.titulos.BuscarProtesto(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, "P-001", d.Protocolo)
	})

	t.Run("deve resumir protestos dos últimos seis meses", func(t *testing.T) {
		_, err := a.titulos.RegistrarProtesto(ctx, p2.ID, nil, 1)
		require.NoError(t, err)

		d, err := a.titulos.DashboardProtestos(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), d.TotalProtestos)
		assert.Equal(t, 1750.1, d.ValorTotal)
		require.Len(t, d.ProtestosPorMes, 6)
		assert.Equal(t, "2024-01", d.ProtestosPorMes[0].Mes)
		assert.Equal(t, "2024-06", d.ProtestosPorMes[5].Mes)
		assert.Equal(t, ProtestosMes{Mes: "2024-04", Quantidade: 1, Valor: 1500}, d.ProtestosPorMes[3])
		assert.Equal(t, ProtestosMes{Mes: "2024-06", Quantidade: 1, Valor: 250.1}, d.ProtestosPorMes[5])
		assert.Zero(t, d.ProtestosPorMes[4].Quantidade)
	})

	t.Run("deve exigir motivo para cancelar", func(t *testing.T) {
		_, err := a.titulos.CancelarProtesto(ctx, p2.ID, "", 1)
		assert.ErrorIs(t, err, dominio.ErrValidacao)
	})

	t.Run("deve cancelar protesto e gerar evento e log", func(t *testing.T) {
		tt, err := a.titulos.CancelarProtesto(ctx, p1.ID, "pagamento em cartório", 1)
		require.NoError(t, err)
		assert.Equal(t, dominio.StatusTituloPendente, tt.Status)
		assert.Nil(t, tt.DataProtesto)

		eventos, err := a.store.EventosPendentes(ctx, 100)
		require.NoError(t, err)
		var tipos []string
		for _, e := range eventos {
			tipos = append(tipos, e.TipoEvento)
		}
		assert.Contains(t, tipos, dominio.EventoProtestoCancelado)

		_, total, err := a.store.ListarLogs(ctx, dominio.FiltroLogs{Acao: "cancelar_protesto"}, dominio.Paginacao{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("não deve cancelar título pendente", func(t *testing.T) {
		_, err := a.titulos.CancelarProtesto(ctx, p1.ID, "de novo", 1)
		assert.ErrorIs(t, err, dominio.ErrTransicaoInvalida)
	})

	t.Run("deve permitir protestar de novo depois do cancelamento", func(t *testing.T) {
		tt, err := a.titulos.AlterarStatus(ctx, p1.ID, dominio.StatusTituloProtestado, 1)
		require.NoError(t, err)
		assert.Equal(t, dominio.StatusTituloProtestado, tt.Status)
	})
}

func TestEstatisticas(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	a.enviar(t, "Remessa", "r.xml", xmlRemessa)
	res := a.enviar(t, "Remessa", "e.xml", `<remessa><titulos>
		<titulo><numero>1</numero><protocolo>E-1</protocolo><valor>x</valor></titulo>
		<titulo><numero>2</numero><protocolo>E-2</protocolo><valor>y</valor></titulo>
	</titulos></remessa>`)

	d1, err := a.desistencias.Solicitar(ctx, PedidoDesistencia{Protocolo: "P-001", Motivo: "Acordo"}, 1)
	require.NoError(t, err)
	_, err = a.desistencias.Solicitar(ctx, PedidoDesistencia{Protocolo: "P-002", Motivo: "Acordo"}, 1)
	require.NoError(t, err)
	_, err = a.desistencias.Processar(ctx, d1.ID, dominio.StatusDesistenciaAprovada, "", 1)
	require.NoError(t, err)

	t.Run("deve somar títulos por status", func(t *testing.T) {
		est, err := a.titulos.Estatisticas(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), est.Total)
		assert.Equal(t, map[string]int64{"Pago": 1, "Pendente": 1}, est.PorStatus)
		assert.Equal(t, 1750.1, est.ValorTotal)
		assert.Equal(t, 1500.0, est.ValorPorStatus["Pago"])
	})

	t.Run("deve agrupar erros e apontar a remessa com mais erros", func(t *testing.T) {
		est, err := a.erros.Estatisticas(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), est.Total)
		assert.Equal(t, int64(2), est.PorStatus[string(dominio.StatusErroPendente)])
		assert.Equal(t, int64(2), est.PorCriticidade[string(dominio.CriticidadeMedia)])
		require.Len(t, est.PorRemessa, 1)
		assert.Equal(t, ErrosRemessa{RemessaID: res.Remessa.ID, NomeArquivo: "e.xml", Total: 2}, est.PorRemessa[0])
	})

	t.Run("deve contar desistências e motivos", func(t *testing.T) {
		est, err := a.desistencias.Estatisticas(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), est.Total)
		assert.Equal(t, int64(1), est.PorStatus[string(dominio.StatusDesistenciaAprovada)])
		assert.Equal(t, []MotivoDesistencia{{Motivo: "Acordo", Total: 2}}, est.MotivosComuns)
		assert.Equal(t, 1500.0, est.ValorAprovadas)
	})
}

func TestRanking(t *testing.T) {
	m := map[string]int64{"a": 1, "b": 3, "c": 3, "d": 2, "e": 1, "f": 5, "g": 1}

	lista := ranking(m)
	require.Len(t, lista, limiteRanking)
	assert.Equal(t, []contagem{{"f", 5}, {"b", 3}, {"c", 3}, {"d", 2}, {"a", 1}}, lista)
	assert.Empty(t, ranking(nil))
}
