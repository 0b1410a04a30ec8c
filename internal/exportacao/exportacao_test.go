package exportacao

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func tabelaExemplo() Tabela {
	return Tabela{
		Titulo:  "Relatório de Títulos",
		Resumo:  [][2]string{{"Total", "2"}, {"Valor protestado", "R$ 100,00"}},
		Colunas: []string{"Protocolo", "Devedor", "Status"},
		Linhas: [][]string{
			{"P-1", "João; Silva", "Pendente"},
			{"P-2", "Maria", "Protestado"},
		},
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, tabelaExemplo()))

	linhas := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, linhas, 3)
	assert.Equal(t, "Protocolo;Devedor;Status", linhas[0])
	assert.Equal(t, `P-1;"João; Silva";Pendente`, linhas[1])
}

func TestExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Excel(&buf, tabelaExemplo()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	linhas, err := f.GetRows(planilhaDados)
	require.NoError(t, err)
	require.Len(t, linhas, 3)
	assert.Equal(t, []string{"P-2", "Maria", "Protestado"}, linhas[2])

	resumo, err := f.GetRows("Resumo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Total", "2"}, resumo[0])
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, tabelaExemplo()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestNormalizarFormato(t *testing.T) {
	f, ok := NormalizarFormato("")
	assert.True(t, ok)
	assert.Equal(t, FormatoJSON, f)

	f, ok = NormalizarFormato("XLSX")
	assert.True(t, ok)
	assert.Equal(t, "xlsx", f.Extensao())

	_, ok = NormalizarFormato("docx")
	assert.False(t, ok)

	assert.Error(t, Exportar(&bytes.Buffer{}, FormatoJSON, tabelaExemplo()))
}
