package armazenamento

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisco(t *testing.T) {
	ctx := context.Background()
	d, err := NovoDisco(t.TempDir())
	require.NoError(t, err)

	chave := NovaChave("../../etc/remessa teste.xml", time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(chave, "20240201103000_"))
	assert.True(t, strings.HasSuffix(chave, "_remessa_teste.xml"))
	assert.NotContains(t, chave, "/")

	require.NoError(t, d.Salvar(ctx, chave, strings.NewReader("<remessa/>")))

	f, err := d.Abrir(ctx, chave)
	require.NoError(t, err)
	conteudo, _ := io.ReadAll(f)
	f.Close()
	assert.Equal(t, "<remessa/>", string(conteudo))

	require.NoError(t, d.Remover(ctx, chave))
	_, err = d.Abrir(ctx, chave)
	assert.ErrorIs(t, err, dominio.ErrNaoEncontrado)

	assert.NoError(t, d.Remover(ctx, chave), "remover arquivo inexistente não deve falhar")
	assert.Error(t, d.Salvar(ctx, "../fora.xml", strings.NewReader("x")))
}
