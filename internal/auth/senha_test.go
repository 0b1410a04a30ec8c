package auth

import (
	"strings"
	"testing"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGerarHashSenha(t *testing.T) {
	t.Run("deve gerar hash conferível", func(t *testing.T) {
		hash, err := GerarHashSenha("segredo1")
		require.NoError(t, err)
		assert.True(t, ConferirSenha(hash, "segredo1"))
		assert.False(t, ConferirSenha(hash, "segredo2"))
	})

	t.Run("deve aceitar exatamente 72 bytes", func(t *testing.T) {
		_, err := GerarHashSenha(strings.Repeat("a", TamanhoMaximoSenha))
		assert.NoError(t, err)
	})

	t.Run("deve recusar senha curta ou longa como erro de validação", func(t *testing.T) {
		for _, senha := range []string{"12345", strings.Repeat("a", 73), strings.Repeat("é", 40)} {
			_, err := GerarHashSenha(senha)
			assert.ErrorIs(t, err, dominio.ErrValidacao, "%d bytes", len(senha))
		}
	})
}
