package exportacao

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSV usa ';' como separador, que é o que o Excel em pt-BR espera.
func CSV(w io.Writer, t Tabela) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(t.Colunas); err != nil {
		return fmt.Errorf("falha ao escrever cabeçalho CSV: %w", err)
	}
	if err := cw.WriteAll(t.Linhas); err != nil {
		return fmt.Errorf("falha ao escrever linhas CSV: %w", err)
	}
	return nil
}
