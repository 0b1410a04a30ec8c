package exportacao

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const planilhaDados = "Dados"

func Excel(w io.Writer, t Tabela) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", planilhaDados); err != nil {
		return fmt.Errorf("falha ao nomear planilha: %w", err)
	}

	negrito, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return fmt.Errorf("falha ao criar estilo: %w", err)
	}

	if err := f.SetSheetRow(planilhaDados, "A1", &t.Colunas); err != nil {
		return fmt.Errorf("falha ao escrever cabeçalho: %w", err)
	}
	if len(t.Colunas) > 0 {
		ultima, _ := excelize.CoordinatesToCellName(len(t.Colunas), 1)
		if err := f.SetCellStyle(planilhaDados, "A1", ultima, negrito); err != nil {
			return fmt.Errorf("falha ao aplicar estilo: %w", err)
		}
		colFinal, _ := excelize.ColumnNumberToName(len(t.Colunas))
		_ = f.SetColWidth(planilhaDados, "A", colFinal, 20)
	}

	for i, linha := range t.Linhas {
		celula, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(planilhaDados, celula, &linha); err != nil {
			return fmt.Errorf("falha ao escrever linha %d: %w", i+2, err)
		}
	}

	if len(t.Resumo) > 0 {
		if _, err := f.NewSheet("Resumo"); err != nil {
			return fmt.Errorf("falha ao criar planilha de resumo: %w", err)
		}
		for i, par := range t.Resumo {
			celula, _ := excelize.CoordinatesToCellName(1, i+1)
			valores := []string{par[0], par[1]}
			if err := f.SetSheetRow("Resumo", celula, &valores); err != nil {
				return fmt.Errorf("falha ao escrever resumo: %w", err)
			}
		}
	}

	return f.Write(w)
}
