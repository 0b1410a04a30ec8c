package exportacao

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

func PDF(w io.Writer, t Tabela) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("{nb}")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Página %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(t.Titulo), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, tr("Gerado em "+time.Now().Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, par := range t.Resumo {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(60, 6, tr(par[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, tr(par[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(t.Colunas) > 0 {
		largura, _ := pdf.GetPageSize()
		esquerda, _, direita, _ := pdf.GetMargins()
		col := (largura - esquerda - direita) / float64(len(t.Colunas))

		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(217, 225, 242)
		for _, c := range t.Colunas {
			pdf.CellFormat(col, 7, tr(c), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		for _, linha := range t.Linhas {
			for _, v := range linha {
				pdf.CellFormat(col, 6, tr(truncar(v, 40)), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("falha ao gerar PDF: %w", err)
	}
	return nil
}

func truncar(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
