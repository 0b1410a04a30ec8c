// Package exportacao gera os arquivos de relatório (CSV, Excel e PDF).
package exportacao

import (
	"fmt"
	"io"
	"strings"
)

type Formato string

const (
	FormatoJSON  Formato = "json"
	FormatoCSV   Formato = "csv"
	FormatoExcel Formato = "excel"
	FormatoPDF   Formato = "pdf"
)

func NormalizarFormato(valor string) (Formato, bool) {
	switch f := Formato(strings.ToLower(strings.TrimSpace(valor))); f {
	case "":
		return FormatoJSON, true
	case FormatoJSON, FormatoCSV, FormatoExcel, FormatoPDF:
		return f, true
	case "xlsx":
		return FormatoExcel, true
	}
	return "", false
}

func (f Formato) Extensao() string {
	if f == FormatoExcel {
		return "xlsx"
	}
	return string(f)
}

func (f Formato) ContentType() string {
	switch f {
	case FormatoCSV:
		return "text/csv; charset=utf-8"
	case FormatoExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatoPDF:
		return "application/pdf"
	}
	return "application/json"
}

// Tabela é a forma comum que todo relatório assume antes de ser exportado.
type Tabela struct {
	Titulo  string
	Resumo  [][2]string
	Colunas []string
	Linhas  [][]string
}

func Exportar(w io.Writer, formato Formato, t Tabela) error {
	switch formato {
	case FormatoCSV:
		return CSV(w, t)
	case FormatoExcel:
		return Excel(w, t)
	case FormatoPDF:
		return PDF(w, t)
	}
	return fmt.Errorf("formato não exportável: %s", formato)
}
