package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValorMaximo é o primeiro valor que não cabe em numeric(15,2).
const ValorMaximo = 1e13

var formatoValor = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ConverterValor aceita "1234.56", "1234,56" e "1.234,56".
func ConverterValor(texto string) (float64, error) {
	v := strings.TrimSpace(texto)
	v = strings.TrimPrefix(v, "R$")
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, fmt.Errorf("valor vazio")
	}
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.Replace(v, ",", ".", 1)
	}
	if strings.HasPrefix(v, "-") {
		return 0, fmt.Errorf("valor negativo: %s", texto)
	}
	// só dígitos: NaN, Inf, expoente e hexadecimal ficam de fora
	if !formatoValor.MatchString(v) {
		return 0, fmt.Errorf("valor inválido: %s", texto)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("valor inválido: %s", texto)
	}
	if f >= ValorMaximo {
		return 0, fmt.Errorf("valor acima do limite: %s", texto)
	}
	return f, nil
}

var layoutsData = []string{"2006-01-02", "02/01/2006", "02012006", "2006-01-02T15:04:05"}

// ConverterData aceita ISO (AAAA-MM-DD) e o formato brasileiro (DD/MM/AAAA).
// Texto vazio resulta em nil sem erro.
func ConverterData(texto string) (*time.Time, error) {
	v := strings.TrimSpace(texto)
	if v == "" {
		return nil, nil
	}
	for _, layout := range layoutsData {
		if d, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("data inválida: %s", texto)
}

func ConverterAceite(texto string) bool {
	switch strings.ToUpper(strings.TrimSpace(texto)) {
	case "S", "SIM", "A", "TRUE", "1":
		return true
	}
	return false
}
