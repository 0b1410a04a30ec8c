package dominio

import "math"

const (
	PaginaPadrao    = 1
	PorPaginaPadrao = 20
	PorPaginaMaximo = 100
	// PaginaMaxima mantém o offset dentro de int32 com qualquer tamanho de página.
	PaginaMaxima = math.MaxInt32 / PorPaginaMaximo
)

// Paginacao com PorPagina zero significa "sem limite" e é usada por relatórios.
type Paginacao struct {
	Pagina    int
	PorPagina int
}

func NovaPaginacao(pagina, porPagina int) Paginacao {
	if pagina <= 0 {
		pagina = PaginaPadrao
	}
	if porPagina <= 0 {
		porPagina = PorPaginaPadrao
	}
	if porPagina > PorPaginaMaximo {
		porPagina = PorPaginaMaximo
	}
	if pagina > PaginaMaxima {
		pagina = PaginaMaxima
	}
	return Paginacao{Pagina: pagina, PorPagina: porPagina}
}

func (p Paginacao) SemLimite() bool { return p.PorPagina <= 0 }

func (p Paginacao) Offset() int {
	if p.SemLimite() || p.Pagina <= 1 {
		return 0
	}
	return (p.Pagina - 1) * p.PorPagina
}

type Meta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

func (p Paginacao) Meta(total int64) Meta {
	m := Meta{Page: p.Pagina, PerPage: p.PorPagina, Total: total}
	if p.PorPagina > 0 {
		m.Pages = int((total + int64(p.PorPagina) - 1) / int64(p.PorPagina))
	}
	m.HasNext = p.Pagina < m.Pages
	m.HasPrev = p.Pagina > 1
	return m
}

type Pagina[T any] struct {
	Items []T `json:"items"`
	Meta  Meta `json:"meta"`
}

func NovaPagina[T any](itens []T, p Paginacao, total int64) Pagina[T] {
	if itens == nil {
		itens = []T{}
	}
	return Pagina[T]{Items: itens, Meta: p.Meta(total)}
}

// Fatiar aplica a paginação sobre uma lista já filtrada e ordenada.
func Fatiar[T any](itens []T, p Paginacao) []T {
	if p.SemLimite() {
		return itens
	}
	inicio := p.Offset()
	if inicio >= len(itens) {
		return []T{}
	}
	fim := inicio + p.PorPagina
	if fim > len(itens) {
		fim = len(itens)
	}
	return itens[inicio:fim]
}
