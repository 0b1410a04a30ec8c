package servico

import (
	"context"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
)

type LogService struct {
	store repositorio.LogStore
}

func NovoLogService(store repositorio.LogStore) *LogService {
	return &LogService{store: store}
}

func (s *LogService) Listar(ctx context.Context, f dominio.FiltroLogs, p dominio.Paginacao) (dominio.Pagina[dominio.LogAtividade], error) {
	itens, total, err := s.store.ListarLogs(ctx, f, p)
	if err != nil {
		return dominio.Pagina[dominio.LogAtividade]{}, err
	}
	return dominio.NovaPagina(itens, p, total), nil
}
