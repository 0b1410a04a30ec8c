package servico

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
)

type ConfiguracaoService struct {
	store repositorio.Store
	agora Relogio
}

func NovoConfiguracaoService(store repositorio.Store) *ConfiguracaoService {
	return &ConfiguracaoService{store: store, agora: time.Now}
}

func (s *ConfiguracaoService) Listar(ctx context.Context) ([]dominio.Configuracao, error) {
	return s.store.ListarConfiguracoes(ctx)
}

// Salvar cria a chave se ainda não existir. Descrição vazia mantém a atual.
func (s *ConfiguracaoService) Salvar(ctx context.Context, chave, valor, descricao string, usuarioID uint) (*dominio.Configuracao, error) {
	chave = strings.TrimSpace(chave)
	if chave == "" {
		return nil, dominio.Invalido("Chave é obrigatória")
	}

	c, err := s.store.BuscarConfiguracao(ctx, chave)
	if errors.Is(err, dominio.ErrNaoEncontrado) {
		c = &dominio.Configuracao{Chave: chave}
	} else if err != nil {
		return nil, err
	}
	agora := s.agora()
	c.Valor = valor
	if d := strings.TrimSpace(descricao); d != "" {
		c.Descricao = d
	}
	c.DataAtualizacao = agora
	if err := s.store.SalvarConfiguracao(ctx, c); err != nil {
		return nil, err
	}
	registrarLog(ctx, s.store, &usuarioID, "alterar_configuracao", fmt.Sprintf("Configuração %s alterada", chave), agora)
	return c, nil
}
