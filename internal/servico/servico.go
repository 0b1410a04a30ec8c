package servico

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
)

// Relogio permite fixar o horário nos testes.
type Relogio func() time.Time

// registrarLog grava a trilha de auditoria; falhas aqui não interrompem a operação.
func registrarLog(ctx context.Context, store repositorio.LogStore, usuarioID *uint, acao, detalhes string, agora time.Time) {
	entrada := &dominio.LogAtividade{UsuarioID: usuarioID, Acao: acao, Detalhes: detalhes, DataHora: agora}
	if err := store.RegistrarLog(ctx, entrada); err != nil {
		log.Printf("Erro ao registrar log de atividade %s: %v", acao, err)
	}
}

func registrarEvento(ctx context.Context, store repositorio.OutboxStore, tipo, agregado string, id uint, payload any, agora time.Time) error {
	evento, err := dominio.NovoEvento(tipo, agregado, id, payload, agora)
	if err != nil {
		return err
	}
	if err := store.RegistrarEvento(ctx, &evento); err != nil {
		return err
	}
	log.Printf("[outbox] Evento criado: %s para %s %d", tipo, agregado, id)
	return nil
}

func naoEncontrado(entidade string, id uint, err error) error {
	if errors.Is(err, dominio.ErrNaoEncontrado) {
		return fmt.Errorf("%w: %s %d", dominio.ErrNaoEncontrado, entidade, id)
	}
	return err
}
