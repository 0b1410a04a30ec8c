package repositorio

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
)

type dadosMemoria struct {
	sequencia     map[string]uint
	remessas      map[uint]dominio.Remessa
	titulos       map[uint]dominio.Titulo
	usuarios      map[uint]dominio.Usuario
	erros         map[uint]dominio.Erro
	desistencias  map[uint]dominio.Desistencia
	logs          map[uint]dominio.LogAtividade
	configuracoes map[string]dominio.Configuracao
	eventos       map[int64]dominio.EventoOutbox
	mensagens     map[string]time.Time
}

func (d *dadosMemoria) copiar() *dadosMemoria {
	return &dadosMemoria{
		sequencia:     maps.Clone(d.sequencia),
		remessas:      maps.Clone(d.remessas),
		titulos:       maps.Clone(d.titulos),
		usuarios:      maps.Clone(d.usuarios),
		erros:         maps.Clone(d.erros),
		desistencias:  maps.Clone(d.desistencias),
		logs:          maps.Clone(d.logs),
		configuracoes: maps.Clone(d.configuracoes),
		eventos:       maps.Clone(d.eventos),
		mensagens:     maps.Clone(d.mensagens),
	}
}

// MemoriaStore guarda tudo em mapas protegidos por RWMutex.
// Útil para testes e para o modo de demonstração; não persiste nada.
type MemoriaStore struct {
	*estadoMemoria
	// emTransacao marca a visão entregue a fn dentro de Transacao.
	emTransacao bool
}

type estadoMemoria struct {
	mu sync.RWMutex
	// txMu é mantido durante toda a transação; escritas de fora dela esperam
	// a transação terminar para que o rollback não apague o que não é dela.
	txMu  sync.Mutex
	dados *dadosMemoria
	agora func() time.Time
}

func NovoMemoriaStore() *MemoriaStore {
	return &MemoriaStore{estadoMemoria: &estadoMemoria{
		dados: &dadosMemoria{
			sequencia:     map[string]uint{},
			remessas:      map[uint]dominio.Remessa{},
			titulos:       map[uint]dominio.Titulo{},
			usuarios:      map[uint]dominio.Usuario{},
			erros:         map[uint]dominio.Erro{},
			desistencias:  map[uint]dominio.Desistencia{},
			logs:          map[uint]dominio.LogAtividade{},
			configuracoes: map[string]dominio.Configuracao{},
			eventos:       map[int64]dominio.EventoOutbox{},
			mensagens:     map[string]time.Time{},
		},
		agora: time.Now,
	}}
}

// Transacao serializa as transações e restaura o estado anterior quando fn falha.
// Chamadas aninhadas reaproveitam a transação corrente.
func (s *MemoriaStore) Transacao(ctx context.Context, fn func(Store) error) error {
	if s.emTransacao {
		return fn(s)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	antes := s.dados.copiar()
	s.mu.RUnlock()

	if err := fn(&MemoriaStore{estadoMemoria: s.estadoMemoria, emTransacao: true}); err != nil {
		s.mu.Lock()
		s.dados = antes
		s.mu.Unlock()
		return err
	}
	return nil
}

// travarEscrita devolve a função que libera os locks tomados.
func (s *MemoriaStore) travarEscrita() func() {
	if !s.emTransacao {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !s.emTransacao {
			s.txMu.Unlock()
		}
	}
}

func (s *MemoriaStore) proximo(tabela string) uint {
	s.dados.sequencia[tabela]++
	return s.dados.sequencia[tabela]
}

func filtrar[T any](itens map[uint]T, aceita func(T) bool, menor func(a, b T) bool, p dominio.Paginacao) ([]T, int64) {
	lista := []T{}
	for _, item := range itens {
		if aceita(item) {
			lista = append(lista, item)
		}
	}
	sort.Slice(lista, func(i, j int) bool { return menor(lista[i], lista[j]) })
	return dominio.Fatiar(lista, p), int64(len(lista))
}

// maisRecente ordena por data decrescente e, no empate, por id decrescente.
func maisRecente(da, db time.Time, ia, ib uint) bool {
	if !da.Equal(db) {
		return da.After(db)
	}
	return ia > ib
}

// Remessas

func (s *MemoriaStore) CriarRemessa(ctx context.Context, r *dominio.Remessa) error {
	defer s.travarEscrita()()
	r.PrepararCriacao(s.agora())
	r.ID = s.proximo("remessas")
	s.dados.remessas[r.ID] = *r
	return nil
}

func (s *MemoriaStore) AtualizarRemessa(ctx context.Context, r *dominio.Remessa) error {
	defer s.travarEscrita()()
	if _, ok := s.dados.remessas[r.ID]; !ok {
		return dominio.ErrNaoEncontrado
	}
	s.dados.remessas[r.ID] = *r
	return nil
}

func (s *MemoriaStore) BuscarRemessa(ctx context.Context, id uint) (*dominio.Remessa, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.dados.remessas[id]
	if !ok {
		return nil, dominio.ErrNaoEncontrado
	}
	return &r, nil
}

// Transações em memória já são serializadas; basta a leitura.
func (s *MemoriaStore) BuscarRemessaParaAtualizar(ctx context.Context, id uint) (*dominio.Remessa, error) {
	return s.BuscarRemessa(ctx, id)
}

func (s *MemoriaStore) ListarRemessas(ctx context.Context, f dominio.FiltroRemessas, p dominio.Paginacao) ([]dominio.Remessa, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	itens, total := filtrar(s.dados.remessas, f.Aceita, func(a, b dominio.Remessa) bool {
		return maisRecente(a.DataEnvio, b.DataEnvio, a.ID, b.ID)
	}, p)
	return itens, total, nil
}

func (s *MemoriaStore) ExisteRemessaComHash(ctx context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.dados.remessas {
		if r.HashArquivo == hash {
			return true, nil
		}
	}
	return false, nil
}

// Títulos

func (s *MemoriaStore) protocoloEmUso(protocolo string, exceto uint) bool {
	for _, t := range s.dados.titulos {
		if t.Protocolo == protocolo && t.ID != exceto {
			return true
		}
	}
	return false
}

func (s *MemoriaStore) CriarTitulo(ctx context.Context, t *dominio.Titulo) error {
	defer s.travarEscrita()()
	if s.protocoloEmUso(t.Protocolo, 0) {
		return fmt.Errorf("%w: %s", dominio.ErrProtocoloDuplicado, t.Protocolo)
	}
	t.PrepararCriacao(s.agora())
	t.ID = s.proximo("titulos")
	s.dados.titulos[t.ID] = *t
	return nil
}

func (s *MemoriaStore) AtualizarTitulo(ctx context.Context, t *dominio.Titulo) error {
	defer s.travarEscrita()()
	if _, ok := s.dados.titulos[t.ID]; !ok {
		return dominio.ErrNaoEncontrado
	}
	if s.protocoloEmUso(t.Protocolo, t.ID) {
		return fmt.Errorf("%w: %s", dominio.ErrProtocoloDuplicado, t.Protocolo)
	}
	s.dados.titulos[t.ID] = *t
	return nil
}

func (s *MemoriaStore) BuscarTitulo(ctx context.Context, id uint) (*dominio.Titulo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.dados.titulos[id]
	if !ok {
		return nil, dominio.ErrNaoEncontrado
	}
	return &t, nil
}

func (s *MemoriaStore) BuscarTituloParaAtualizar(ctx context.Context, id uint) (*dominio.Titulo, error) {
	return s.BuscarTitulo(ctx, id)
}

func (s *MemoriaStore) BuscarTituloPorProtocolo(ctx context.Context, protocolo string) (*dominio.Titulo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.dados.titulos {
		if t.Protocolo == protocolo {
			return &t, nil
		}
	}
	return nil, dominio.ErrNaoEncontrado
}

func (s *MemoriaStore) BuscarTituloPorProtocoloParaAtualizar(ctx context.Context, protocolo string) (*dominio.Titulo, error) {
	return s.BuscarTituloPorProtocolo(ctx, protocolo)
}

func (s *MemoriaStore) ListarTitulos(ctx context.Context, f dominio.FiltroTitulos, p dominio.Paginacao) ([]dominio.Titulo, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	itens, total := filtrar(s.dados.titulos, f.Aceita, func(a, b dominio.Titulo) bool {
		return maisRecente(a.DataCadastro, b.DataCadastro, a.ID, b.ID)
	}, p)
	return itens, total, nil
}

// Usuários

func (s *MemoriaStore) emailEmUso(email string, exceto uint) bool {
	for _, u := range s.dados.usuarios {
		if u.Email == email && u.ID != exceto {
			return true
		}
	}
	return false
}

func (s *MemoriaStore) CriarUsuario(ctx context.Context, u *dominio.Usuario) error {
	defer s.travarEscrita()()
	if s.emailEmUso(u.Email, 0) {
		return fmt.Errorf("%w: %s", dominio.ErrEmailDuplicado, u.Email)
	}
	if u.DataCriacao.IsZero() {
		u.DataCriacao = s.agora()
	}
	u.ID = s.proximo("usuarios")
	s.dados.usuarios[u.ID] = *u
	return nil
}

func (s *MemoriaStore) AtualizarUsuario(ctx context.Context, u *dominio.Usuario) error {
	defer s.travarEscrita()()
	if _, ok := s.dados.usuarios[u.ID]; !ok {
		return dominio.ErrNaoEncontrado
	}
	if s.emailEmUso(u.Email, u.ID) {
		return fmt.Errorf("%w: %s", dominio.ErrEmailDuplicado, u.Email)
	}
	s.dados.usuarios[u.ID] = *u
	return nil
}

func (s *MemoriaStore) RemoverUsuario(ctx context.Context, id uint) error {
	defer s.travarEscrita()()
	if _, ok := s.dados.usuarios[id]; !ok {
		return dominio.ErrNaoEncontrado
	}
	delete(s.dados.usuarios, id)
	return nil
}

func (s *MemoriaStore) BuscarUsuario(ctx context.Context, id uint) (*dominio.Usuario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.dados.usuarios[id]
	if !ok {
		return nil, dominio.ErrNaoEncontrado
	}
	return &u, nil
}

func (s *MemoriaStore) BuscarUsuarioPorEmail(ctx context.Context, email string) (*dominio.Usuario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.dados.usuarios {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, dominio.ErrNaoEncontrado
}

func (s *MemoriaStore) ListarUsuarios(ctx context.Context, f dominio.FiltroUsuarios, p dominio.Paginacao) ([]dominio.Usuario, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	itens, total := filtrar(s.dados.usuarios, f.Aceita, func(a, b dominio.Usuario) bool {
		if a.Nome != b.Nome {
			return a.Nome < b.Nome
		}
		return a.ID < b.ID
	}, p)
	return itens, total, nil
}

// Erros

func (s *MemoriaStore) CriarErro(ctx context.Context, e *dominio.Erro) error {
	defer s.travarEscrita()()
	e.PrepararCriacao(s.agora())
	e.ID = s.proximo("erros")
	s.dados.erros[e.ID] = *e
	return nil
}

func (s *MemoriaStore) AtualizarErro(ctx context.Context, e *dominio.Erro) error {
	defer s.travarEscrita()()
	if _, ok := s.dados.erros[e.ID]; !ok {
		return dominio.ErrNaoEncontrado
	}
	s.dados.erros[e.ID] = *e
	return nil
}

func (s *MemoriaStore) BuscarErro(ctx context.Context, id uint) (*dominio.Erro, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.dados.erros[id]
	if !ok {
		return nil, dominio.ErrNaoEncontrado
	}
	return &e, nil
}

func (s *MemoriaStore) BuscarErroParaAtualizar(ctx context.Context, id uint) (*dominio.Erro, error) {
	return s.BuscarErro(ctx, id)
}

func (s *MemoriaStore) ListarErros(ctx context.Context, f dominio.FiltroErros, p dominio.Paginacao) ([]dominio.Erro, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	itens, total := filtrar(s.dados.erros, f.Aceita, func(a, b dominio.Erro) bool {
		return maisRecente(a.DataOcorrencia, b.DataOcorrencia, a.ID, b.ID)
	}, p)
	return itens, total, nil
}

func (s *MemoriaStore) ContarErrosPendentes(ctx context.Context, remessaID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, e := range s.dados.erros {
		if e.RemessaID != nil && *e.RemessaID == remessaID && e.Status == dominio.StatusErroPendente {
			total++
		}
	}
	return total, nil
}

// Desistências

func (s *MemoriaStore) CriarDesistencia(ctx context.Context, d *dominio.Desistencia) error {
	defer s.travarEscrita()()
	if d.DataSolicitacao.IsZero() {
		d.DataSolicitacao = s.agora()
	}
	if d.Status == "" {
		d.Status = dominio.StatusDesistenciaPendente
	}
	d.ID = s.proximo("desistencias")
	s.dados.desistencias[d.ID] = *d
	return nil
}

func (s *MemoriaStore) AtualizarDesistencia(ctx context.Context, d *dominio.Desistencia) error {
	defer s.travarEscrita()()
	if _, ok := s.dados.desistencias[d.ID]; !ok {
		return dominio.ErrNaoEncontrado
	}
	s.dados.desistencias[d.ID] = *d
	return nil
}

func (s *MemoriaStore) BuscarDesistencia(ctx context.Context, id uint) (*dominio.Desistencia, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dados.desistencias[id]
	if !ok {
		return nil, dominio.ErrNaoEncontrado
	}
	return &d, nil
}

func (s *MemoriaStore) BuscarDesistenciaParaAtualizar(ctx context.Context, id uint) (*dominio.Desistencia, error) {
	return s.BuscarDesistencia(ctx, id)
}

func (s *MemoriaStore) ListarDesistencias(ctx context.Context, f dominio.FiltroDesistencias, p dominio.Paginacao) ([]dominio.Desistencia, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	itens, total := filtrar(s.dados.desistencias, f.Aceita, func(a, b dominio.Desistencia) bool {
		return maisRecente(a.DataSolicitacao, b.DataSolicitacao, a.ID, b.ID)
	}, p)
	return itens, total, nil
}

// Logs e configurações

func (s *MemoriaStore) RegistrarLog(ctx context.Context, l *dominio.LogAtividade) error {
	defer s.travarEscrita()()
	if l.DataHora.IsZero() {
		l.DataHora = s.agora()
	}
	l.ID = s.proximo("logs")
	s.dados.logs[l.ID] = *l
	return nil
}

func (s *MemoriaStore) ListarLogs(ctx context.Context, f dominio.FiltroLogs, p dominio.Paginacao) ([]dominio.LogAtividade, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	itens, total := filtrar(s.dados.logs, f.Aceita, func(a, b dominio.LogAtividade) bool {
		return maisRecente(a.DataHora, b.DataHora, a.ID, b.ID)
	}, p)
	return itens, total, nil
}

func (s *MemoriaStore) ListarConfiguracoes(ctx context.Context) ([]dominio.Configuracao, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	itens := make([]dominio.Configuracao, 0, len(s.dados.configuracoes))
	for _, c := range s.dados.configuracoes {
		itens = append(itens, c)
	}
	sort.Slice(itens, func(i, j int) bool { return itens[i].Chave < itens[j].Chave })
	return itens, nil
}

func (s *MemoriaStore) BuscarConfiguracao(ctx context.Context, chave string) (*dominio.Configuracao, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.dados.configuracoes[chave]
	if !ok {
		return nil, dominio.ErrNaoEncontrado
	}
	return &c, nil
}

func (s *MemoriaStore) SalvarConfiguracao(ctx context.Context, c *dominio.Configuracao) error {
	defer s.travarEscrita()()
	s.dados.configuracoes[c.Chave] = *c
	return nil
}

// Outbox e idempotência

func (s *MemoriaStore) RegistrarEvento(ctx context.Context, e *dominio.EventoOutbox) error {
	defer s.travarEscrita()()
	e.ID = int64(s.proximo("eventos_outbox"))
	s.dados.eventos[e.ID] = *e
	return nil
}

func (s *MemoriaStore) EventosPendentes(ctx context.Context, limite int) ([]dominio.EventoOutbox, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var eventos []dominio.EventoOutbox
	for _, e := range s.dados.eventos {
		if e.DataPublicacao == nil {
			eventos = append(eventos, e)
		}
	}
	sort.Slice(eventos, func(i, j int) bool { return eventos[i].ID < eventos[j].ID })
	if limite > 0 && len(eventos) > limite {
		eventos = eventos[:limite]
	}
	return eventos, nil
}

func (s *MemoriaStore) MarcarPublicado(ctx context.Context, id int64, quando time.Time) error {
	defer s.travarEscrita()()
	e, ok := s.dados.eventos[id]
	if !ok {
		return dominio.ErrNaoEncontrado
	}
	e.DataPublicacao = &quando
	s.dados.eventos[id] = e
	return nil
}

func (s *MemoriaStore) MensagemProcessada(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.dados.mensagens[id]
	return ok, nil
}

func (s *MemoriaStore) RegistrarMensagem(ctx context.Context, id string, quando time.Time) error {
	defer s.travarEscrita()()
	if _, ok := s.dados.mensagens[id]; ok {
		return fmt.Errorf("%w: mensagem %s", dominio.ErrConflito, id)
	}
	s.dados.mensagens[id] = quando
	return nil
}
