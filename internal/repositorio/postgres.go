package repositorio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore implementa Store sobre gorm.
type PostgresStore struct {
	db *gorm.DB
}

func NovoPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Transacao(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresStore{db: tx})
	})
}

func (s *PostgresStore) com(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// travando trava as linhas lidas até o fim da transação.
func (s *PostgresStore) travando(ctx context.Context) *gorm.DB {
	return s.com(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// traduzir converte erros do driver nos sentinelas do domínio.
func traduzir(err error, duplicado error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dominio.ErrNaoEncontrado
	}
	var pgErr *pgconn.PgError
	if (errors.As(err, &pgErr) && pgErr.Code == "23505") || errors.Is(err, gorm.ErrDuplicatedKey) { // 23505 = unique_violation
		if duplicado == nil {
			duplicado = dominio.ErrConflito
		}
		return fmt.Errorf("%w: %v", duplicado, err)
	}
	return err
}

func paginar(q *gorm.DB, p dominio.Paginacao) *gorm.DB {
	if p.SemLimite() {
		return q
	}
	return q.Offset(p.Offset()).Limit(p.PorPagina)
}

func periodo(q *gorm.DB, coluna string, p dominio.Periodo) *gorm.DB {
	if p.De != nil {
		q = q.Where(coluna+" >= ?", *p.De)
	}
	if p.Ate != nil {
		q = q.Where(coluna+" < ?", *p.Ate)
	}
	return q
}

func contendo(valor string) string {
	return "%" + strings.ToLower(valor) + "%"
}

func listar[T any](q *gorm.DB, p dominio.Paginacao, ordem string) ([]T, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("falha ao contar registros: %w", err)
	}
	var itens []T
	if err := paginar(q.Session(&gorm.Session{}).Order(ordem), p).Find(&itens).Error; err != nil {
		return nil, 0, fmt.Errorf("falha ao listar registros: %w", err)
	}
	return itens, total, nil
}

func buscar[T any](q *gorm.DB, condicao string, args ...any) (*T, error) {
	var item T
	if err := q.Where(condicao, args...).First(&item).Error; err != nil {
		return nil, traduzir(err, nil)
	}
	return &item, nil
}

// Remessas

func (s *PostgresStore) CriarRemessa(ctx context.Context, r *dominio.Remessa) error {
	return traduzir(s.com(ctx).Create(r).Error, nil)
}

func (s *PostgresStore) AtualizarRemessa(ctx context.Context, r *dominio.Remessa) error {
	return traduzir(s.com(ctx).Save(r).Error, nil)
}

func (s *PostgresStore) BuscarRemessa(ctx context.Context, id uint) (*dominio.Remessa, error) {
	return buscar[dominio.Remessa](s.com(ctx), "id = ?", id)
}

func (s *PostgresStore) BuscarRemessaParaAtualizar(ctx context.Context, id uint) (*dominio.Remessa, error) {
	return buscar[dominio.Remessa](s.travando(ctx), "id = ?", id)
}

func (s *PostgresStore) ListarRemessas(ctx context.Context, f dominio.FiltroRemessas, p dominio.Paginacao) ([]dominio.Remessa, int64, error) {
	q := s.com(ctx).Model(&dominio.Remessa{})
	if f.Tipo != "" {
		q = q.Where("tipo = ?", f.Tipo)
	}
	if f.UF != "" {
		q = q.Where("uf = ?", f.UF)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.NomeArquivo != "" {
		q = q.Where("LOWER(nome_arquivo) LIKE ?", contendo(f.NomeArquivo))
	}
	q = periodo(q, "data_envio", f.Periodo)
	return listar[dominio.Remessa](q, p, "data_envio DESC, id DESC")
}

func (s *PostgresStore) ExisteRemessaComHash(ctx context.Context, hash string) (bool, error) {
	var total int64
	err := s.com(ctx).Model(&dominio.Remessa{}).Where("hash_arquivo = ?", hash).Count(&total).Error
	return total > 0, err
}

// Títulos

func (s *PostgresStore) CriarTitulo(ctx context.Context, t *dominio.Titulo) error {
	return traduzir(s.com(ctx).Create(t).Error, dominio.ErrProtocoloDuplicado)
}

func (s *PostgresStore) AtualizarTitulo(ctx context.Context, t *dominio.Titulo) error {
	return traduzir(s.com(ctx).Save(t).Error, dominio.ErrProtocoloDuplicado)
}

func (s *PostgresStore) BuscarTitulo(ctx context.Context, id uint) (*dominio.Titulo, error) {
	return buscar[dominio.Titulo](s.com(ctx), "id = ?", id)
}

func (s *PostgresStore) BuscarTituloPorProtocolo(ctx context.Context, protocolo string) (*dominio.Titulo, error) {
	return buscar[dominio.Titulo](s.com(ctx), "protocolo = ?", protocolo)
}

func (s *PostgresStore) BuscarTituloParaAtualizar(ctx context.Context, id uint) (*dominio.Titulo, error) {
	return buscar[dominio.Titulo](s.travando(ctx), "id = ?", id)
}

func (s *PostgresStore) BuscarTituloPorProtocoloParaAtualizar(ctx context.Context, protocolo string) (*dominio.Titulo, error) {
	return buscar[dominio.Titulo](s.travando(ctx), "protocolo = ?", protocolo)
}

func (s *PostgresStore) ListarTitulos(ctx context.Context, f dominio.FiltroTitulos, p dominio.Paginacao) ([]dominio.Titulo, int64, error) {
	q := s.com(ctx).Model(&dominio.Titulo{})
	if f.Numero != "" {
		q = q.Where("LOWER(numero) LIKE ?", contendo(f.Numero))
	}
	if f.Protocolo != "" {
		q = q.Where("protocolo = ?", f.Protocolo)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Devedor != "" {
		q = q.Where("LOWER(devedor) LIKE ? OR LOWER(documento_devedor) LIKE ?", contendo(f.Devedor), contendo(f.Devedor))
	}
	if f.RemessaID != nil {
		q = q.Where("remessa_id = ?", *f.RemessaID)
	}
	q = periodo(q, "data_cadastro", f.Periodo)
	return listar[dominio.Titulo](q, p, "data_cadastro DESC, id DESC")
}

// Usuários

func (s *PostgresStore) CriarUsuario(ctx context.Context, u *dominio.Usuario) error {
	return traduzir(s.com(ctx).Create(u).Error, dominio.ErrEmailDuplicado)
}

func (s *PostgresStore) AtualizarUsuario(ctx context.Context, u *dominio.Usuario) error {
	return traduzir(s.com(ctx).Save(u).Error, dominio.ErrEmailDuplicado)
}

func (s *PostgresStore) RemoverUsuario(ctx context.Context, id uint) error {
	res := s.com(ctx).Delete(&dominio.Usuario{}, id)
	if res.Error != nil {
		return traduzir(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return dominio.ErrNaoEncontrado
	}
	return nil
}

func (s *PostgresStore) BuscarUsuario(ctx context.Context, id uint) (*dominio.Usuario, error) {
	return buscar[dominio.Usuario](s.com(ctx), "id = ?", id)
}

func (s *PostgresStore) BuscarUsuarioPorEmail(ctx context.Context, email string) (*dominio.Usuario, error) {
	return buscar[dominio.Usuario](s.com(ctx), "email = ?", email)
}

func (s *PostgresStore) ListarUsuarios(ctx context.Context, f dominio.FiltroUsuarios, p dominio.Paginacao) ([]dominio.Usuario, int64, error) {
	q := s.com(ctx).Model(&dominio.Usuario{})
	if f.Perfil != "" {
		q = q.Where("perfil = ?", f.Perfil)
	}
	if f.Ativo != nil {
		q = q.Where("ativo = ?", *f.Ativo)
	}
	if f.Busca != "" {
		q = q.Where("LOWER(nome) LIKE ? OR LOWER(email) LIKE ?", contendo(f.Busca), contendo(f.Busca))
	}
	return listar[dominio.Usuario](q, p, "nome ASC, id ASC")
}

// Erros

func (s *PostgresStore) CriarErro(ctx context.Context, e *dominio.Erro) error {
	return traduzir(s.com(ctx).Create(e).Error, nil)
}

func (s *PostgresStore) AtualizarErro(ctx context.Context, e *dominio.Erro) error {
	return traduzir(s.com(ctx).Save(e).Error, nil)
}

func (s *PostgresStore) BuscarErro(ctx context.Context, id uint) (*dominio.Erro, error) {
	return buscar[dominio.Erro](s.com(ctx), "id = ?", id)
}

func (s *PostgresStore) BuscarErroParaAtualizar(ctx context.Context, id uint) (*dominio.Erro, error) {
	return buscar[dominio.Erro](s.travando(ctx), "id = ?", id)
}

func (s *PostgresStore) ListarErros(ctx context.Context, f dominio.FiltroErros, p dominio.Paginacao) ([]dominio.Erro, int64, error) {
	q := s.com(ctx).Model(&dominio.Erro{})
	if f.Modulo != "" {
		q = q.Where("modulo = ?", f.Modulo)
	}
	if f.Criticidade != "" {
		q = q.Where("criticidade = ?", f.Criticidade)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RemessaID != nil {
		q = q.Where("remessa_id = ?", *f.RemessaID)
	}
	q = periodo(q, "data_ocorrencia", f.Periodo)
	return listar[dominio.Erro](q, p, "data_ocorrencia DESC, id DESC")
}

func (s *PostgresStore) ContarErrosPendentes(ctx context.Context, remessaID uint) (int64, error) {
	var total int64
	err := s.com(ctx).Model(&dominio.Erro{}).
		Where("remessa_id = ? AND status = ?", remessaID, dominio.StatusErroPendente).
		Count(&total).Error
	return total, err
}

// Desistências

func (s *PostgresStore) CriarDesistencia(ctx context.Context, d *dominio.Desistencia) error {
	return traduzir(s.com(ctx).Create(d).Error, nil)
}

func (s *PostgresStore) AtualizarDesistencia(ctx context.Context, d *dominio.Desistencia) error {
	return traduzir(s.com(ctx).Save(d).Error, nil)
}

func (s *PostgresStore) BuscarDesistencia(ctx context.Context, id uint) (*dominio.Desistencia, error) {
	return buscar[dominio.Desistencia](s.com(ctx), "id = ?", id)
}

func (s *PostgresStore) BuscarDesistenciaParaAtualizar(ctx context.Context, id uint) (*dominio.Desistencia, error) {
	return buscar[dominio.Desistencia](s.travando(ctx), "id = ?", id)
}

func (s *PostgresStore) ListarDesistencias(ctx context.Context, f dominio.FiltroDesistencias, p dominio.Paginacao) ([]dominio.Desistencia, int64, error) {
	q := s.com(ctx).Model(&dominio.Desistencia{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Protocolo != "" {
		q = q.Where("protocolo = ?", f.Protocolo)
	}
	if f.TituloID != nil {
		q = q.Where("titulo_id = ?", *f.TituloID)
	}
	if f.RemessaID != nil {
		q = q.Where("remessa_id = ?", *f.RemessaID)
	}
	q = periodo(q, "data_solicitacao", f.Periodo)
	return listar[dominio.Desistencia](q, p, "data_solicitacao DESC, id DESC")
}

// Logs e configurações

func (s *PostgresStore) RegistrarLog(ctx context.Context, l *dominio.LogAtividade) error {
	return s.com(ctx).Create(l).Error
}

func (s *PostgresStore) ListarLogs(ctx context.Context, f dominio.FiltroLogs, p dominio.Paginacao) ([]dominio.LogAtividade, int64, error) {
	q := s.com(ctx).Model(&dominio.LogAtividade{})
	if f.UsuarioID != nil {
		q = q.Where("usuario_id = ?", *f.UsuarioID)
	}
	if f.Acao != "" {
		q = q.Where("acao = ?", f.Acao)
	}
	q = periodo(q, "data_hora", f.Periodo)
	return listar[dominio.LogAtividade](q, p, "data_hora DESC, id DESC")
}

func (s *PostgresStore) ListarConfiguracoes(ctx context.Context) ([]dominio.Configuracao, error) {
	var itens []dominio.Configuracao
	err := s.com(ctx).Order("chave ASC").Find(&itens).Error
	return itens, err
}

func (s *PostgresStore) BuscarConfiguracao(ctx context.Context, chave string) (*dominio.Configuracao, error) {
	return buscar[dominio.Configuracao](s.com(ctx), "chave = ?", chave)
}

func (s *PostgresStore) SalvarConfiguracao(ctx context.Context, c *dominio.Configuracao) error {
	return s.com(ctx).Save(c).Error
}

// Outbox e idempotência

func (s *PostgresStore) RegistrarEvento(ctx context.Context, e *dominio.EventoOutbox) error {
	if err := s.com(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("falha ao criar evento outbox: %w", err)
	}
	return nil
}

func (s *PostgresStore) EventosPendentes(ctx context.Context, limite int) ([]dominio.EventoOutbox, error) {
	var eventos []dominio.EventoOutbox
	err := s.com(ctx).Where("data_publicacao IS NULL").
		Order("id ASC").
		Limit(limite).
		Find(&eventos).Error
	return eventos, err
}

func (s *PostgresStore) MarcarPublicado(ctx context.Context, id int64, quando time.Time) error {
	return s.com(ctx).Model(&dominio.EventoOutbox{}).Where("id = ?", id).Update("data_publicacao", quando).Error
}

func (s *PostgresStore) MensagemProcessada(ctx context.Context, id string) (bool, error) {
	var total int64
	err := s.com(ctx).Model(&dominio.MensagemProcessada{}).Where("id_mensagem = ?", id).Count(&total).Error
	return total > 0, err
}

func (s *PostgresStore) RegistrarMensagem(ctx context.Context, id string, quando time.Time) error {
	return s.com(ctx).Create(&dominio.MensagemProcessada{IDMensagem: id, DataProcessada: quando}).Error
}
