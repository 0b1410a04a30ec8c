package repositorio

import (
	"context"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
)

type RemessaStore interface {
	CriarRemessa(ctx context.Context, r *dominio.Remessa) error
	AtualizarRemessa(ctx context.Context, r *dominio.Remessa) error
	BuscarRemessa(ctx context.Context, id uint) (*dominio.Remessa, error)
	BuscarRemessaParaAtualizar(ctx context.Context, id uint) (*dominio.Remessa, error)
	ListarRemessas(ctx context.Context, f dominio.FiltroRemessas, p dominio.Paginacao) ([]dominio.Remessa, int64, error)
	ExisteRemessaComHash(ctx context.Context, hash string) (bool, error)
}

type TituloStore interface {
	CriarTitulo(ctx context.Context, t *dominio.Titulo) error
	AtualizarTitulo(ctx context.Context, t *dominio.Titulo) error
	BuscarTitulo(ctx context.Context, id uint) (*dominio.Titulo, error)
	BuscarTituloPorProtocolo(ctx context.Context, protocolo string) (*dominio.Titulo, error)
	BuscarTituloParaAtualizar(ctx context.Context, id uint) (*dominio.Titulo, error)
	BuscarTituloPorProtocoloParaAtualizar(ctx context.Context, protocolo string) (*dominio.Titulo, error)
	ListarTitulos(ctx context.Context, f dominio.FiltroTitulos, p dominio.Paginacao) ([]dominio.Titulo, int64, error)
}

type UsuarioStore interface {
	CriarUsuario(ctx context.Context, u *dominio.Usuario) error
	AtualizarUsuario(ctx context.Context, u *dominio.Usuario) error
	RemoverUsuario(ctx context.Context, id uint) error
	BuscarUsuario(ctx context.Context, id uint) (*dominio.Usuario, error)
	BuscarUsuarioPorEmail(ctx context.Context, email string) (*dominio.Usuario, error)
	ListarUsuarios(ctx context.Context, f dominio.FiltroUsuarios, p dominio.Paginacao) ([]dominio.Usuario, int64, error)
}

type ErroStore interface {
	CriarErro(ctx context.Context, e *dominio.Erro) error
	AtualizarErro(ctx context.Context, e *dominio.Erro) error
	BuscarErro(ctx context.Context, id uint) (*dominio.Erro, error)
	BuscarErroParaAtualizar(ctx context.Context, id uint) (*dominio.Erro, error)
	ListarErros(ctx context.Context, f dominio.FiltroErros, p dominio.Paginacao) ([]dominio.Erro, int64, error)
	ContarErrosPendentes(ctx context.Context, remessaID uint) (int64, error)
}

type DesistenciaStore interface {
	CriarDesistencia(ctx context.Context, d *dominio.Desistencia) error
	AtualizarDesistencia(ctx context.Context, d *dominio.Desistencia) error
	BuscarDesistencia(ctx context.Context, id uint) (*dominio.Desistencia, error)
	BuscarDesistenciaParaAtualizar(ctx context.Context, id uint) (*dominio.Desistencia, error)
	ListarDesistencias(ctx context.Context, f dominio.FiltroDesistencias, p dominio.Paginacao) ([]dominio.Desistencia, int64, error)
}

type LogStore interface {
	RegistrarLog(ctx context.Context, l *dominio.LogAtividade) error
	ListarLogs(ctx context.Context, f dominio.FiltroLogs, p dominio.Paginacao) ([]dominio.LogAtividade, int64, error)
}

type ConfiguracaoStore interface {
	ListarConfiguracoes(ctx context.Context) ([]dominio.Configuracao, error)
	BuscarConfiguracao(ctx context.Context, chave string) (*dominio.Configuracao, error)
	SalvarConfiguracao(ctx context.Context, c *dominio.Configuracao) error
}

type OutboxStore interface {
	RegistrarEvento(ctx context.Context, e *dominio.EventoOutbox) error
	EventosPendentes(ctx context.Context, limite int) ([]dominio.EventoOutbox, error)
	MarcarPublicado(ctx context.Context, id int64, quando time.Time) error
}

type MensagemStore interface {
	MensagemProcessada(ctx context.Context, id string) (bool, error)
	RegistrarMensagem(ctx context.Context, id string, quando time.Time) error
}

// Store agrega os repositórios. Transacao executa fn numa unidade atômica:
// se fn retornar erro nada do que foi escrito através do Store recebido permanece.
// Os métodos ParaAtualizar travam a linha até o fim da transação (SELECT ... FOR UPDATE).
type Store interface {
	RemessaStore
	TituloStore
	UsuarioStore
	ErroStore
	DesistenciaStore
	LogStore
	ConfiguracaoStore
	OutboxStore
	MensagemStore
	Transacao(ctx context.Context, fn func(Store) error) error
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoriaStore)(nil)
)
