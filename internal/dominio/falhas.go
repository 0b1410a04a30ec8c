package dominio

import (
	"errors"
	"fmt"
)

var (
	ErrNaoEncontrado      = errors.New("registro não encontrado")
	ErrValidacao          = errors.New("dados inválidos")
	ErrTransicaoInvalida  = errors.New("transição de status inválida")
	ErrConflito           = errors.New("operação conflita com o estado atual")
	ErrEmailDuplicado     = errors.New("email já cadastrado")
	ErrProtocoloDuplicado = errors.New("protocolo já cadastrado")
	ErrCredenciais        = errors.New("credenciais inválidas")
	ErrUsuarioInativo     = errors.New("usuário inativo")
	ErrSemPermissao       = errors.New("permissão insuficiente")
)

// ErroValidacao carrega a mensagem exibida ao cliente e se comporta como ErrValidacao em errors.Is.
type ErroValidacao struct {
	Mensagem string
}

func (e *ErroValidacao) Error() string { return e.Mensagem }

func (e *ErroValidacao) Is(alvo error) bool { return alvo == ErrValidacao }

func Invalido(formato string, args ...any) error {
	return &ErroValidacao{Mensagem: fmt.Sprintf(formato, args...)}
}
