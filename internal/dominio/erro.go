package dominio

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Criticidade string

const (
	CriticidadeBaixa Criticidade = "Baixa"
	CriticidadeMedia Criticidade = "Media"
	CriticidadeAlta  Criticidade = "Alta"
)

func (c Criticidade) Valida() bool {
	return c == CriticidadeBaixa || c == CriticidadeMedia || c == CriticidadeAlta
}

type StatusErro string

const (
	StatusErroPendente  StatusErro = "Pendente"
	StatusErroResolvido StatusErro = "Resolvido"
)

// Códigos gravados pela ingestão de arquivos.
const (
	CodigoCampoObrigatorio       = "XML_CAMPO_OBRIGATORIO"
	CodigoValorInvalido          = "XML_VALOR_INVALIDO"
	CodigoDataInvalida           = "XML_DATA_INVALIDA"
	CodigoArquivoSemItens        = "XML_SEM_ITENS"
	CodigoProtocoloDuplicado     = "PROTOCOLO_DUPLICADO"
	CodigoProtocoloNaoEncontrado = "PROTOCOLO_NAO_ENCONTRADO"
	CodigoTituloNaoPendente      = "TITULO_NAO_PENDENTE"
)

type Erro struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	Codigo             string      `gorm:"not null;index" json:"codigo"`
	Mensagem           string      `gorm:"not null" json:"mensagem"`
	Modulo             string      `gorm:"not null;index" json:"modulo"`
	Criticidade        Criticidade `gorm:"type:varchar(10);not null" json:"criticidade"`
	Status             StatusErro  `gorm:"type:varchar(20);not null;index" json:"status"`
	Solucao            string      `json:"solucao"`
	DataOcorrencia     time.Time   `gorm:"not null;index" json:"dataOcorrencia"`
	DataResolucao      *time.Time  `json:"dataResolucao"`
	RemessaID          *uint       `gorm:"index" json:"remessaId"`
	TituloID           *uint       `json:"tituloId"`
	UsuarioResolucaoID *uint       `json:"usuarioResolucaoId"`
}

func (Erro) TableName() string {
	return "erros"
}

func (e *Erro) BeforeCreate(tx *gorm.DB) error {
	e.PrepararCriacao(time.Now())
	return nil
}

func (e *Erro) PrepararCriacao(agora time.Time) {
	if e.Status == "" {
		e.Status = StatusErroPendente
	}
	if e.Criticidade == "" {
		e.Criticidade = CriticidadeMedia
	}
	if e.DataOcorrencia.IsZero() {
		e.DataOcorrencia = agora
	}
}

func (e *Erro) Resolver(solucao string, usuarioID uint, agora time.Time) error {
	if e.Status == StatusErroResolvido {
		return fmt.Errorf("%w: erro %d já foi resolvido", ErrTransicaoInvalida, e.ID)
	}
	e.Status = StatusErroResolvido
	if solucao != "" {
		e.Solucao = solucao
	}
	e.DataResolucao = &agora
	e.UsuarioResolucaoID = &usuarioID
	return nil
}
