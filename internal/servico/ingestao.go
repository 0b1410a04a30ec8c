package servico

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/armazenamento"
	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/parser"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"

	"github.com/cespare/xxhash/v2"
)

// PedidoUpload é o que chega do formulário de envio de remessa.
type PedidoUpload struct {
	Tipo        string
	UF          string
	Descricao   string
	NomeArquivo string
	Conteudo    []byte
	UsuarioID   *uint
}

type ResultadoIngestao struct {
	Remessa      *dominio.Remessa `json:"remessa"`
	Titulos      int              `json:"titulos"`
	Desistencias int              `json:"desistencias"`
	Erros        int              `json:"erros"`
}

type IngestaoService struct {
	store    repositorio.Store
	arquivos armazenamento.Armazenamento
	agora    Relogio
}

func NovoIngestaoService(store repositorio.Store, arquivos armazenamento.Armazenamento) *IngestaoService {
	return &IngestaoService{store: store, arquivos: arquivos, agora: time.Now}
}

// Validar confere o pedido sem tocar no banco.
func (s *IngestaoService) Validar(p PedidoUpload) (dominio.TipoRemessa, string, error) {
	if strings.TrimSpace(p.Tipo) == "" || strings.TrimSpace(p.UF) == "" || p.NomeArquivo == "" {
		return "", "", dominio.Invalido("Dados incompletos. Tipo, UF e arquivo são obrigatórios.")
	}
	if !strings.EqualFold(filepath.Ext(p.NomeArquivo), ".xml") {
		return "", "", dominio.Invalido("Apenas arquivos XML são permitidos.")
	}
	tipo, ok := dominio.NormalizarTipoRemessa(p.Tipo)
	if !ok {
		return "", "", dominio.Invalido("Tipo inválido: %s. Use Remessa ou Desistência.", p.Tipo)
	}
	uf, ok := dominio.NormalizarUF(p.UF)
	if !ok {
		return "", "", dominio.Invalido("UF inválida: %s", p.UF)
	}
	return tipo, uf, nil
}

func Checksum(conteudo []byte) string {
	d := xxhash.New()
	d.Write(conteudo)
	return hex.EncodeToString(d.Sum(nil))
}

// Processar grava a remessa e os itens do XML numa única transação.
// Falha de leitura do documento desfaz tudo; problemas em itens viram registros de Erro.
func (s *IngestaoService) Processar(ctx context.Context, p PedidoUpload) (*ResultadoIngestao, error) {
	tipo, uf, err := s.Validar(p)
	if err != nil {
		return nil, err
	}

	agora := s.agora()
	hash := Checksum(p.Conteudo)
	if repetido, err := s.store.ExisteRemessaComHash(ctx, hash); err == nil && repetido {
		log.Printf("Aviso: arquivo %s já foi enviado anteriormente (hash %s)", p.NomeArquivo, hash)
	}

	chave := armazenamento.NovaChave(p.NomeArquivo, agora)
	if err := s.arquivos.Salvar(ctx, chave, bytes.NewReader(p.Conteudo)); err != nil {
		return nil, err
	}

	var resultado *ResultadoIngestao
	err = s.store.Transacao(ctx, func(tx repositorio.Store) error {
		remessa := dominio.NovaRemessa(filepath.Base(p.NomeArquivo), tipo, uf, p.UsuarioID, agora)
		remessa.HashArquivo = hash
		remessa.CaminhoArquivo = chave
		if err := tx.CriarRemessa(ctx, &remessa); err != nil {
			return fmt.Errorf("falha ao criar remessa: %w", err)
		}

		if d := strings.TrimSpace(p.Descricao); d != "" {
			remessa.Descricao = d
			if err := tx.AtualizarRemessa(ctx, &remessa); err != nil {
				return fmt.Errorf("falha ao atualizar descrição: %w", err)
			}
		}

		lote := &loteIngestao{tx: tx, remessa: &remessa, agora: agora}
		var errLeitura error
		if tipo == dominio.TipoRemessaDesistencia {
			errLeitura = lote.desistencias(ctx, p.Conteudo)
		} else {
			errLeitura = lote.titulos(ctx, p.Conteudo)
		}
		if errLeitura != nil {
			return errLeitura
		}

		remessa.QuantidadeTitulos = lote.qtdTitulos + lote.qtdDesistencias
		if err := remessa.Concluir(lote.qtdErros > 0, agora); err != nil {
			return err
		}
		if err := tx.AtualizarRemessa(ctx, &remessa); err != nil {
			return fmt.Errorf("falha ao atualizar status da remessa: %w", err)
		}

		evento := dominio.EventoRemessaProcessada
		if remessa.Status == dominio.StatusRemessaErro {
			evento = dominio.EventoRemessaComErros
		}
		payload := map[string]any{
			"remessaId":    remessa.ID,
			"tipo":         remessa.Tipo,
			"uf":           remessa.UF,
			"status":       remessa.Status,
			"titulos":      lote.qtdTitulos,
			"desistencias": lote.qtdDesistencias,
			"erros":        lote.qtdErros,
		}
		if err := registrarEvento(ctx, tx, evento, "Remessa", remessa.ID, payload, agora); err != nil {
			return err
		}
		registrarLog(ctx, tx, p.UsuarioID, "upload_remessa",
			fmt.Sprintf("Remessa %d (%s, %s) enviada: %s", remessa.ID, remessa.Tipo, remessa.UF, remessa.NomeArquivo), agora)

		resultado = &ResultadoIngestao{
			Remessa:      &remessa,
			Titulos:      lote.qtdTitulos,
			Desistencias: lote.qtdDesistencias,
			Erros:        lote.qtdErros,
		}
		return nil
	})
	if err != nil {
		if errRemover := s.arquivos.Remover(ctx, chave); errRemover != nil {
			log.Printf("Erro ao remover arquivo órfão %s: %v", chave, errRemover)
		}
		return nil, err
	}

	log.Printf("Remessa %d processada: status=%s titulos=%d desistencias=%d erros=%d",
		resultado.Remessa.ID, resultado.Remessa.Status, resultado.Titulos, resultado.Desistencias, resultado.Erros)
	return resultado, nil
}

type loteIngestao struct {
	tx              repositorio.Store
	remessa         *dominio.Remessa
	agora           time.Time
	qtdTitulos      int
	qtdDesistencias int
	qtdErros        int
}

func (l *loteIngestao) erro(ctx context.Context, codigo, mensagem string, criticidade dominio.Criticidade, tituloID *uint) error {
	e := &dominio.Erro{
		Codigo:         codigo,
		Mensagem:       mensagem,
		Modulo:         string(l.remessa.Tipo),
		Criticidade:    criticidade,
		Status:         dominio.StatusErroPendente,
		DataOcorrencia: l.agora,
		RemessaID:      &l.remessa.ID,
		TituloID:       tituloID,
	}
	if err := l.tx.CriarErro(ctx, e); err != nil {
		return fmt.Errorf("falha ao registrar erro de item: %w", err)
	}
	l.qtdErros++
	return nil
}

func (l *loteIngestao) titulos(ctx context.Context, conteudo []byte) error {
	itens, err := parser.LerRemessa(conteudo)
	if err != nil {
		return err
	}
	if len(itens) == 0 {
		return l.erro(ctx, dominio.CodigoArquivoSemItens, "Arquivo não contém títulos", dominio.CriticidadeAlta, nil)
	}

	for i, item := range itens {
		posicao := i + 1
		titulo, codigo, problema := converterTitulo(item)
		if problema != "" {
			if err := l.erro(ctx, codigo, fmt.Sprintf("Título %d: %s", posicao, problema), dominio.CriticidadeMedia, nil); err != nil {
				return err
			}
			continue
		}

		existente, err := l.tx.BuscarTituloPorProtocolo(ctx, titulo.Protocolo)
		if err == nil {
			msg := fmt.Sprintf("Título %d: protocolo %s já cadastrado", posicao, titulo.Protocolo)
			if err := l.erro(ctx, dominio.CodigoProtocoloDuplicado, msg, dominio.CriticidadeMedia, &existente.ID); err != nil {
				return err
			}
			continue
		}
		if !errors.Is(err, dominio.ErrNaoEncontrado) {
			return fmt.Errorf("falha ao consultar protocolo %s: %w", titulo.Protocolo, err)
		}

		titulo.RemessaID = l.remessa.ID
		titulo.PrepararCriacao(l.agora)
		if err := l.tx.CriarTitulo(ctx, &titulo); err != nil {
			return fmt.Errorf("falha ao criar título %s: %w", titulo.Protocolo, err)
		}
		l.qtdTitulos++
	}
	return nil
}

func converterTitulo(item parser.TituloXML) (dominio.Titulo, string, string) {
	if item.Protocolo == "" {
		return dominio.Titulo{}, dominio.CodigoCampoObrigatorio, "protocolo é obrigatório"
	}
	if item.Numero == "" {
		return dominio.Titulo{}, dominio.CodigoCampoObrigatorio, "número é obrigatório"
	}
	valor, err := parser.ConverterValor(item.Valor)
	if err != nil {
		return dominio.Titulo{}, dominio.CodigoValorInvalido, err.Error()
	}
	emissao, err := parser.ConverterData(item.DataEmissao)
	if err != nil {
		return dominio.Titulo{}, dominio.CodigoDataInvalida, "data_emissao: " + err.Error()
	}
	vencimento, err := parser.ConverterData(item.DataVencimento)
	if err != nil {
		return dominio.Titulo{}, dominio.CodigoDataInvalida, "data_vencimento: " + err.Error()
	}
	return dominio.Titulo{
		Numero:           item.Numero,
		Protocolo:        item.Protocolo,
		Valor:            valor,
		Devedor:          item.Devedor.Nome,
		DocumentoDevedor: item.Devedor.Documento,
		Credor:           item.Credor.Nome,
		DocumentoCredor:  item.Credor.Documento,
		DataEmissao:      emissao,
		DataVencimento:   vencimento,
		Especie:          item.Especie,
		NossoNumero:      item.NossoNumero,
		Aceite:           parser.ConverterAceite(item.Aceite),
		Status:           dominio.StatusTituloPendente,
	}, "", ""
}

func (l *loteIngestao) desistencias(ctx context.Context, conteudo []byte) error {
	itens, err := parser.LerDesistencias(conteudo)
	if err != nil {
		return err
	}
	if len(itens) == 0 {
		return l.erro(ctx, dominio.CodigoArquivoSemItens, "Arquivo não contém desistências", dominio.CriticidadeAlta, nil)
	}

	for i, item := range itens {
		posicao := i + 1
		if item.Protocolo == "" {
			if err := l.erro(ctx, dominio.CodigoCampoObrigatorio, fmt.Sprintf("Desistência %d: protocolo é obrigatório", posicao), dominio.CriticidadeMedia, nil); err != nil {
				return err
			}
			continue
		}

		titulo, err := l.tx.BuscarTituloPorProtocolo(ctx, item.Protocolo)
		if errors.Is(err, dominio.ErrNaoEncontrado) {
			msg := fmt.Sprintf("Desistência %d: título com protocolo %s não encontrado", posicao, item.Protocolo)
			if err := l.erro(ctx, dominio.CodigoProtocoloNaoEncontrado, msg, dominio.CriticidadeMedia, nil); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("falha ao consultar protocolo %s: %w", item.Protocolo, err)
		}
		if titulo.Status != dominio.StatusTituloPendente {
			msg := fmt.Sprintf("Desistência %d: título %s está %s", posicao, titulo.Protocolo, titulo.Status)
			if err := l.erro(ctx, dominio.CodigoTituloNaoPendente, msg, dominio.CriticidadeMedia, &titulo.ID); err != nil {
				return err
			}
			continue
		}

		motivo := item.Motivo
		if motivo == "" {
			motivo = "Não informado"
		}
		d := dominio.NovaDesistencia(titulo, motivo, l.agora)
		d.RemessaID = &l.remessa.ID
		d.UsuarioID = l.remessa.UsuarioID
		if err := l.tx.CriarDesistencia(ctx, &d); err != nil {
			return fmt.Errorf("falha ao criar desistência do protocolo %s: %w", item.Protocolo, err)
		}
		l.qtdDesistencias++
	}
	return nil
}
