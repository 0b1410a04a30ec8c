// Package parser lê os arquivos XML de remessa e de desistência.
//
// A leitura é permissiva: aceita elementos fora de ordem, tags desconhecidas,
// entidades HTML, arquivos em ISO-8859-1/Windows-1252 e devedor/credor tanto
// como texto simples quanto com <nome> e <documento>. Só um documento que não
// pode ser lido como XML é tratado como falha.
package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var ErrDocumentoVazio = errors.New("documento XML vazio")

type Parte struct {
	Nome      string
	Documento string
}

// UnmarshalXML aceita <devedor>Nome</devedor> ou <devedor><nome/><documento/></devedor>.
func (p *Parte) UnmarshalXML(d *xml.Decoder, inicio xml.StartElement) error {
	var bruto struct {
		Texto     string `xml:",chardata"`
		Nome      string `xml:"nome"`
		Documento string `xml:"documento"`
		CPF       string `xml:"cpf"`
		CNPJ      string `xml:"cnpj"`
	}
	if err := d.DecodeElement(&bruto, &inicio); err != nil {
		return err
	}
	p.Nome = strings.TrimSpace(bruto.Nome)
	if p.Nome == "" {
		p.Nome = strings.TrimSpace(bruto.Texto)
	}
	p.Documento = primeiroPreenchido(bruto.Documento, bruto.CNPJ, bruto.CPF)
	return nil
}

type TituloXML struct {
	Numero         string `xml:"numero"`
	Protocolo      string `xml:"protocolo"`
	Valor          string `xml:"valor"`
	DataEmissao    string `xml:"data_emissao"`
	DataVencimento string `xml:"data_vencimento"`
	Especie        string `xml:"especie"`
	Aceite         string `xml:"aceite"`
	NossoNumero    string `xml:"nosso_numero"`
	Devedor        Parte  `xml:"devedor"`
	Credor         Parte  `xml:"credor"`
}

type DesistenciaXML struct {
	Protocolo string `xml:"protocolo"`
	Motivo    string `xml:"motivo"`
}

func novoDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose
	d.Entity = xml.HTMLEntity
	d.CharsetReader = lerCharset
	return d
}

func lerCharset(nome string, entrada io.Reader) (io.Reader, error) {
	switch strings.ToLower(nome) {
	case "utf-8", "utf8", "":
		return entrada, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(entrada), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(entrada), nil
	}
	return nil, fmt.Errorf("codificação não suportada: %s", nome)
}

// percorrer decodifica cada elemento chamado alvo, em qualquer profundidade.
func percorrer(conteudo []byte, alvo string, decodificar func(*xml.Decoder, xml.StartElement) error) error {
	if len(bytes.TrimSpace(conteudo)) == 0 {
		return ErrDocumentoVazio
	}
	d := novoDecoder(bytes.NewReader(conteudo))
	encontrouRaiz := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("XML malformado: %w", err)
		}
		inicio, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		encontrouRaiz = true
		if strings.EqualFold(inicio.Name.Local, alvo) {
			if err := decodificar(d, inicio); err != nil {
				return fmt.Errorf("XML malformado em <%s>: %w", alvo, err)
			}
		}
	}
	if !encontrouRaiz {
		return ErrDocumentoVazio
	}
	return nil
}

// LerRemessa extrai os títulos de <remessa><titulos><titulo>.
func LerRemessa(conteudo []byte) ([]TituloXML, error) {
	var titulos []TituloXML
	err := percorrer(conteudo, "titulo", func(d *xml.Decoder, inicio xml.StartElement) error {
		var t TituloXML
		if err := d.DecodeElement(&t, &inicio); err != nil {
			return err
		}
		titulos = append(titulos, t.limpo())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return titulos, nil
}

// LerDesistencias extrai os pedidos de <desistencias><desistencia>.
func LerDesistencias(conteudo []byte) ([]DesistenciaXML, error) {
	var itens []DesistenciaXML
	err := percorrer(conteudo, "desistencia", func(d *xml.Decoder, inicio xml.StartElement) error {
		var item DesistenciaXML
		if err := d.DecodeElement(&item, &inicio); err != nil {
			return err
		}
		item.Protocolo = strings.TrimSpace(item.Protocolo)
		item.Motivo = strings.TrimSpace(item.Motivo)
		itens = append(itens, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return itens, nil
}

func (t TituloXML) limpo() TituloXML {
	t.Numero = strings.TrimSpace(t.Numero)
	t.Protocolo = strings.TrimSpace(t.Protocolo)
	t.Valor = strings.TrimSpace(t.Valor)
	t.DataEmissao = strings.TrimSpace(t.DataEmissao)
	t.DataVencimento = strings.TrimSpace(t.DataVencimento)
	t.Especie = strings.TrimSpace(t.Especie)
	t.Aceite = strings.TrimSpace(t.Aceite)
	t.NossoNumero = strings.TrimSpace(t.NossoNumero)
	return t
}

func primeiroPreenchido(valores ...string) string {
	for _, v := range valores {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
