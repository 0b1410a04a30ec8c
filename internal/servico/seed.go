package servico

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
)

//go:embed fixtures/remessa_demo.xml
var remessaDemo []byte

var configuracoesPadrao = []dominio.Configuracao{
	{Chave: "remessa.max_upload_mb", Valor: "20", Descricao: "Tamanho máximo do arquivo de remessa"},
	{Chave: "relatorio.formato_padrao", Valor: "json", Descricao: "Formato usado quando o relatório não informa formato"},
	{Chave: "cartorio.nome", Valor: "", Descricao: "Nome do cartório exibido nos relatórios"},
}

// GarantirAdmin cria o administrador inicial quando o email ainda não existe.
func GarantirAdmin(ctx context.Context, usuarios *UsuarioService, email, senha string) error {
	if email == "" || senha == "" {
		log.Println("ADMIN_EMAIL/ADMIN_SENHA não definidos, administrador inicial não será criado")
		return nil
	}
	_, err := usuarios.store.BuscarUsuarioPorEmail(ctx, dominio.NormalizarEmail(email))
	if err == nil {
		log.Println("Usuário administrador já existe.")
		return nil
	}
	if !errors.Is(err, dominio.ErrNaoEncontrado) {
		return err
	}

	log.Println("Usuário administrador não encontrado, criando um novo...")
	if _, err := usuarios.Criar(ctx, NovoUsuario{
		Nome:   "Administrador",
		Email:  email,
		Senha:  senha,
		Perfil: dominio.PerfilAdministrador,
	}, nil); err != nil {
		return fmt.Errorf("falha ao criar administrador: %w", err)
	}
	log.Println("Usuário administrador criado com sucesso.")
	return nil
}

// GarantirConfiguracoes grava as chaves padrão que ainda não existirem.
func GarantirConfiguracoes(ctx context.Context, store repositorio.ConfiguracaoStore) error {
	for _, padrao := range configuracoesPadrao {
		_, err := store.BuscarConfiguracao(ctx, padrao.Chave)
		if err == nil {
			continue
		}
		if !errors.Is(err, dominio.ErrNaoEncontrado) {
			return err
		}
		c := padrao
		if err := store.SalvarConfiguracao(ctx, &c); err != nil {
			return fmt.Errorf("falha ao gravar configuração %s: %w", c.Chave, err)
		}
	}
	return nil
}

// CarregarFixtures popula um banco vazio com dados de demonstração.
// Só roda com DEMO_FIXTURES habilitado e nunca sobre um banco que já tenha remessas.
func CarregarFixtures(ctx context.Context, store repositorio.Store, usuarios *UsuarioService, ingestao *IngestaoService) error {
	_, total, err := store.ListarRemessas(ctx, dominio.FiltroRemessas{}, dominio.NovaPaginacao(1, 1))
	if err != nil {
		return err
	}
	if total > 0 {
		log.Println("Banco já possui remessas, dados de demonstração ignorados.")
		return nil
	}

	demo := []NovoUsuario{
		{Nome: "Operador Demo", Email: "operador@demo.local", Senha: "operador123", Perfil: dominio.PerfilOperador},
		{Nome: "Visualizador Demo", Email: "visualizador@demo.local", Senha: "visualizador123", Perfil: dominio.PerfilVisualizador},
	}
	var operadorID *uint
	for _, n := range demo {
		u, err := usuarios.Criar(ctx, n, nil)
		if errors.Is(err, dominio.ErrEmailDuplicado) {
			continue
		}
		if err != nil {
			return err
		}
		if u.Perfil == dominio.PerfilOperador {
			operadorID = &u.ID
		}
	}

	res, err := ingestao.Processar(ctx, PedidoUpload{
		Tipo:        string(dominio.TipoRemessaTitulos),
		UF:          "SP",
		Descricao:   "Remessa de demonstração",
		NomeArquivo: "remessa_demo.xml",
		Conteudo:    remessaDemo,
		UsuarioID:   operadorID,
	})
	if err != nil {
		return fmt.Errorf("falha ao carregar remessa de demonstração: %w", err)
	}
	log.Printf("Dados de demonstração carregados: remessa %d com %d títulos", res.Remessa.ID, res.Titulos)
	return nil
}
