package manipulador

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/armazenamento"
	"github.com/iuriramos93/Prostest-System/internal/auth"
	"github.com/iuriramos93/Prostest-System/internal/cache"
	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/limite"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
	"github.com/iuriramos93/Prostest-System/internal/servico"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const remessaTeste = `<?xml version="1.0" encoding="UTF-8"?>
<remessa>
  <titulos>
    <titulo>
      <numero>1001</numero>
      <protocolo>SP-0001</protocolo>
      <valor>100,50</valor>
      <devedor>Fulano de Tal</devedor>
      <credor>Banco Teste</credor>
    </titulo>
  </titulos>
</remessa>`

type servidorTeste struct {
	router *gin.Engine
	store  *repositorio.MemoriaStore
	dir    string
	token  string
}

func novoServidor(t *testing.T) *servidorTeste {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	disco, err := armazenamento.NovoDisco(dir)
	require.NoError(t, err)
	tokens, err := auth.NovoTokenService("segredo-de-teste", time.Hour)
	require.NoError(t, err)

	store := repositorio.NovoMemoriaStore()
	c := cache.NovoMemoriaCache()
	usuarios := servico.NovoUsuarioService(store, tokens)
	h := &Handlers{
		Tokens:        tokens,
		Ingestao:      servico.NovoIngestaoService(store, disco),
		Usuarios:      usuarios,
		Remessas:      servico.NovoRemessaService(store, disco, c, time.Minute),
		Titulos:       servico.NovoTituloService(store),
		Desistencias:  servico.NovoDesistenciaService(store),
		Erros:         servico.NovoErroService(store),
		Relatorios:    servico.NovoRelatorioService(store),
		Dashboard:     servico.NovoDashboardService(store, c, time.Minute),
		Configuracoes: servico.NovoConfiguracaoService(store),
		Logs:          servico.NovoLogService(store),
		MaxUpload:     1 << 20,
	}

	ctx := context.Background()
	for _, n := range []servico.NovoUsuario{
		{Nome: "Admin", Email: "admin@teste.com", Senha: "admin123", Perfil: dominio.PerfilAdministrador},
		{Nome: "Operador", Email: "operador@teste.com", Senha: "operador123", Perfil: dominio.PerfilOperador},
		{Nome: "Leitor", Email: "leitor@teste.com", Senha: "leitor123", Perfil: dominio.PerfilVisualizador},
	} {
		_, err := usuarios.Criar(ctx, n, nil)
		require.NoError(t, err)
	}
	admin, err := store.BuscarUsuarioPorEmail(ctx, "admin@teste.com")
	require.NoError(t, err)
	token, err := tokens.NovoToken(admin)
	require.NoError(t, err)

	r := gin.New()
	Rotas(r, h, limite.NovoStore(100, 100), nil)
	return &servidorTeste{router: r, store: store, dir: dir, token: token}
}

func (s *servidorTeste) executar(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *servidorTeste) comToken(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+s.token)
	return req
}

func formulario(t *testing.T, campos map[string]string, campoArquivo, nomeArquivo, conteudo string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range campos {
		require.NoError(t, mw.WriteField(k, v))
	}
	if campoArquivo != "" {
		fw, err := mw.CreateFormFile(campoArquivo, nomeArquivo)
		require.NoError(t, err)
		_, err = fw.Write([]byte(conteudo))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (s *servidorTeste) upload(t *testing.T, campos map[string]string, campoArquivo, nomeArquivo, conteudo string) *httptest.ResponseRecorder {
	t.Helper()
	corpo, tipo := formulario(t, campos, campoArquivo, nomeArquivo, conteudo)
	req := httptest.NewRequest(http.MethodPost, "/api/remessas/upload", corpo)
	req.Header.Set("Content-Type", tipo)
	return s.executar(s.comToken(req))
}

func (s *servidorTeste) totalRemessas(t *testing.T) int64 {
	t.Helper()
	_, total, err := s.store.ListarRemessas(context.Background(), dominio.FiltroRemessas{}, dominio.Paginacao{})
	require.NoError(t, err)
	return total
}

func decodificar(t *testing.T, w *httptest.ResponseRecorder, destino any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), destino), w.Body.String())
}

func TestUploadValidacao(t *testing.T) {
	s := novoServidor(t)

	t.Run("deve retornar 400 sem tipo", func(t *testing.T) {
		w := s.upload(t, map[string]string{"uf": "SP"}, "arquivo", "r.xml", remessaTeste)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("deve retornar 400 sem uf", func(t *testing.T) {
		w := s.upload(t, map[string]string{"tipo": "Remessa"}, "arquivo", "r.xml", remessaTeste)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("deve retornar 400 sem arquivo", func(t *testing.T) {
		w := s.upload(t, map[string]string{"tipo": "Remessa", "uf": "SP"}, "", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("deve rejeitar extensão diferente de xml", func(t *testing.T) {
		w := s.upload(t, map[string]string{"tipo": "Remessa", "uf": "SP"}, "arquivo", "r.csv", remessaTeste)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var corpo map[string]string
		decodificar(t, w, &corpo)
		assert.Contains(t, corpo["message"], "XML")
	})

	assert.Zero(t, s.totalRemessas(t))
	arquivos, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	assert.Empty(t, arquivos)
}

func TestUploadProcessamento(t *testing.T) {
	t.Run("deve processar remessa e expor pelo detalhe", func(t *testing.T) {
		s := novoServidor(t)
		w := s.upload(t, map[string]string{"tipo": "Remessa", "uf": "SP", "descricao": "lote de março"}, "arquivo", "remessa_teste.xml", remessaTeste)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var criada struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		}
		decodificar(t, w, &criada)
		assert.Equal(t, "Processado", criada.Status)
		assert.Equal(t, int64(1), s.totalRemessas(t))

		w = s.executar(s.comToken(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/remessas/%d", criada.ID), nil)))
		require.Equal(t, http.StatusOK, w.Code)
		var detalhe struct {
			Status    string           `json:"status"`
			UF        string           `json:"uf"`
			Tipo      string           `json:"tipo"`
			Descricao string           `json:"descricao"`
			Titulos   []dominio.Titulo `json:"titulos"`
		}
		decodificar(t, w, &detalhe)
		assert.Equal(t, "Processado", detalhe.Status)
		assert.Equal(t, "SP", detalhe.UF)
		assert.Equal(t, "Remessa", detalhe.Tipo)
		assert.Equal(t, "lote de março", detalhe.Descricao)
		require.Len(t, detalhe.Titulos, 1)
		assert.Equal(t, 100.5, detalhe.Titulos[0].Valor)

		w = s.executar(s.comToken(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/remessas/%d/arquivo", criada.ID), nil)))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, remessaTeste, w.Body.String())
	})

	t.Run("deve aceitar o campo file", func(t *testing.T) {
		s := novoServidor(t)
		w := s.upload(t, map[string]string{"tipo": "remessa", "uf": "rj"}, "file", "r.XML", remessaTeste)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("deve desfazer a remessa quando o XML não pode ser lido", func(t *testing.T) {
		s := novoServidor(t)
		w := s.upload(t, map[string]string{"tipo": "Remessa", "uf": "SP"}, "arquivo", "r.xml", "<remessa><titulos>")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var corpo map[string]string
		decodificar(t, w, &corpo)
		assert.True(t, strings.HasPrefix(corpo["message"], "Erro ao processar remessa: "))
		assert.Zero(t, s.totalRemessas(t))
	})

	t.Run("deve retornar 404 para remessa inexistente", func(t *testing.T) {
		s := novoServidor(t)
		w := s.executar(s.comToken(httptest.NewRequest(http.MethodGet, "/api/remessas/42", nil)))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUploadValorNaoNumerico(t *testing.T) {
	s := novoServidor(t)
	xml := strings.Replace(remessaTeste, "<valor>100,50</valor>", "<valor>NaN</valor>", 1)
	w := s.upload(t, map[string]string{"tipo": "Remessa", "uf": "SP"}, "arquivo", "nan.xml", xml)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var criada struct {
		Status string `json:"status"`
		Erros  int    `json:"erros"`
	}
	decodificar(t, w, &criada)
	assert.Equal(t, "Erro", criada.Status)
	assert.Equal(t, 1, criada.Erros)

	for _, rota := range []string{"/api/titulos", "/api/remessas/1", "/api/dashboard/resumo", "/api/relatorios/financeiro"} {
		w := s.executar(s.comToken(httptest.NewRequest(http.MethodGet, rota, nil)))
		require.Equal(t, http.StatusOK, w.Code, rota)
		assert.True(t, json.Valid(w.Body.Bytes()), rota)
	}
}

func TestListagemPaginada(t *testing.T) {
	s := novoServidor(t)
	for i := 0; i < 7; i++ {
		uf := "SP"
		if i%3 == 0 {
			uf = "MG"
		}
		xml := strings.ReplaceAll(remessaTeste, "SP-0001", fmt.Sprintf("P-%d", i))
		w := s.upload(t, map[string]string{"tipo": "Remessa", "uf": uf}, "arquivo", fmt.Sprintf("r%d.xml", i), xml)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	type pagina struct {
		Items []dominio.Remessa `json:"items"`
		Meta  dominio.Meta      `json:"meta"`
	}

	buscar := func(t *testing.T, consulta string) pagina {
		w := s.executar(s.comToken(httptest.NewRequest(http.MethodGet, "/api/remessas?"+consulta, nil)))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var p pagina
		decodificar(t, w, &p)
		return p
	}

	t.Run("deve reconstruir o conjunto filtrado a partir das páginas", func(t *testing.T) {
		primeira := buscar(t, "uf=SP&per_page=2&page=1")
		assert.Equal(t, int64(4), primeira.Meta.Total)
		assert.Equal(t, 2, primeira.Meta.Pages)
		assert.True(t, primeira.Meta.HasNext)
		assert.False(t, primeira.Meta.HasPrev)

		vistos := map[uint]bool{}
		for pg := 1; pg <= primeira.Meta.Pages; pg++ {
			p := buscar(t, fmt.Sprintf("uf=SP&per_page=2&page=%d", pg))
			assert.Equal(t, primeira.Meta.Total, p.Meta.Total)
			for _, r := range p.Items {
				assert.False(t, vistos[r.ID], "remessa %d repetida", r.ID)
				assert.Equal(t, "SP", r.UF)
				vistos[r.ID] = true
			}
		}
		assert.Len(t, vistos, 4)
	})

	t.Run("deve ordenar da mais recente para a mais antiga", func(t *testing.T) {
		p := buscar(t, "")
		require.Len(t, p.Items, 7)
		for i := 1; i < len(p.Items); i++ {
			assert.Greater(t, p.Items[i-1].ID, p.Items[i].ID)
		}
	})

	t.Run("deve devolver página vazia para número de página enorme", func(t *testing.T) {
		for _, consulta := range []string{"page=100000000000000000&per_page=100", "page=2147483647&per_page=100", "page=99999999999999999999999"} {
			p := buscar(t, consulta)
			assert.Empty(t, p.Items, consulta)
			assert.Equal(t, int64(7), p.Meta.Total, consulta)
			assert.False(t, p.Meta.HasNext, consulta)
		}
	})

	t.Run("deve recusar uf inválida e data inválida", func(t *testing.T) {
		w := s.executar(s.comToken(httptest.NewRequest(http.MethodGet, "/api/remessas?uf=ZZ", nil)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		w = s.executar(s.comToken(httptest.NewRequest(http.MethodGet, "/api/remessas?dataInicio=31/12/2024", nil)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAutenticacao(t *testing.T) {
	s := novoServidor(t)

	protegidas := []string{"/api/remessas", "/api/titulos", "/api/erros", "/api/desistencias", "/api/dashboard/resumo", "/api/auth/me"}

	t.Run("deve retornar 401 sem credenciais", func(t *testing.T) {
		for _, rota := range protegidas {
			w := s.executar(httptest.NewRequest(http.MethodGet, rota, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code, rota)
			assert.Contains(t, w.Body.String(), "message")
		}
	})

	t.Run("deve retornar 401 com token inválido", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/remessas", nil)
		req.Header.Set("Authorization", "Bearer nao-e-um-jwt")
		assert.Equal(t, http.StatusUnauthorized, s.executar(req).Code)
	})

	t.Run("deve retornar 401 com Basic de senha errada", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/remessas", nil)
		req.SetBasicAuth("admin@teste.com", "errada")
		assert.Equal(t, http.StatusUnauthorized, s.executar(req).Code)
	})

	t.Run("deve aceitar Basic válido", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.SetBasicAuth("leitor@teste.com", "leitor123")
		w := s.executar(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "leitor@teste.com")
		assert.NotContains(t, w.Body.String(), "senha")
	})

	t.Run("deve emitir token no login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"operador@teste.com","password":"operador123"}`))
		req.Header.Set("Content-Type", "application/json")
		w := s.executar(req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		}
		decodificar(t, w, &resp)
		assert.Equal(t, "Bearer", resp.TokenType)

		me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		me.Header.Set("Authorization", "Bearer "+resp.AccessToken)
		assert.Equal(t, http.StatusOK, s.executar(me).Code)
	})

	t.Run("deve recusar login com senha errada", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"operador@teste.com","senha":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusUnauthorized, s.executar(req).Code)
	})

	t.Run("deve barrar visualizador em upload e administração", func(t *testing.T) {
		corpo, tipo := formulario(t, map[string]string{"tipo": "Remessa", "uf": "SP"}, "arquivo", "r.xml", remessaTeste)
		req := httptest.NewRequest(http.MethodPost, "/api/remessas/upload", corpo)
		req.Header.Set("Content-Type", tipo)
		req.SetBasicAuth("leitor@teste.com", "leitor123")
		assert.Equal(t, http.StatusForbidden, s.executar(req).Code)

		req = httptest.NewRequest(http.MethodGet, "/api/usuarios", nil)
		req.SetBasicAuth("operador@teste.com", "operador123")
		assert.Equal(t, http.StatusForbidden, s.executar(req).Code)
	})
}

func TestLimiteLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &Handlers{}
	r.POST("/login", limite.Middleware(limite.NovoStore(0.001, 1)), h.Login)

	primeira := httptest.NewRecorder()
	r.ServeHTTP(primeira, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, primeira.Code)

	segunda := httptest.NewRecorder()
	r.ServeHTTP(segunda, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{")))
	assert.Equal(t, http.StatusTooManyRequests, segunda.Code)
	assert.NotEmpty(t, segunda.Header().Get("Retry-After"))
}

func TestFluxoDesistenciaEErros(t *testing.T) {
	s := novoServidor(t)
	xml := `<remessa><titulos>
		<titulo><numero>1</numero><protocolo>D-1</protocolo><valor>10</valor></titulo>
		<titulo><numero>2</numero><valor>10</valor></titulo>
	</titulos></remessa>`
	w := s.upload(t, map[string]string{"tipo": "Remessa", "uf": "SP"}, "arquivo", "r.xml", xml)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Erro"`)

	jsonReq := func(metodo, rota, corpo string) *http.Request {
		req := httptest.NewRequest(metodo, rota, strings.NewReader(corpo))
		req.Header.Set("Content-Type", "application/json")
		return s.comToken(req)
	}

	w = s.executar(jsonReq(http.MethodPost, "/api/desistencias", `{"protocolo":"D-1","motivo":"acordo"}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var d dominio.Desistencia
	decodificar(t, w, &d)

	rota := fmt.Sprintf("/api/desistencias/%d/processar", d.ID)
	w = s.executar(jsonReq(http.MethodPut, rota, `{"status":"APROVADA"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.executar(jsonReq(http.MethodPut, rota, `{"status":"REJEITADA"}`))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.executar(s.comToken(httptest.NewRequest(http.MethodGet, "/api/erros?status=Pendente", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	var erros struct {
		Items []dominio.Erro `json:"items"`
	}
	decodificar(t, w, &erros)
	require.Len(t, erros.Items, 1)

	rotaErro := fmt.Sprintf("/api/erros/%d", erros.Items[0].ID)
	w = s.executar(jsonReq(http.MethodPut, rotaErro, `{"solucao":"reenviado"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.executar(jsonReq(http.MethodPut, rotaErro, `{"solucao":"de novo"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.executar(s.comToken(httptest.NewRequest(http.MethodGet, "/api/remessas?status=Processado", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestRelatorioHTTP(t *testing.T) {
	s := novoServidor(t)
	w := s.upload(t, map[string]string{"tipo": "Remessa", "uf": "SP"}, "arquivo", "r.xml", remessaTeste)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("deve responder json por padrão", func(t *testing.T) {
		w := s.executar(s.comToken(httptest.NewRequest(http.MethodGet, "/api/relatorios/titulos", nil)))
		require.Equal(t, http.StatusOK, w.Code)
		var rel struct {
			Tipo   string         `json:"tipo"`
			Resumo map[string]any `json:"resumo"`
		}
		decodificar(t, w, &rel)
		assert.Equal(t, "titulos", rel.Tipo)
		assert.Equal(t, 100.5, rel.Resumo["valor_total"])
	})

	t.Run("deve baixar csv com nome de arquivo", func(t *testing.T) {
		w := s.executar(s.comToken(httptest.NewRequest(http.MethodGet, "/api/relatorios/remessas?formato=csv", nil)))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "relatorio_remessas_")
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
		assert.Contains(t, w.Body.String(), "r.xml")
	})

	t.Run("deve recusar tipo e formato desconhecidos", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.executar(s.comToken(httptest.NewRequest(http.MethodGet, "/api/relatorios/vendas", nil))).Code)
		assert.Equal(t, http.StatusBadRequest, s.executar(s.comToken(httptest.NewRequest(http.MethodGet, "/api/relatorios/erros?formato=doc", nil))).Code)
	})
}

func TestUsuariosHTTP(t *testing.T) {
	s := novoServidor(t)
	jsonReq := func(metodo, rota, corpo string) *http.Request {
		req := httptest.NewRequest(metodo, rota, strings.NewReader(corpo))
		req.Header.Set("Content-Type", "application/json")
		return s.comToken(req)
	}

	w := s.executar(jsonReq(http.MethodPost, "/api/usuarios", `{"nome":"Novo","email":"novo@teste.com","senha":"123456","perfil":"Operador"}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.executar(jsonReq(http.MethodPost, "/api/usuarios", `{"nome":"Novo","email":"novo@teste.com","senha":"123456"}`))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.executar(jsonReq(http.MethodPost, "/api/usuarios", `{"nome":"X","email":"x@teste.com","senha":"123456","perfil":"Gerente"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 73 caracteres barrados no binding; 40 "é" passam no binding mas somam 80 bytes
	for _, senha := range []string{strings.Repeat("a", 73), strings.Repeat("é", 40)} {
		corpo := fmt.Sprintf(`{"nome":"Longa","email":"longa@teste.com","senha":%q}`, senha)
		w = s.executar(jsonReq(http.MethodPost, "/api/usuarios", corpo))
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	}

	admin, err := s.store.BuscarUsuarioPorEmail(context.Background(), "admin@teste.com")
	require.NoError(t, err)
	w = s.executar(jsonReq(http.MethodDelete, fmt.Sprintf("/api/usuarios/%d", admin.ID), ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtestosHTTP(t *testing.T) {
	s := novoServidor(t)
	w := s.upload(t, map[string]string{"tipo": "Remessa", "uf": "SP"}, "arquivo", "r.xml", remessaTeste)
	require.Equal(t, http.StatusCreated, w.Code)
	titulo, err := s.store.BuscarTituloPorProtocolo(context.Background(), "SP-0001")
	require.NoError(t, err)

	jsonReq := func(metodo, rota, corpo string) *http.Request {
		req := httptest.NewRequest(metodo, rota, strings.NewReader(corpo))
		req.Header.Set("Content-Type", "application/json")
		return req
	}
	rotaProtesto := fmt.Sprintf("/api/protestos/%d", titulo.ID)
	rotaCancelar := fmt.Sprintf("/api/protestos/cancelar/%d", titulo.ID)

	t.Run("deve recusar detalhe antes do protesto", func(t *testing.T) {
		w := s.executar(s.comToken(httptest.NewRequest(http.MethodGet, rotaProtesto, nil)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("deve registrar protesto com data", func(t *testing.T) {
		req := jsonReq(http.MethodPost, "/api/protestos/registrar", fmt.Sprintf(`{"titulo_id":%d,"data_protesto":"2024-05-20"}`, titulo.ID))
		req.SetBasicAuth("operador@teste.com", "operador123")
		w := s.executar(req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var tt dominio.Titulo
		decodificar(t, w, &tt)
		assert.Equal(t, dominio.StatusTituloProtestado, tt.Status)
		require.NotNil(t, tt.DataProtesto)
		assert.Equal(t, "2024-05-20", tt.DataProtesto.Format(dominio.LayoutData))
	})

	t.Run("deve recusar data malformada", func(t *testing.T) {
		w := s.executar(s.comToken(jsonReq(http.MethodPost, "/api/protestos/registrar", fmt.Sprintf(`{"titulo_id":%d,"data_protesto":"20/05/2024"}`, titulo.ID))))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("deve listar e detalhar protestos", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/protestos?devedor=fulano", nil)
		req.SetBasicAuth("leitor@teste.com", "leitor123")
		w := s.executar(req)
		require.Equal(t, http.StatusOK, w.Code)
		var pagina dominio.Pagina[dominio.Titulo]
		decodificar(t, w, &pagina)
		require.Len(t, pagina.Items, 1)
		assert.Equal(t, "SP-0001", pagina.Items[0].Protocolo)

		w = s.executar(s.comToken(httptest.NewRequest(http.MethodGet, rotaProtesto, nil)))
		assert.Equal(t, http.StatusOK, w.Code)

		w = s.executar(s.comToken(httptest.NewRequest(http.MethodGet, "/api/protestos/dashboard", nil)))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_protestos":1`)
	})

	t.Run("deve restringir cancelamento ao administrador", func(t *testing.T) {
		req := jsonReq(http.MethodPost, rotaCancelar, `{"motivo":"engano"}`)
		req.SetBasicAuth("operador@teste.com", "operador123")
		assert.Equal(t, http.StatusForbidden, s.executar(req).Code)
	})

	t.Run("deve exigir motivo no cancelamento", func(t *testing.T) {
		w := s.executar(s.comToken(jsonReq(http.MethodPost, rotaCancelar, `{"motivo":"   "}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("deve cancelar e devolver o título para Pendente", func(t *testing.T) {
		w := s.executar(s.comToken(jsonReq(http.MethodPost, rotaCancelar, `{"motivo":"pagamento antes do registro"}`)))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp struct {
			Titulo dominio.Titulo `json:"titulo"`
		}
		decodificar(t, w, &resp)
		assert.Equal(t, dominio.StatusTituloPendente, resp.Titulo.Status)
		assert.Nil(t, resp.Titulo.DataProtesto)

		w = s.executar(s.comToken(jsonReq(http.MethodPost, rotaCancelar, `{"motivo":"de novo"}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEstatisticasHTTP(t *testing.T) {
	s := novoServidor(t)
	w := s.upload(t, map[string]string{"tipo": "Remessa", "uf": "SP"}, "arquivo", "r.xml", remessaTeste)
	require.Equal(t, http.StatusCreated, w.Code)

	casos := map[string]string{
		"/api/titulos/estatisticas":      `"total_titulos":1`,
		"/api/erros/estatisticas":        `"total_erros":0`,
		"/api/desistencias/estatisticas": `"total_desistencias":0`,
	}
	for rota, esperado := range casos {
		t.Run("deve responder "+rota, func(t *testing.T) {
			w := s.executar(s.comToken(httptest.NewRequest(http.MethodGet, rota, nil)))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), esperado)
		})
	}
}
