package manipulador

import (
	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/limite"

	"github.com/gin-gonic/gin"
)

// Rotas registra todas as rotas da API no engine.
// limiteLogin pode ser nil, o que desliga o limite de tentativas de login.
func Rotas(r *gin.Engine, h *Handlers, limiteLogin *limite.Store, origens []string) {
	RegistrarValidacoes()

	r.Use(RequestID(), CORS(origens))

	r.GET("/health", Health)

	api := r.Group("/api")
	{
		api.GET("/health", Health)

		login := []gin.HandlerFunc{h.Login}
		if limiteLogin != nil {
			login = append([]gin.HandlerFunc{limite.Middleware(limiteLogin)}, login...)
		}
		api.POST("/auth/login", login...)
	}

	autenticado := api.Group("", h.Autenticacao())
	operador := PerfilMinimo(dominio.PerfilOperador)
	admin := PerfilMinimo(dominio.PerfilAdministrador)
	{
		autenticado.GET("/auth/me", h.Me)

		// remessas
		autenticado.POST("/remessas/upload", operador, h.UploadRemessa)
		autenticado.GET("/remessas", h.ListarRemessas)
		autenticado.GET("/remessas/estatisticas", h.EstatisticasRemessas)
		autenticado.GET("/remessas/:id", h.BuscarRemessa)
		autenticado.GET("/remessas/:id/arquivo", h.BaixarArquivoRemessa)

		// desistências
		autenticado.POST("/desistencias/upload", operador, h.UploadDesistencias)
		autenticado.GET("/desistencias", h.ListarDesistencias)
		autenticado.GET("/desistencias/estatisticas", h.EstatisticasDesistencias)
		autenticado.POST("/desistencias", operador, h.CriarDesistencia)
		autenticado.GET("/desistencias/:id", h.BuscarDesistencia)
		autenticado.PUT("/desistencias/:id/processar", admin, h.ProcessarDesistencia)

		// títulos
		autenticado.GET("/titulos", h.ListarTitulos)
		autenticado.GET("/titulos/estatisticas", h.EstatisticasTitulos)
		autenticado.GET("/titulos/:id", h.BuscarTitulo)
		autenticado.PUT("/titulos/:id/status", operador, h.AlterarStatusTitulo)

		// protestos
		autenticado.GET("/protestos", h.ListarProtestos)
		autenticado.GET("/protestos/dashboard", h.DashboardProtestos)
		autenticado.GET("/protestos/:id", h.BuscarProtesto)
		autenticado.POST("/protestos/registrar", operador, h.RegistrarProtesto)
		autenticado.POST("/protestos/cancelar/:id", admin, h.CancelarProtesto)

		// erros
		autenticado.GET("/erros", h.ListarErros)
		autenticado.GET("/erros/estatisticas", h.EstatisticasErros)
		autenticado.POST("/erros", operador, h.RegistrarErro)
		autenticado.GET("/erros/:id", h.BuscarErro)
		autenticado.PUT("/erros/:id", operador, h.AtualizarErro)

		// relatórios e dashboard
		autenticado.GET("/relatorios/:tipo", h.GerarRelatorio)
		autenticado.GET("/dashboard/resumo", h.ResumoDashboard)

		// administração
		autenticado.GET("/usuarios", admin, h.ListarUsuarios)
		autenticado.POST("/usuarios", admin, h.CriarUsuario)
		autenticado.GET("/usuarios/:id", admin, h.BuscarUsuario)
		autenticado.PUT("/usuarios/:id", admin, h.AtualizarUsuario)
		autenticado.DELETE("/usuarios/:id", admin, h.RemoverUsuario)

		autenticado.GET("/configuracoes", h.ListarConfiguracoes)
		autenticado.PUT("/configuracoes/:chave", admin, h.SalvarConfiguracao)

		autenticado.GET("/logs", admin, h.ListarLogs)
	}
}
