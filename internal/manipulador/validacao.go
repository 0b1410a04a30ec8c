package manipulador

import (
	"log"
	"sync"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registrarValidacoes sync.Once

// validarUF aceita as 27 siglas, sem diferenciar maiúsculas.
func validarUF(fl validator.FieldLevel) bool {
	_, ok := dominio.NormalizarUF(fl.Field().String())
	return ok
}

func validarPerfil(fl validator.FieldLevel) bool {
	return dominio.Perfil(fl.Field().String()).Valido()
}

func RegistrarValidacoes() {
	registrarValidacoes.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Println("Validador do gin não é go-playground/validator, regras customizadas ignoradas")
			return
		}
		if err := v.RegisterValidation("uf", validarUF); err != nil {
			log.Printf("Erro ao registrar validação uf: %v", err)
		}
		if err := v.RegisterValidation("perfil", validarPerfil); err != nil {
			log.Printf("Erro ao registrar validação perfil: %v", err)
		}
	})
}
