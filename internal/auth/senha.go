package auth

import (
	"fmt"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"golang.org/x/crypto/bcrypt"
)

const (
	TamanhoMinimoSenha = 6
	// bcrypt só considera os primeiros 72 bytes
	TamanhoMaximoSenha = 72
)

func GerarHashSenha(senha string) (string, error) {
	if len(senha) < TamanhoMinimoSenha {
		return "", dominio.Invalido("senha deve ter pelo menos %d caracteres", TamanhoMinimoSenha)
	}
	if len(senha) > TamanhoMaximoSenha {
		return "", dominio.Invalido("senha deve ter no máximo %d bytes", TamanhoMaximoSenha)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("falha ao gerar hash da senha: %w", err)
	}
	return string(hash), nil
}

func ConferirSenha(hash, senha string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha)) == nil
}
