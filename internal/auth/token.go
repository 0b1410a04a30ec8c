package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService emite e valida os tokens de acesso (JWT HS256).
type TokenService struct {
	segredo   []byte
	expiracao time.Duration
	agora     func() time.Time
}

type Claims struct {
	Perfil dominio.Perfil `json:"perfil"`
	jwt.RegisteredClaims
}

func NovoTokenService(segredo string, expiracao time.Duration) (*TokenService, error) {
	if segredo == "" {
		return nil, fmt.Errorf("segredo JWT não pode ser vazio")
	}
	if expiracao <= 0 {
		expiracao = 24 * time.Hour
	}
	return &TokenService{segredo: []byte(segredo), expiracao: expiracao, agora: time.Now}, nil
}

func (s *TokenService) Expiracao() time.Duration { return s.expiracao }

func (s *TokenService) NovoToken(u *dominio.Usuario) (string, error) {
	agora := s.agora()
	claims := Claims{
		Perfil: u.Perfil,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(agora),
			ExpiresAt: jwt.NewNumericDate(agora.Add(s.expiracao)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.segredo)
}

// ValidarToken devolve o id do usuário contido em 'sub'.
func (s *TokenService) ValidarToken(tokenString string) (uint, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return s.segredo, nil
	}, jwt.WithTimeFunc(s.agora), jwt.WithExpirationRequired())
	if err != nil {
		return 0, fmt.Errorf("falha ao parsear token: %w", err)
	}
	if !token.Valid {
		return 0, fmt.Errorf("token inválido")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("'sub' do token não é um id válido: %q", claims.Subject)
	}
	return uint(id), nil
}
