// Package limite aplica limite de tentativas por cliente (token bucket por IP).
package limite

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Store mantém um limitador por chave e descarta as chaves ociosas.
type Store struct {
	mu         sync.Mutex
	entradas   map[string]*entrada
	rps        rate.Limit
	burst      int
	ociosidade time.Duration
	faxinaCada time.Duration
	agora      func() time.Time
}

type entrada struct {
	lim          *rate.Limiter
	ultimoAcesso time.Time
}

type Opcao func(*Store)

func ComOciosidade(d time.Duration) Opcao {
	return func(s *Store) { s.ociosidade = d }
}

func ComFaxinaCada(d time.Duration) Opcao {
	return func(s *Store) { s.faxinaCada = d }
}

func NovoStore(rps float64, burst int, opts ...Opcao) *Store {
	s := &Store{
		entradas:   make(map[string]*entrada),
		rps:        rate.Limit(rps),
		burst:      burst,
		ociosidade: 15 * time.Minute,
		faxinaCada: 2 * time.Minute,
		agora:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Obter(chave string) *rate.Limiter {
	agora := s.agora()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entradas[chave]; ok {
		ent.ultimoAcesso = agora
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entradas[chave] = &entrada{lim: lim, ultimoAcesso: agora}
	return lim
}

// Permitir consome um token; quando negado devolve quanto tempo esperar.
func (s *Store) Permitir(chave string) (bool, time.Duration) {
	lim := s.Obter(chave)
	agora := s.agora()
	r := lim.ReserveN(agora, 1)
	if !r.OK() {
		return false, time.Second
	}
	if espera := r.DelayFrom(agora); espera > 0 {
		r.CancelAt(agora)
		return false, espera
	}
	return true, 0
}

func (s *Store) Limpar() {
	limite := s.agora().Add(-s.ociosidade)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entradas {
		if ent.ultimoAcesso.Before(limite) {
			delete(s.entradas, k)
		}
	}
}

func (s *Store) Tamanho() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entradas)
}

// IniciarFaxina remove chaves ociosas periodicamente até o contexto ser cancelado.
func (s *Store) IniciarFaxina(ctx context.Context) {
	if s.faxinaCada <= 0 {
		return
	}

	t := time.NewTicker(s.faxinaCada)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Limpar()
			}
		}
	}()
}
