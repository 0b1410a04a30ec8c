package publicador

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/repositorio"

	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "protesto-eventos"

// Canal é a parte do *amqp.Channel usada para publicar.
type Canal interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Publicador struct {
	store     repositorio.OutboxStore
	canal     Canal
	intervalo time.Duration
	lote      int
}

func NovoPublicador(store repositorio.OutboxStore, canal Canal) *Publicador {
	return &Publicador{store: store, canal: canal, intervalo: 2 * time.Second, lote: 10}
}

// DeclararExchange cria a exchange topic onde os eventos do protesto são publicados.
func DeclararExchange(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(
		Exchange, // nome
		"topic",  // tipo
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("falha ao declarar exchange: %w", err)
	}
	return nil
}

// Iniciar verifica o outbox a cada intervalo até o contexto ser cancelado.
func (p *Publicador) Iniciar(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.intervalo)
		defer ticker.Stop()

		log.Printf("Publicador de eventos iniciado (polling a cada %s)", p.intervalo)
		for {
			select {
			case <-ctx.Done():
				log.Println("Publicador de eventos encerrado")
				return
			case <-ticker.C:
				p.PublicarPendentes(ctx)
			}
		}
	}()
}

// PublicarPendentes envia um lote de eventos e devolve quantos foram publicados.
func (p *Publicador) PublicarPendentes(ctx context.Context) int {
	eventos, err := p.store.EventosPendentes(ctx, p.lote)
	if err != nil {
		log.Printf("Erro ao buscar eventos pendentes: %v", err)
		return 0
	}
	if len(eventos) == 0 {
		return 0
	}

	log.Printf("Processando %d evento(s) pendente(s)...", len(eventos))

	publicados := 0
	for _, evento := range eventos {
		err := p.canal.PublishWithContext(ctx,
			Exchange,          // exchange
			evento.TipoEvento, // routing key (ex: "Remessa.Processada")
			false,             // mandatory
			false,             // immediate
			amqp.Publishing{
				MessageId:    fmt.Sprintf("protesto-%d", evento.ID),
				ContentType:  "application/json",
				Body:         []byte(evento.Payload),
				Timestamp:    evento.DataOcorrencia,
				DeliveryMode: amqp.Persistent,
				Type:         evento.TipoAgregado,
			},
		)
		if err != nil {
			log.Printf("Erro ao publicar evento %d: %v", evento.ID, err)
			continue
		}

		if err := p.store.MarcarPublicado(ctx, evento.ID, time.Now()); err != nil {
			log.Printf("Evento %d publicado mas falhou ao atualizar DB: %v", evento.ID, err)
			continue
		}
		publicados++
		log.Printf("Evento publicado: %s (%s %d)", evento.TipoEvento, evento.TipoAgregado, evento.IdAgregado)
	}
	return publicados
}
