package consumidor

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
	"github.com/iuriramos93/Prostest-System/internal/servico"

	"github.com/cespare/xxhash/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeCartorio = "cartorio-eventos"
	Fila             = "protesto-retornos"
)

type Consumidor struct {
	store repositorio.Store
	// aoAlterar roda depois de cada retorno aplicado; usado para invalidar caches.
	aoAlterar func(context.Context)
}

func NovoConsumidor(store repositorio.Store, aoAlterar func(context.Context)) *Consumidor {
	return &Consumidor{store: store, aoAlterar: aoAlterar}
}

// Iniciar declara exchange e fila dos retornos do cartório e consome até o contexto acabar.
func (c *Consumidor) Iniciar(ctx context.Context, ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(
		ExchangeCartorio, // nome
		"topic",          // tipo
		true,             // durable
		false,            // auto-deleted
		false,            // internal
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return fmt.Errorf("falha ao declarar exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		Fila,  // nome
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("falha ao declarar fila: %w", err)
	}

	for _, chave := range []string{dominio.EventoCartorioProtestado, dominio.EventoCartorioPago} {
		if err := ch.QueueBind(q.Name, chave, ExchangeCartorio, false, nil); err != nil {
			return fmt.Errorf("falha ao fazer bind %s: %w", chave, err)
		}
	}

	// processa 1 mensagem por vez
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("falha ao configurar QoS: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx,
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack (desligado, ack manual)
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumer: %w", err)
	}

	log.Println("Consumidor RabbitMQ iniciado, aguardando retornos do cartório...")

	go func() {
		for msg := range msgs {
			if err := c.ProcessarMensagem(ctx, msg); err != nil {
				log.Printf("Erro ao processar mensagem: %v", err)
				// sem requeue quando a mensagem nunca vai ser aplicável
				requeue := !errors.Is(err, dominio.ErrNaoEncontrado) && !errors.Is(err, dominio.ErrValidacao) &&
					!errors.Is(err, dominio.ErrTransicaoInvalida)
				msg.Nack(false, requeue)
				continue
			}
			msg.Ack(false)
		}
		log.Println("Consumidor RabbitMQ encerrado")
	}()

	return nil
}

// idMensagem usa o MessageId do publicador; sem ele, o hash de routing key e corpo,
// que se mantém igual quando o broker reentrega a mensagem.
func idMensagem(msg amqp.Delivery) string {
	if msg.MessageId != "" {
		return msg.MessageId
	}
	d := xxhash.New()
	d.WriteString(msg.RoutingKey)
	d.WriteString("\n")
	d.Write(msg.Body)
	return "xxhash-" + hex.EncodeToString(d.Sum(nil))
}

// ProcessarMensagem aplica um retorno do cartório uma única vez por id de mensagem.
func (c *Consumidor) ProcessarMensagem(ctx context.Context, msg amqp.Delivery) error {
	id := idMensagem(msg)
	log.Printf("Processando mensagem: %s (routing: %s)", id, msg.RoutingKey)

	var status dominio.StatusTitulo
	switch msg.RoutingKey {
	case dominio.EventoCartorioProtestado:
		status = dominio.StatusTituloProtestado
	case dominio.EventoCartorioPago:
		status = dominio.StatusTituloPago
	default:
		log.Printf("Routing key desconhecida: %s", msg.RoutingKey)
		return nil
	}

	var retorno dominio.RetornoCartorio
	if err := json.Unmarshal(msg.Body, &retorno); err != nil {
		return dominio.Invalido("falha ao fazer unmarshal: %v", err)
	}
	if retorno.Protocolo == "" {
		return dominio.Invalido("mensagem %s sem protocolo", id)
	}

	aplicado := false
	err := c.store.Transacao(ctx, func(tx repositorio.Store) error {
		processada, err := tx.MensagemProcessada(ctx, id)
		if err != nil {
			return err
		}
		if processada {
			log.Printf("Mensagem %s já processada, ignorando", id)
			return nil
		}

		if err := servico.AplicarRetornoCartorio(ctx, tx, retorno, status); err != nil {
			return err
		}
		if err := tx.RegistrarMensagem(ctx, id, time.Now()); err != nil {
			return err
		}
		aplicado = true
		return nil
	})
	if err != nil {
		return err
	}

	if aplicado {
		log.Printf("Mensagem %s processada com sucesso", id)
		if c.aoAlterar != nil {
			c.aoAlterar(ctx)
		}
	}
	return nil
}
