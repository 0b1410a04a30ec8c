package config

import (
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const tentativasRabbitMQ = 15

// ConectarRabbitMQ insiste por um tempo porque o broker costuma subir depois da API.
func ConectarRabbitMQ(url string) (*amqp.Connection, error) {
	log.Println("Conectando ao RabbitMQ...")

	var (
		conn *amqp.Connection
		err  error
	)
	for tentativa := 1; tentativa <= tentativasRabbitMQ; tentativa++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			log.Println("Conectado ao RabbitMQ")
			return conn, nil
		}
		log.Printf("Tentativa %d/%d de conexão RabbitMQ: %v", tentativa, tentativasRabbitMQ, err)
		if tentativa < tentativasRabbitMQ {
			time.Sleep(3 * time.Second)
		}
	}
	return nil, fmt.Errorf("falha ao conectar RabbitMQ após %d tentativas: %w", tentativasRabbitMQ, err)
}
