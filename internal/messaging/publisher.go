package messaging

import (
	"encoding/json"

	"github.com/luxfi/log"
	"github.com/streadway/amqp"
)

// Publisher publishes domain events to a RabbitMQ topic exchange.
//
// EVENTS PUBLISHED:
//   - trade.executed.<market>.<outcome>: one per trade, in match order
//   - order.updated.<market>.<outcome>: taker and maker states after a submission
//   - order.filled.<market>.<outcome>: as order.updated, for fully filled orders
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   log.Logger
}

// NewPublisher initializes a RabbitMQ publisher with the given exchange.
func NewPublisher(amqpURL, exchange string, logger log.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true, // durable
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish sends an event message to RabbitMQ with the given routing key.
func (p *Publisher) Publish(routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	err = p.channel.Publish(
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return err
	}

	p.logger.Debug("event published", "routing_key", routingKey)
	return nil
}

// Close shuts down RabbitMQ resources gracefully.
func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
