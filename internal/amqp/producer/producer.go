package simpleproducer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/streadway/amqp"
)

var ErrNotConnected = errors.New("producer is not connected")

// Producer publishes JSON messages to a durable queue named after it.
type Producer struct {
	name    string
	conn    *amqp.Connection
	channel *amqp.Channel
}

func New(name string, conn *amqp.Connection) *Producer {
	return &Producer{name: name, conn: conn}
}

func (p *Producer) Connect() error {
	channel, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("cannot open channel, %w", err)
	}

	if _, err := channel.QueueDeclare(p.name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("cannot declare queue %s, %w", p.name, err)
	}

	p.channel = channel

	return nil
}

func (p *Producer) Publish(event interface{}) error {
	if p.channel == nil {
		return ErrNotConnected
	}

	msg, err := encode(event)
	if err != nil {
		return err
	}

	if err := p.channel.Publish("", p.name, false, false, msg); err != nil {
		return fmt.Errorf("cannot publish to %s, %w", p.name, err)
	}

	return nil
}

// Close releases the channel and the connection the producer was built with.
func (p *Producer) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return fmt.Errorf("cannot close channel, %w", err)
		}
	}

	if p.conn == nil {
		return nil
	}

	return p.conn.Close()
}

func encode(event interface{}) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("cannot encode event, %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}, nil
}
