package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "devmart.events"

var ErrPublisherClosed = errors.New("publisher closed")

type RabbitMQConfig struct {
	URL      string `yaml:"url" env:"RABBITMQ_URL"`
	Exchange string `yaml:"exchange" env-default:"devmart.events"`
}

type RabbitMQPublisher struct {
	exchange string

	mu      sync.Mutex
	once    sync.Once
	conn    *amqp.Connection
	channel *amqp.Channel
}

var _ Publisher = (*RabbitMQPublisher)(nil)

func NewRabbitMQPublisher(cfg RabbitMQConfig) (*RabbitMQPublisher, error) {
	const op = "events.NewRabbitMQPublisher"

	exchange := cfg.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: open channel: %w", op, err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: declare exchange: %w", op, err)
	}

	return &RabbitMQPublisher{exchange: exchange, conn: conn, channel: ch}, nil
}

func (p *RabbitMQPublisher) PublishLeadCreated(ctx context.Context, e LeadCreated) error {
	return p.publish(ctx, RoutingLeadCreated, e)
}

func (p *RabbitMQPublisher) PublishPostPublished(ctx context.Context, e PostPublished) error {
	return p.publish(ctx, RoutingPostPublished, e)
}

func (p *RabbitMQPublisher) publish(ctx context.Context, key string, event any) error {
	const op = "events.RabbitMQPublisher.publish"

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: marshal %s: %w", op, key, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return fmt.Errorf("%s: %w", op, ErrPublisherClosed)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}

	return nil
}

func (p *RabbitMQPublisher) Close() error {
	var err error

	p.once.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.channel != nil {
			err = p.channel.Close()
			p.channel = nil
		}
		if p.conn != nil {
			if closeErr := p.conn.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
			p.conn = nil
		}
	})

	return err
}
