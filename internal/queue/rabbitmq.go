// Package queue moves outgoing mail through RabbitMQ so request handlers do
// not wait on SMTP.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/mail"
)

const (
	publishTimeout  = 5 * time.Second
	deliverAttempts = 3
	deliverBackoff  = 2 * time.Second
)

type MailQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  logrus.FieldLogger
}

func NewMailQueue(url, name string, logger logrus.FieldLogger) (*MailQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", name, err)
	}
	logger.WithField("queue", name).Info("connected to rabbitmq")
	return &MailQueue{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Send publishes msg; it satisfies mail.Sender.
func (q *MailQueue) Send(ctx context.Context, msg mail.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return q.channel.PublishWithContext(ctx,
		"",           // exchange
		q.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume delivers queued messages through sender until ctx is cancelled or
// the channel closes. Messages that still fail after retries are dropped and logged.
func (q *MailQueue) Consume(ctx context.Context, sender mail.Sender) error {
	deliveries, err := q.channel.Consume(
		q.queue.Name,
		"",
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				q.handle(ctx, d, sender)
			}
		}
	}()
	return nil
}

func (q *MailQueue) handle(ctx context.Context, d amqp.Delivery, sender mail.Sender) {
	var msg mail.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		q.logger.WithError(err).Warn("dropping malformed mail message")
		_ = d.Nack(false, false)
		return
	}
	err := mail.Retry(ctx, deliverAttempts, deliverBackoff, func() error {
		return sender.Send(ctx, msg)
	})
	if err != nil {
		q.logger.WithError(err).WithField("to", msg.To).Error("mail delivery failed")
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (q *MailQueue) Close() error {
	if err := q.channel.Close(); err != nil {
		_ = q.conn.Close()
		return err
	}
	return q.conn.Close()
}
