package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"academy-qabot/internal/model"
)

// QALogPublisher sends answered questions to the persist queue.
type QALogPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewQALogPublisher(conn *amqp.Connection, queueName string) *QALogPublisher {
	return &QALogPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *QALogPublisher) Publish(ctx context.Context, entry model.QALog) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal qa log payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
			Type:         "qa_log",
		},
	); err != nil {
		return fmt.Errorf("publish qa log failed: %w", err)
	}
	return nil
}
