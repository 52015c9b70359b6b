package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"academy-qabot/internal/model"
	"academy-qabot/internal/platform/rabbitmq"
)

// QALogStore persists one QA log entry.
type QALogStore interface {
	Create(ctx context.Context, entry *model.QALog) error
}

// QALogWorker consumes QA logs from RabbitMQ and writes them to MySQL.
type QALogWorker struct {
	conn      *amqp.Connection
	store     QALogStore
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewQALogWorker(conn *amqp.Connection, store QALogStore, queueName string) *QALogWorker {
	return &QALogWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
	}
}

func (w *QALogWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}
	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}
	if err := ch.Qos(16, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(workerCtx, d)
			}
		}
	}()

	return nil
}

func (w *QALogWorker) handle(ctx context.Context, d amqp.Delivery) {
	entry, err := decodeQALog(d.Body)
	if err != nil {
		log.Printf("worker decode qa log failed: %v", err)
		_ = d.Nack(false, false)
		return
	}
	if err := w.store.Create(ctx, entry); err != nil {
		log.Printf("worker persist qa log failed: %v", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (w *QALogWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

// decodeQALog drops any ID from the payload so MySQL assigns one.
func decodeQALog(body []byte) (*model.QALog, error) {
	var entry model.QALog
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, err
	}
	if entry.Question == "" {
		return nil, fmt.Errorf("qa log without question")
	}
	entry.ID = 0
	return &entry, nil
}
