package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"tcg-backend/internal/model"
	"tcg-backend/internal/platform/rabbitmq"
	"tcg-backend/internal/repository"
)

// DeckEventWorker drains the deck event queue into the deck_events table.
type DeckEventWorker struct {
	conn      *amqp.Connection
	repo      *repository.DeckEventRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDeckEventWorker(conn *amqp.Connection, repo *repository.DeckEventRepository, queueName string) *DeckEventWorker {
	return &DeckEventWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *DeckEventWorker) Start(ctx context.Context) error {
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

	if _, err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
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
				if err := w.handle(workerCtx, d.Body); err != nil {
					log.Printf("worker %v", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *DeckEventWorker) handle(ctx context.Context, body []byte) error {
	var event model.DeckEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode deck event failed: %w", err)
	}
	if event.DeckID == 0 || event.Action == "" {
		return fmt.Errorf("decode deck event failed: missing deck id or action")
	}
	event.ID = 0
	if err := w.repo.Create(ctx, &event); err != nil {
		return fmt.Errorf("persist deck event failed: %w", err)
	}
	return nil
}

func (w *DeckEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
