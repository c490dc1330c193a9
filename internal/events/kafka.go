package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-forum/internal/config"
	"github.com/segmentio/kafka-go"
)

// messageWriter - часть *kafka.Writer, нужная публикатору.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka - Publisher поверх kafka-go. Ключ сообщения - ID темы
// (или сущности), чтобы события одной темы попадали в одну партицию.
type Kafka struct {
	w   messageWriter
	now func() time.Time
}

// NewKafka создаёт асинхронного писателя: WriteMessages не ждёт подтверждения
// брокера, ошибки доставки пишутся в лог.
func NewKafka(cfg config.KafkaConfig, lg *slog.Logger) *Kafka {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				lg.Error("kafka_write_failed", "topic", cfg.Topic, "messages", len(messages), "err", err)
			}
		},
	}

	return newKafka(w)
}

func newKafka(w messageWriter) *Kafka {
	return &Kafka{w: w, now: time.Now}
}

// Publish сериализует событие в JSON и отправляет его в топик.
func (k *Kafka) Publish(ctx context.Context, ev Event) error {
	const op = "events/kafka/Publish"

	fill(&ev, k.now())

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	key := ev.ThreadID
	if key == "" {
		key = ev.EntityID
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  ev.At,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	}

	if err := k.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close дожидается отправки буферизованных сообщений.
func (k *Kafka) Close() error {
	return k.w.Close()
}

var _ Publisher = (*Kafka)(nil)
