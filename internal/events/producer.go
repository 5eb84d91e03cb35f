// Package events はタスクのライフサイクルイベントを外部へ送信します。
package events

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionCompleted = "completed"
	ActionDeleted   = "deleted"
)

// TaskEvent は1件のタスク操作を表します。
type TaskEvent struct {
	Action string    `json:"action"`
	TaskID int       `json:"task_id"`
	Title  string    `json:"title,omitempty"`
	At     time.Time `json:"at"`
}

// Publisher はイベントの送信先です。送信の失敗は呼び出し元に返しません。
type Publisher interface {
	Publish(ctx context.Context, event TaskEvent)
	Close() error
}

// NopPublisher は何も送信しません (Kafka未設定時)。
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, TaskEvent) {}
func (NopPublisher) Close() error                      { return nil }

// messageWriter は kafka.Writer のうち使用するメソッドです。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher はイベントをJSONでKafkaトピックに書き込みます。
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher は非同期書き込みのKafkaPublisherを作成します。
// Async のため WriteMessages はブロックせず、エラーは Completion でログに出します。
func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			Async:        true,
			RequiredAcks: kafka.RequireOne,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					log.Printf("failed to write %d kafka message(s): %v", len(messages), err)
				}
			},
		},
	}
}

// Publish はタスクIDをキーにしてイベントを送信します。
func (p *KafkaPublisher) Publish(ctx context.Context, event TaskEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to encode task event: %v", err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(event.TaskID)),
		Value: value,
		Time:  event.At,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Println("failed to write kafka message:", err)
	}
}

// Close は未送信のメッセージをフラッシュしてライターを閉じます。
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
