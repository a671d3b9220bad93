package pkg

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventHeader 消息头中标记事件类型，消费方无需解析消息体即可过滤
const EventHeader = "event"

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaProducer 同步写入，RequireAll 保证写入成功后才标记为已投递
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(cfg KafkaConfig) *KafkaProducer {
	return &KafkaProducer{writer: &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}}
}

// Publish 同一个 key 落到同一分区，单个员工的事件保持有序
func (p *KafkaProducer) Publish(ctx context.Context, key, event string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   payload,
		Headers: []kafka.Header{{Key: EventHeader, Value: []byte(event)}},
		Time:    time.Now(),
	})
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
