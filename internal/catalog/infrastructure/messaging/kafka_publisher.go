// Package messaging 提供基于 Kafka 的事件发布者实现。
package messaging

import (
	"context"
	"time"

	"github.com/linjx/gomall/internal/catalog/domain"
	"github.com/linjx/gomall/pkg/mq"
	"github.com/linjx/gomall/pkg/utils"
)

type kafkaPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaPublisher 创建 Kafka 事件发布者实例
func NewKafkaPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &kafkaPublisher{producer: producer}
}

// Publish 发布事件，短暂故障时带重试
func (p *kafkaPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	return utils.Retry(3, 100*time.Millisecond, func() error {
		return p.producer.SendMessage(ctx, topic, key, event)
	})
}
