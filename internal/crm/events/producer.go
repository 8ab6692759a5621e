// Package events publishes view-invalidation hints for the presentation
// layer. Every mutating operation names the views that are now stale;
// consumers refresh them. This is fire-and-forget, not a consistency
// protocol.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

// Well-known view names.
const (
	ViewMembers  = "members"
	ViewPipeline = "pipeline"
)

// MemberView names the detail view of a single member.
func MemberView(id uuid.UUID) string {
	return "member:" + id.String()
}

// Event is the invalidation hint put on the wire.
type Event struct {
	Views []string  `json:"views"`
	At    time.Time `json:"at"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer buffers invalidation hints and ships them to Kafka from a
// background loop. Hints are dropped when the buffer is full.
type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}

	err = conn.CreateTopics(topicConfigs...)
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("view_invalidator"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

// Invalidate queues a hint naming the stale views. Never blocks.
func (p *Producer) Invalidate(views ...string) {
	select {
	case p.events <- Event{Views: views, At: time.Now()}:
	default:
		p.logger.Warn("invalidation queue full, dropping hint",
			zap.Strings("views", views),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.Strings("views", event.Views),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strings.Join(event.Views, ",")),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.Strings("views", event.Views),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
