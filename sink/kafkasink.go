package sink

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"

	"mbpbook/mbp"
)

// KafkaSink publishes each snapshot's encoded row to a Kafka topic,
// keyed by row index so a downstream consumer can detect gaps or
// reordering per partition.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink builds a sink that publishes to topic on brokers. Writes
// require all in-sync replicas to acknowledge, matching a durability bar
// downstream depth consumers can rely on.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			Balancer:     &kafka.Hash{},
		},
	}
}

// Write publishes one snapshot's encoded row, keyed by its row index.
func (s *KafkaSink) Write(idx uint64, snap mbp.Snapshot) error {
	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(idx, 10)),
		Value: []byte(EncodeRow(idx, snap)),
	}
	return s.writer.WriteMessages(context.Background(), msg)
}

// Close flushes and closes the underlying Kafka writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
