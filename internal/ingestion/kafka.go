package ingestion

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// KafkaSourceConfig configures a Kafka-backed event source.
type KafkaSourceConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// KafkaSource consumes order and sale events from a Kafka topic.
//
// Message keys follow "order.created.<order_id>" or "sale.recorded.<product_id>";
// values carry the JSON payload for the corresponding event kind.
type KafkaSource struct {
	reader *kafka.Reader
	logger zerolog.Logger
}

// NewKafkaSource creates a Kafka event source.
func NewKafkaSource(cfg KafkaSourceConfig, logger zerolog.Logger) *KafkaSource {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &KafkaSource{
		reader: reader,
		logger: logger.With().Str("source", "kafka").Logger(),
	}
}

// Name implements Source.
func (s *KafkaSource) Name() string { return "kafka" }

// Subscribe implements Source. Reads messages until the context is
// cancelled, then closes the reader and the returned channel.
func (s *KafkaSource) Subscribe(ctx context.Context) (<-chan Event, error) {
	eventsCh := make(chan Event, 100)

	go func() {
		defer close(eventsCh)
		defer s.reader.Close()

		for {
			msg, err := s.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Error().Err(err).Msg("read message failed")
				continue
			}

			event, ok := s.decodeMessage(msg)
			if !ok {
				continue
			}

			select {
			case eventsCh <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return eventsCh, nil
}

// decodeMessage maps a Kafka message onto an Event by its key prefix.
func (s *KafkaSource) decodeMessage(msg kafka.Message) (Event, bool) {
	key := string(msg.Key)
	kind := key
	if i := strings.IndexByte(key, '.'); i >= 0 {
		kind = key[:i]
	}

	switch EventKind(kind) {
	case KindOrder:
		var event Event
		event.Kind = KindOrder
		if err := json.Unmarshal(msg.Value, &event.Order); err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("unmarshal order event failed")
			return Event{}, false
		}
		return event, true
	case KindSale:
		var event Event
		event.Kind = KindSale
		if err := json.Unmarshal(msg.Value, &event.Sale); err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("unmarshal sale event failed")
			return Event{}, false
		}
		return event, true
	default:
		s.logger.Warn().Str("key", key).Msg("unknown event key")
		return Event{}, false
	}
}
