package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/noaa-gefs-stac/internal/config"
	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the Writer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes items to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer  messageWriter
	timeout time.Duration
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSinkTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, timeout: cfg.KafkaWriteTimeout, logger: logger}
}

// Load publishes one item keyed by its ID, so re-runs over the same file
// land on the same partition and compact to the latest document.
func (w *Writer) Load(ctx context.Context, item *stac.Item) error {
	msg, err := serializeToMessage(item)
	if err != nil {
		return err
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish item: %w", err)
	}
	w.logger.Debug("item published", "item", item.ID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an item into a Kafka message.
func serializeToMessage(item *stac.Item) (kafkago.Message, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize stac item: %w", err)
	}

	headers := []kafkago.Header{
		{Key: "collection", Value: []byte(item.Collection)},
	}
	if ref := item.Properties.ForecastReferenceDatetime; ref != nil {
		headers = append(headers, kafkago.Header{Key: "reference_datetime", Value: []byte(ref.UTC().Format(time.RFC3339))})
	}
	if processed := item.Properties.ProcessingDatetime; processed != nil {
		headers = append(headers, kafkago.Header{Key: "processed_at", Value: []byte(processed.UTC().Format(time.RFC3339))})
	}

	return kafkago.Message{
		Key:     []byte(item.ID),
		Value:   data,
		Headers: headers,
	}, nil
}
