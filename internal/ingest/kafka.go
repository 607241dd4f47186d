package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/quiet-radar/internal/models"
)

// MessageReader is the consuming half of a kafka.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// MessageWriter is the producing half of a kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaOptions configure a KafkaSource.
type KafkaOptions struct {
	Brokers []string
	Topic   string
	GroupID string
	// IdleTimeout ends the drain once no message arrived for this long.
	IdleTimeout time.Duration
	MaxBatch    int
}

// DLQTopic is the topic that receives undecodable messages of topic.
func DLQTopic(topic string) string {
	return topic + "_dlq"
}

const dlqAttempts = 5

// KafkaSource drains a topic of JSON news items. Offsets are only committed
// by Ack, after the run results are stored.
type KafkaSource struct {
	reader     MessageReader
	dlq        MessageWriter
	opts       KafkaOptions
	log        *slog.Logger
	pending    []kafka.Message
	dlqBackoff time.Duration
	closers    []io.Closer
}

// NewKafkaSource connects a consumer group reader and the dead letter writer.
func NewKafkaSource(opts KafkaOptions, log *slog.Logger) *KafkaSource {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        opts.Brokers,
		Topic:          opts.Topic,
		GroupID:        opts.GroupID,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit only
	})
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     opts.Brokers,
		Topic:       DLQTopic(opts.Topic),
		MaxAttempts: 3,
	})

	s := NewKafkaSourceWith(reader, writer, opts, log)
	s.closers = []io.Closer{reader, writer}
	return s
}

// NewKafkaSourceWith builds a KafkaSource over existing clients.
func NewKafkaSourceWith(reader MessageReader, dlq MessageWriter, opts KafkaOptions, log *slog.Logger) *KafkaSource {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 5 * time.Second
	}
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = 5000
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &KafkaSource{
		reader:     reader,
		dlq:        dlq,
		opts:       opts,
		log:        log,
		dlqBackoff: time.Second,
	}
}

// Collect reads until the topic stays idle for IdleTimeout or MaxBatch
// messages were read. Messages that are not a JSON news item go to the dead
// letter topic and never reach the batch.
func (s *KafkaSource) Collect(ctx context.Context) ([]models.NewsItem, error) {
	items := []models.NewsItem{}
	var dead int

	for len(s.pending) < s.opts.MaxBatch {
		fetchCtx, cancel := context.WithTimeout(ctx, s.opts.IdleTimeout)
		msg, err := s.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("drain %s: %w", s.opts.Topic, ctx.Err())
			}
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			return nil, fmt.Errorf("fetch message: %w", err)
		}

		var item models.NewsItem
		if err := json.Unmarshal(msg.Value, &item); err != nil {
			s.log.Warn("undecodable message, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
			if err := s.deadLetter(ctx, msg, err); err != nil {
				return nil, err
			}
			dead++
		} else {
			items = append(items, item)
		}
		s.pending = append(s.pending, msg)
	}

	s.log.Info("topic drained",
		slog.String("topic", s.opts.Topic),
		slog.Int("items", len(items)),
		slog.Int("dead_lettered", dead),
	)
	return items, nil
}

// Ack commits every message handed out since the previous Ack.
func (s *KafkaSource) Ack(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.reader.CommitMessages(ctx, s.pending...); err != nil {
		return fmt.Errorf("commit messages: %w", err)
	}
	s.pending = nil
	return nil
}

// Close releases the clients opened by NewKafkaSource.
func (s *KafkaSource) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (s *KafkaSource) deadLetter(ctx context.Context, msg kafka.Message, cause error) error {
	dlqMsg := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(append([]kafka.Header{}, msg.Headers...),
			kafka.Header{Key: "original_partition", Value: []byte(strconv.Itoa(msg.Partition))},
			kafka.Header{Key: "original_offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
			kafka.Header{Key: "error", Value: []byte(cause.Error())},
			kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		),
	}

	var err error
	for attempt := 0; attempt < dlqAttempts; attempt++ {
		if err = s.dlq.WriteMessages(ctx, dlqMsg); err == nil {
			return nil
		}
		backoff := s.dlqBackoff * time.Duration(1<<uint(attempt))
		s.log.Warn("DLQ write failed, retrying",
			slog.Any("err", err),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return fmt.Errorf("dead letter offset %d: %w", msg.Offset, ctx.Err())
		}
	}
	return fmt.Errorf("dead letter offset %d: %w", msg.Offset, err)
}
