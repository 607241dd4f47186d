package ingest_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/quiet-radar/internal/ingest"
	"github.com/DeafMist/quiet-radar/internal/models"
)

type stubReader struct {
	msgs      []kafka.Message
	fetchErr  error
	committed []kafka.Message
}

func (s *stubReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(s.msgs) == 0 {
		if s.fetchErr != nil {
			return kafka.Message{}, s.fetchErr
		}
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := s.msgs[0]
	s.msgs = s.msgs[1:]
	return msg, nil
}

func (s *stubReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	s.committed = append(s.committed, msgs...)
	return nil
}

type stubWriter struct {
	fail    bool
	written []kafka.Message
}

func (s *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.fail {
		return errors.New("broker down")
	}
	s.written = append(s.written, msgs...)
	return nil
}

func newsMessage(t *testing.T, offset int64, item models.NewsItem) kafka.Message {
	t.Helper()
	data, err := json.Marshal(item)
	require.NoError(t, err)
	return kafka.Message{Value: data, Offset: offset}
}

func opts() ingest.KafkaOptions {
	return ingest.KafkaOptions{Topic: "news_raw", IdleTimeout: 20 * time.Millisecond, MaxBatch: 100}
}

func TestKafkaSourceDrainsUntilIdle(t *testing.T) {
	reader := &stubReader{msgs: []kafka.Message{
		newsMessage(t, 1, models.NewsItem{Title: "Sudan talks", Source: "wire"}),
		{Value: []byte("{broken"), Offset: 2},
		newsMessage(t, 3, models.NewsItem{Title: "Chad floods"}),
	}}
	dlq := &stubWriter{}
	src := ingest.NewKafkaSourceWith(reader, dlq, opts(), nil)

	items, err := src.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Sudan talks", items[0].Title)
	require.Equal(t, "wire", items[0].Source)

	require.Len(t, dlq.written, 1)
	headers := map[string]string{}
	for _, h := range dlq.written[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	require.Equal(t, "2", headers["original_offset"])
	require.NotEmpty(t, headers["error"])

	require.Empty(t, reader.committed)
	require.NoError(t, src.Ack(context.Background()))
	require.Len(t, reader.committed, 3)

	require.NoError(t, src.Ack(context.Background()))
	require.Len(t, reader.committed, 3)
}

func TestKafkaSourceStopsAtMaxBatch(t *testing.T) {
	reader := &stubReader{}
	for i := 0; i < 5; i++ {
		reader.msgs = append(reader.msgs, newsMessage(t, int64(i), models.NewsItem{Title: "x"}))
	}
	o := opts()
	o.MaxBatch = 3

	items, err := ingest.NewKafkaSourceWith(reader, &stubWriter{}, o, nil).Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Len(t, reader.msgs, 2)
}

func TestKafkaSourceFetchError(t *testing.T) {
	reader := &stubReader{fetchErr: errors.New("rebalance")}
	_, err := ingest.NewKafkaSourceWith(reader, &stubWriter{}, opts(), nil).Collect(context.Background())
	require.ErrorContains(t, err, "rebalance")
}

func TestKafkaSourceDeadLetterFailureAborts(t *testing.T) {
	reader := &stubReader{msgs: []kafka.Message{{Value: []byte("nope"), Offset: 7}}}
	src := ingest.NewKafkaSourceWith(reader, &stubWriter{fail: true}, opts(), nil)
	src.SetDLQBackoff(time.Millisecond)

	_, err := src.Collect(context.Background())
	require.ErrorContains(t, err, "dead letter offset 7")
	require.NoError(t, src.Ack(context.Background()))
	require.Empty(t, reader.committed)
}

func TestDLQTopic(t *testing.T) {
	require.Equal(t, "news_raw_dlq", ingest.DLQTopic("news_raw"))
}
