package ingest

import "time"

// SetDLQBackoff shortens the dead letter retry backoff in tests.
func (s *KafkaSource) SetDLQBackoff(d time.Duration) {
	s.dlqBackoff = d
}
