package testdoubles

import (
	"sync"
	"time"

	"github.com/shoplab/ordershop-go/shop"
)

// MetricsCollectorSpy is a MetricsCollector implementation that captures
// metric calls for testing. The storage engine increments one counter per
// SQL statement, so the spy makes query-count behavior assertable: a test
// can run an operation and check exactly how many statements it issued.
type MetricsCollectorSpy struct {
	counterRecords  []SpyCounterRecord
	durationRecords []SpyDurationRecord
	valueRecords    []SpyValueRecord
	mu              sync.Mutex
}

// SpyCounterRecord represents one recorded IncrementCounter call.
type SpyCounterRecord struct {
	Metric string
	Labels map[string]string
}

// SpyDurationRecord represents one recorded RecordDuration call.
type SpyDurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// SpyValueRecord represents one recorded RecordValue call.
type SpyValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy instance.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

// IncrementCounter implements the MetricsCollector interface for testing.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counterRecords = append(s.counterRecords, SpyCounterRecord{Metric: metric, Labels: copyLabels(labels)})
}

// RecordDuration implements the MetricsCollector interface for testing.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = append(s.durationRecords, SpyDurationRecord{Metric: metric, Duration: duration, Labels: copyLabels(labels)})
}

// RecordValue implements the MetricsCollector interface for testing.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.valueRecords = append(s.valueRecords, SpyValueRecord{Metric: metric, Value: value, Labels: copyLabels(labels)})
}

// Reset clears all recorded metric calls.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counterRecords = s.counterRecords[:0]
	s.durationRecords = s.durationRecords[:0]
	s.valueRecords = s.valueRecords[:0]
}

// CounterCount returns how often the given counter was incremented.
func (s *MetricsCollectorSpy) CounterCount(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.counterRecords {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

// CounterCountWithLabel returns how often the given counter was
// incremented carrying the given label value.
func (s *MetricsCollectorSpy) CounterCountWithLabel(metric string, label string, value string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.counterRecords {
		if record.Metric == metric && record.Labels[label] == value {
			count++
		}
	}

	return count
}

// GetCounterRecords returns a copy of all recorded counter calls.
func (s *MetricsCollectorSpy) GetCounterRecords() []SpyCounterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyCounterRecord(nil), s.counterRecords...)
}

// GetDurationRecords returns a copy of all recorded duration calls.
func (s *MetricsCollectorSpy) GetDurationRecords() []SpyDurationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyDurationRecord(nil), s.durationRecords...)
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}

	copied := make(map[string]string, len(labels))
	for k, v := range labels {
		copied[k] = v
	}

	return copied
}

// Compile-time check to ensure MetricsCollectorSpy implements the MetricsCollector interface.
var _ shop.MetricsCollector = (*MetricsCollectorSpy)(nil)
