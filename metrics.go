package mtpd

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kaliedoscape/mtpd/internal/interfaces"
	"github.com/kaliedoscape/mtpd/internal/proto"
)

// LatencyBuckets defines the latency histogram buckets in nanoseconds.
// Buckets cover from 1us to 10s with logarithmic spacing.
var LatencyBuckets = []uint64{
	1_000,          // 1us
	10_000,         // 10us
	100_000,        // 100us
	1_000_000,      // 1ms
	10_000_000,     // 10ms
	100_000_000,    // 100ms
	1_000_000_000,  // 1s
	10_000_000_000, // 10s
}

const numLatencyBuckets = 8

// Metrics tracks per-transaction statistics for a Responder: transaction
// counts in total and by operation, a count of non-OK responses, bytes
// moved across the transport,
// and a latency histogram over whole-transaction processing time.
type Metrics struct {
	Transactions   atomic.Uint64
	ErrorResponses atomic.Uint64
	BytesSent      atomic.Uint64
	BytesReceived  atomic.Uint64

	TotalLatencyNs atomic.Uint64
	OpCount        atomic.Uint64
	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
	StopTime  atomic.Int64

	opMu     sync.Mutex
	opCounts map[uint16]uint64
}

// NewMetrics returns a fresh Metrics instance with StartTime set to now.
func NewMetrics() *Metrics {
	m := &Metrics{opCounts: make(map[uint16]uint64)}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordTransaction records one completed transaction: its operation code,
// processing latency, and the response code it was answered with.
func (m *Metrics) RecordTransaction(opCode uint16, latencyNs uint64, respCode uint16) {
	m.Transactions.Add(1)
	if proto.ResponseCode(respCode) != proto.RespOK {
		m.ErrorResponses.Add(1)
	}
	m.recordLatency(latencyNs)

	m.opMu.Lock()
	m.opCounts[opCode]++
	m.opMu.Unlock()
}

// RecordBytesSent adds n to the cumulative bytes-sent counter.
func (m *Metrics) RecordBytesSent(n uint64) {
	m.BytesSent.Add(n)
}

// RecordBytesReceived adds n to the cumulative bytes-received counter.
func (m *Metrics) RecordBytesReceived(n uint64) {
	m.BytesReceived.Add(n)
}

func (m *Metrics) recordLatency(latencyNs uint64) {
	m.TotalLatencyNs.Add(latencyNs)
	m.OpCount.Add(1)
	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// Stop marks the responder as stopped, fixing UptimeNs in future snapshots.
func (m *Metrics) Stop() {
	m.StopTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time read of Metrics.
type MetricsSnapshot struct {
	Transactions   uint64
	ErrorResponses uint64
	BytesSent      uint64
	BytesReceived  uint64

	AvgLatencyNs uint64
	UptimeNs     uint64

	LatencyP50Ns  uint64
	LatencyP99Ns  uint64
	LatencyP999Ns uint64

	LatencyHistogram [numLatencyBuckets]uint64

	TransactionsPerOp map[uint16]uint64
	ErrorRate         float64
}

// Snapshot returns a point-in-time copy of the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Transactions:   m.Transactions.Load(),
		ErrorResponses: m.ErrorResponses.Load(),
		BytesSent:      m.BytesSent.Load(),
		BytesReceived:  m.BytesReceived.Load(),
	}

	totalLatencyNs := m.TotalLatencyNs.Load()
	opCount := m.OpCount.Load()
	if opCount > 0 {
		snap.AvgLatencyNs = totalLatencyNs / opCount
	}

	startTime := m.StartTime.Load()
	stopTime := m.StopTime.Load()
	if stopTime > 0 {
		snap.UptimeNs = uint64(stopTime - startTime)
	} else {
		snap.UptimeNs = uint64(time.Now().UnixNano() - startTime)
	}

	if snap.Transactions > 0 {
		snap.ErrorRate = float64(snap.ErrorResponses) / float64(snap.Transactions) * 100.0
	}

	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}

	if opCount > 0 {
		snap.LatencyP50Ns = m.calculatePercentile(0.50)
		snap.LatencyP99Ns = m.calculatePercentile(0.99)
		snap.LatencyP999Ns = m.calculatePercentile(0.999)
	}

	m.opMu.Lock()
	snap.TransactionsPerOp = make(map[uint16]uint64, len(m.opCounts))
	for k, v := range m.opCounts {
		snap.TransactionsPerOp[k] = v
	}
	m.opMu.Unlock()

	return snap
}

// calculatePercentile estimates the latency at the given percentile
// (0.0-1.0) using linear interpolation between histogram buckets.
func (m *Metrics) calculatePercentile(percentile float64) uint64 {
	totalOps := m.OpCount.Load()
	if totalOps == 0 {
		return 0
	}

	targetCount := uint64(float64(totalOps) * percentile)

	prevBucket := uint64(0)
	for i, bucket := range LatencyBuckets {
		bucketCount := m.LatencyBuckets[i].Load()
		if bucketCount >= targetCount {
			prevCount := uint64(0)
			if i > 0 {
				prevCount = m.LatencyBuckets[i-1].Load()
			}
			if bucketCount == prevCount {
				return bucket
			}
			fraction := float64(targetCount-prevCount) / float64(bucketCount-prevCount)
			return prevBucket + uint64(fraction*float64(bucket-prevBucket))
		}
		prevBucket = bucket
	}

	return LatencyBuckets[numLatencyBuckets-1]
}

// NoOpObserver discards all observations; the default when a Responder is
// constructed without an explicit Observer.
type NoOpObserver struct{}

func (NoOpObserver) ObserveTransaction(uint16, uint64, uint16) {}
func (NoOpObserver) ObserveBytesSent(uint64)                   {}
func (NoOpObserver) ObserveBytesReceived(uint64)               {}

// MetricsObserver implements interfaces.Observer by recording into a
// Metrics instance.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver returns an Observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveTransaction(opCode uint16, latencyNs uint64, respCode uint16) {
	o.metrics.RecordTransaction(opCode, latencyNs, respCode)
}

func (o *MetricsObserver) ObserveBytesSent(n uint64) {
	o.metrics.RecordBytesSent(n)
}

func (o *MetricsObserver) ObserveBytesReceived(n uint64) {
	o.metrics.RecordBytesReceived(n)
}

var (
	_ interfaces.Observer = (*MetricsObserver)(nil)
	_ interfaces.Observer = (*NoOpObserver)(nil)
)
