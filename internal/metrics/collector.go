package metrics

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// metricsKeyPrefix is the Redis key prefix for service metrics.
	metricsKeyPrefix = "metrics:"
	// metricsTTL is how long metrics stay in Redis if not refreshed.
	metricsTTL = 2 * time.Minute
	// DefaultReportInterval is the default interval for writing metrics to Redis.
	DefaultReportInterval = 30 * time.Second
)

// Snapshot is the JSON document written to Redis for dashboards.
type Snapshot struct {
	ServiceName string    `json:"service_name"`
	StartedAt   time.Time `json:"started_at"`
	LastUpdated time.Time `json:"last_updated"`

	MessagesReceived  uint64 `json:"messages_received"`
	MessagesProcessed uint64 `json:"messages_processed"`
	ProcessingErrors  uint64 `json:"processing_errors"`

	NotificationsSent       uint64 `json:"notifications_sent"`
	NotificationsPartial    uint64 `json:"notifications_partial"`
	NotificationsFailed     uint64 `json:"notifications_failed"`
	NotificationsSuppressed uint64 `json:"notifications_suppressed"`

	MessagesPerSecond      float64 `json:"messages_per_second"`
	AvgProcessingLatencyNs float64 `json:"avg_processing_latency_ns"`
}

// Collector records dispatch metrics and periodically reports them to
// Redis for centralized access. It implements Recorder.
type Collector struct {
	serviceName    string
	redis          *redis.Client
	startedAt      time.Time
	reportInterval time.Duration

	received   atomic.Uint64
	processed  atomic.Uint64
	errors     atomic.Uint64
	sent       atomic.Uint64
	partial    atomic.Uint64
	failed     atomic.Uint64
	suppressed atomic.Uint64

	totalLatencyNs atomic.Uint64
	latencyCount   atomic.Uint64

	// Rate calculation state, touched only by the report goroutine.
	lastReportTime     time.Time
	lastProcessedCount uint64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewCollector creates a metrics collector for a service.
func NewCollector(serviceName string, redisClient *redis.Client) *Collector {
	return &Collector{
		serviceName:    serviceName,
		redis:          redisClient,
		startedAt:      time.Now().UTC(),
		reportInterval: DefaultReportInterval,
		lastReportTime: time.Now().UTC(),
		stopCh:         make(chan struct{}),
	}
}

// SetReportInterval sets the interval for writing metrics to Redis.
func (c *Collector) SetReportInterval(interval time.Duration) {
	c.reportInterval = interval
}

// Start begins the periodic metrics reporting to Redis.
func (c *Collector) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.reportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.writeMetrics(context.Background()) // Final write
				return
			case <-c.stopCh:
				c.writeMetrics(context.Background()) // Final write
				return
			case <-ticker.C:
				c.writeMetrics(ctx)
			}
		}
	}()
}

// Stop stops the metrics reporting.
func (c *Collector) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

func (c *Collector) RecordReceived() { c.received.Add(1) }

func (c *Collector) RecordProcessed(latency time.Duration) {
	c.processed.Add(1)
	c.totalLatencyNs.Add(uint64(latency.Nanoseconds()))
	c.latencyCount.Add(1)
}

func (c *Collector) RecordError()      { c.errors.Add(1) }
func (c *Collector) RecordSent()       { c.sent.Add(1) }
func (c *Collector) RecordPartial()    { c.partial.Add(1) }
func (c *Collector) RecordFailed()     { c.failed.Add(1) }
func (c *Collector) RecordSuppressed() { c.suppressed.Add(1) }

var _ Recorder = (*Collector)(nil)

// GetSnapshot returns current metrics without writing to Redis.
func (c *Collector) GetSnapshot() *Snapshot {
	now := time.Now().UTC()
	processed := c.processed.Load()

	elapsed := now.Sub(c.lastReportTime).Seconds()
	var rate float64
	if elapsed > 0 {
		rate = float64(processed-c.lastProcessedCount) / elapsed
	}

	var avgLatencyNs float64
	if count := c.latencyCount.Load(); count > 0 {
		avgLatencyNs = float64(c.totalLatencyNs.Load()) / float64(count)
	}

	return &Snapshot{
		ServiceName:             c.serviceName,
		StartedAt:               c.startedAt,
		LastUpdated:             now,
		MessagesReceived:        c.received.Load(),
		MessagesProcessed:       processed,
		ProcessingErrors:        c.errors.Load(),
		NotificationsSent:       c.sent.Load(),
		NotificationsPartial:    c.partial.Load(),
		NotificationsFailed:     c.failed.Load(),
		NotificationsSuppressed: c.suppressed.Load(),
		MessagesPerSecond:       rate,
		AvgProcessingLatencyNs:  avgLatencyNs,
	}
}

// writeMetrics writes current metrics to Redis.
func (c *Collector) writeMetrics(ctx context.Context) {
	if c.redis == nil {
		return
	}

	snapshot := c.GetSnapshot()
	c.lastReportTime = snapshot.LastUpdated
	c.lastProcessedCount = snapshot.MessagesProcessed

	data, err := json.Marshal(snapshot)
	if err != nil {
		slog.Error("Failed to marshal metrics", "service", c.serviceName, "error", err)
		return
	}

	key := metricsKeyPrefix + c.serviceName
	if err := c.redis.Set(ctx, key, data, metricsTTL).Err(); err != nil {
		slog.Error("Failed to write metrics to Redis", "service", c.serviceName, "error", err)
		return
	}

	slog.Debug("Metrics written to Redis", "service", c.serviceName, "key", key)
}
