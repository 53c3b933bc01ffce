// Package metrics records company operation outcomes and durations.
// Besides monotonic totals it keeps, per (operation, status) pair, a
// rolling ten-minute count that self-expires, surfaced to the metrics
// sink through an observable gauge at scan time.
package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const meterName = "github.com/arflisch/companyapi/internal/company/metrics"

// Operation names recorded by the command layer.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpPatch  = "patch"
	OpDelete = "delete"
)

// Statuses recorded per operation.
const (
	StatusSuccess         = "success"
	StatusValidationError = "validation_error"
	StatusError           = "error"
)

// Key identifies one (operation, status) counter.
type Key struct {
	Operation string
	Status    string
}

// slidingWindow holds the timestamps of events inside the trailing
// window plus a monotonic total that never shrinks. Expired timestamps
// are trimmed lazily on read and periodically by the sweep.
type slidingWindow struct {
	mu         sync.Mutex
	timestamps []time.Time
	total      int64
}

func (w *slidingWindow) add(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timestamps = append(w.timestamps, now)
	w.total++
}

// countSince trims entries older than cutoff and returns the remainder.
func (w *slidingWindow) countSince(cutoff time.Time) int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.trimLocked(cutoff)
	return int64(len(w.timestamps))
}

func (w *slidingWindow) trim(cutoff time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.trimLocked(cutoff)
}

func (w *slidingWindow) trimLocked(cutoff time.Time) {
	i := 0
	for i < len(w.timestamps) && w.timestamps[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		w.timestamps = append(w.timestamps[:0:0], w.timestamps[i:]...)
	}
}

// Recorder is an explicitly constructed, injected metrics component.
// Start launches the periodic sweep bounding window memory; Stop halts it.
type Recorder struct {
	mu      sync.RWMutex
	windows map[Key]*slidingWindow

	windowSize time.Duration
	sweepEvery time.Duration
	now        func() time.Time

	operations metric.Int64Counter
	durations  metric.Float64Histogram

	logger  *zap.Logger
	stop    chan struct{}
	done    chan struct{}
	started bool
	stopped bool
}

// NewRecorder builds a Recorder with the given trailing window size and
// sweep interval.
func NewRecorder(logger *zap.Logger, windowSize, sweepEvery time.Duration) (*Recorder, error) {
	r := &Recorder{
		windows:    make(map[Key]*slidingWindow),
		windowSize: windowSize,
		sweepEvery: sweepEvery,
		now:        time.Now,
		logger:     logger.Named("company_metrics"),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	meter := otel.Meter(meterName)

	var err error
	r.operations, err = meter.Int64Counter(
		"company.operation.count",
		metric.WithDescription("Total count of company operations"),
	)
	if err != nil {
		return nil, err
	}

	r.durations, err = meter.Float64Histogram(
		"company.operation.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration of company operations in milliseconds"),
	)
	if err != nil {
		return nil, err
	}

	_, err = meter.Int64ObservableGauge(
		"company.operation.count.last10min",
		metric.WithDescription("Count of operations in the trailing window by operation and status"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			for key, count := range r.WindowedCounts() {
				o.Observe(count,
					metric.WithAttributes(
						attribute.String("operation", key.Operation),
						attribute.String("status", key.Status),
					),
				)
			}
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Start launches the background sweep. Calling it twice is a no-op.
func (r *Recorder) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	r.logger.Info("starting metrics sweep",
		zap.Duration("window", r.windowSize),
		zap.Duration("interval", r.sweepEvery),
	)
	go r.sweepLoop()
}

// Stop halts the background sweep and waits for it to exit. It is safe
// to call without a prior Start and safe to call more than once.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if !r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stop)
	<-r.done
}

// RecordOperation increments the monotonic counter for the pair and
// appends the current timestamp to its trailing window.
func (r *Recorder) RecordOperation(operation, status string) {
	r.operations.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
	r.window(Key{Operation: operation, Status: status}).add(r.now())
}

// RecordDuration records one duration observation tagged by operation.
func (r *Recorder) RecordDuration(d time.Duration, operation string) {
	r.durations.Record(context.Background(), float64(d.Milliseconds()),
		metric.WithAttributes(attribute.String("operation", operation)),
	)
}

// WindowedCounts returns every pair with a non-zero count inside the
// trailing window.
func (r *Recorder) WindowedCounts() map[Key]int64 {
	cutoff := r.now().Add(-r.windowSize)

	r.mu.RLock()
	keys := make([]Key, 0, len(r.windows))
	for key := range r.windows {
		keys = append(keys, key)
	}
	r.mu.RUnlock()

	counts := make(map[Key]int64, len(keys))
	for _, key := range keys {
		if count := r.window(key).countSince(cutoff); count > 0 {
			counts[key] = count
		}
	}
	return counts
}

// Total returns the monotonic count for the pair, unaffected by window
// expiry.
func (r *Recorder) Total(operation, status string) int64 {
	w := r.window(Key{Operation: operation, Status: status})
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.total
}

func (r *Recorder) window(key Key) *slidingWindow {
	r.mu.RLock()
	w, ok := r.windows[key]
	r.mu.RUnlock()
	if ok {
		return w
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok = r.windows[key]; ok {
		return w
	}
	w = &slidingWindow{}
	r.windows[key] = w
	return w
}

func (r *Recorder) sweepLoop() {
	defer close(r.done)

	ticker := time.NewTicker(r.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.stop:
			return
		}
	}
}

// sweep trims expired timestamps from every window so memory stays
// bounded regardless of traffic volume.
func (r *Recorder) sweep() {
	cutoff := r.now().Add(-r.windowSize)

	r.mu.RLock()
	windows := make([]*slidingWindow, 0, len(r.windows))
	for _, w := range r.windows {
		windows = append(windows, w)
	}
	r.mu.RUnlock()

	for _, w := range windows {
		w.trim(cutoff)
	}
}
