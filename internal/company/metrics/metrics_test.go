package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRecorder(t *testing.T) (*Recorder, *time.Time) {
	r, err := NewRecorder(zaptest.NewLogger(t), 10*time.Minute, time.Minute)
	require.NoError(t, err)

	now := time.Date(2025, 6, 24, 12, 0, 0, 0, time.UTC)
	current := &now
	r.now = func() time.Time { return *current }
	return r, current
}

func TestWindowedCountMatchesEventsInWindow(t *testing.T) {
	r, now := newTestRecorder(t)

	r.RecordOperation(OpCreate, StatusSuccess)
	r.RecordOperation(OpCreate, StatusSuccess)
	*now = now.Add(5 * time.Minute)
	r.RecordOperation(OpCreate, StatusSuccess)

	counts := r.WindowedCounts()
	assert.Equal(t, int64(3), counts[Key{OpCreate, StatusSuccess}],
		"all three events are inside the trailing window")
}

func TestWindowedCountDropsToZeroAfterExpiry(t *testing.T) {
	r, now := newTestRecorder(t)

	r.RecordOperation(OpDelete, StatusSuccess)
	r.RecordOperation(OpDelete, StatusSuccess)

	counts := r.WindowedCounts()
	require.Equal(t, int64(2), counts[Key{OpDelete, StatusSuccess}])

	*now = now.Add(10*time.Minute + time.Second)

	counts = r.WindowedCounts()
	_, present := counts[Key{OpDelete, StatusSuccess}]
	assert.False(t, present, "expired keys are omitted from the snapshot")
	assert.Equal(t, int64(2), r.Total(OpDelete, StatusSuccess),
		"monotonic total is unaffected by window expiry")
}

func TestWindowedCountPartialExpiry(t *testing.T) {
	r, now := newTestRecorder(t)

	r.RecordOperation(OpUpdate, StatusError)
	*now = now.Add(8 * time.Minute)
	r.RecordOperation(OpUpdate, StatusError)
	*now = now.Add(4 * time.Minute)

	// First event is now 12 minutes old, second only 4.
	counts := r.WindowedCounts()
	assert.Equal(t, int64(1), counts[Key{OpUpdate, StatusError}])
}

func TestKeysAreIndependent(t *testing.T) {
	r, _ := newTestRecorder(t)

	r.RecordOperation(OpCreate, StatusSuccess)
	r.RecordOperation(OpCreate, StatusValidationError)
	r.RecordOperation(OpPatch, StatusSuccess)

	counts := r.WindowedCounts()
	assert.Equal(t, int64(1), counts[Key{OpCreate, StatusSuccess}])
	assert.Equal(t, int64(1), counts[Key{OpCreate, StatusValidationError}])
	assert.Equal(t, int64(1), counts[Key{OpPatch, StatusSuccess}])
}

func TestSweepBoundsWindowMemory(t *testing.T) {
	r, now := newTestRecorder(t)

	for i := 0; i < 100; i++ {
		r.RecordOperation(OpCreate, StatusSuccess)
	}
	*now = now.Add(11 * time.Minute)

	r.sweep()

	w := r.window(Key{OpCreate, StatusSuccess})
	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.timestamps, "sweep should purge every expired timestamp")
	assert.Equal(t, int64(100), w.total, "sweep must not touch the monotonic total")
}

func TestStartStop(t *testing.T) {
	r, err := NewRecorder(zaptest.NewLogger(t), 10*time.Minute, 10*time.Millisecond)
	require.NoError(t, err)

	r.Start()
	r.RecordOperation(OpCreate, StatusSuccess)
	time.Sleep(30 * time.Millisecond)
	r.Stop()
	r.Stop()
}

// TestStopWithoutStart verifies Stop returns immediately when the sweep
// was never launched.
func TestStopWithoutStart(t *testing.T) {
	r, err := NewRecorder(zaptest.NewLogger(t), 10*time.Minute, time.Minute)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop should not block when Start was never called")
	}
}

func TestConcurrentRecording(t *testing.T) {
	r, _ := newTestRecorder(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.RecordOperation(OpCreate, StatusSuccess)
				r.RecordDuration(3*time.Millisecond, OpCreate)
				r.WindowedCounts()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(800), r.Total(OpCreate, StatusSuccess))
	assert.Equal(t, int64(800), r.WindowedCounts()[Key{OpCreate, StatusSuccess}])
}
