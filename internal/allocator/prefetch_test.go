package allocator

import (
	"context"
	"errors"
	"github.com/Borislavv/go-tinymt/config"
	"github.com/stretchr/testify/require"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type warmLog struct {
	mu   sync.Mutex
	keys []int64
}

func (w *warmLog) warm(n int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.keys = append(w.keys, n)
	return nil
}

func (w *warmLog) snapshot() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.keys)
}

// TestPrefetcher_WarmsAhead verifies that the prefetcher warms exactly Ahead keys past the counter.
func TestPrefetcher_WarmsAhead(t *testing.T) {
	var issued atomic.Int64
	log := &warmLog{}

	p := NewPrefetcher(context.Background(), &config.PrefetchCfg{Ahead: 3, Rate: 1000}, nil, issued.Load, log.warm)
	defer func() { _ = p.Close() }()

	require.Eventually(t, func() bool {
		return slices.Equal(log.snapshot(), []int64{0, 1, 2})
	}, time.Second, 5*time.Millisecond)

	// nothing beyond the window while the counter stands still
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, []int64{0, 1, 2}, log.snapshot())

	// keys already consumed are skipped
	issued.Store(5)
	require.Eventually(t, func() bool {
		return slices.Equal(log.snapshot(), []int64{0, 1, 2, 5, 6, 7})
	}, time.Second, 5*time.Millisecond)

	warmed, failed := p.Metrics()
	require.Equal(t, int64(6), warmed)
	require.Equal(t, int64(0), failed)
}

// TestPrefetcher_CountsFailures verifies that warm errors are counted and skipped.
func TestPrefetcher_CountsFailures(t *testing.T) {
	var zero atomic.Int64
	p := NewPrefetcher(context.Background(), &config.PrefetchCfg{Ahead: 2, Rate: 1000}, nil, zero.Load,
		func(n int64) error { return errors.New("no record") })
	defer func() { _ = p.Close() }()

	require.Eventually(t, func() bool {
		_, failed := p.Metrics()
		return failed == 2
	}, time.Second, 5*time.Millisecond)
}

// TestPrefetcher_StopsWithContext verifies that the loop exits when its parent context is cancelled.
func TestPrefetcher_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var zero atomic.Int64
	p := NewPrefetcher(ctx, &config.PrefetchCfg{Ahead: 1, Rate: 10}, nil, zero.Load, func(int64) error { return nil })

	cancel()
	select {
	case <-p.done:
	case <-time.After(time.Second):
		t.Fatal("prefetcher should stop when the context is cancelled")
	}
	require.NoError(t, p.Close())
}
