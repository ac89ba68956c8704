package telemetry

import (
	"bytes"
	"context"
	"github.com/Borislavv/go-tinymt/config"
	"github.com/Borislavv/go-tinymt/internal/search"
	"github.com/stretchr/testify/require"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fakeSearcher struct{ searched atomic.Int64 }

func (f *fakeSearcher) Width() int { return 32 }
func (f *fakeSearcher) Metrics() search.Metrics {
	return search.Metrics{Searched: f.searched.Load(), Candidates: 10 * f.searched.Load()}
}

type fakeAllocator struct{ issued atomic.Int64 }

func (f *fakeAllocator) Name() string  { return "tinymt32" }
func (f *fakeAllocator) Issued() int64 { return f.issued.Load() }
func (f *fakeAllocator) Failed() int64 { return 0 }

// TestLogs_Disabled verifies that a nil config starts no loop.
func TestLogs_Disabled(t *testing.T) {
	l := New(context.Background(), nil, nil, Sources{})
	require.Equal(t, time.Duration(0), l.Interval())
	require.NoError(t, l.Close())
}

// TestLogs_LogsDeltas verifies that enabled telemetry logs per-interval component counters.
func TestLogs_LogsDeltas(t *testing.T) {
	out := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(out, nil))

	s := &fakeSearcher{}
	a := &fakeAllocator{}
	s.searched.Store(3)
	a.issued.Store(2)

	l := New(context.Background(), &config.TelemetryCfg{Interval: 10 * time.Millisecond}, logger, Sources{
		Searchers:  []Searcher{s},
		Allocators: []Allocator{a},
	})
	require.Equal(t, 10*time.Millisecond, l.Interval())

	s.searched.Add(4)
	a.issued.Add(5)

	require.Eventually(t, func() bool {
		logs := out.String()
		return strings.Contains(logs, "parameter_search") &&
			strings.Contains(logs, "searched=4") &&
			strings.Contains(logs, "candidates=40") &&
			strings.Contains(logs, "name=tinymt32") &&
			strings.Contains(logs, "issued=5") &&
			strings.Contains(logs, "total=7")
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, l.Close())
}

// TestDeltaSnapshot_Reset verifies that a counter reset yields the current value as delta.
func TestDeltaSnapshot_Reset(t *testing.T) {
	prev := snapshot{issued: []uint64{10}, search: []search.Metrics{{Searched: 8}}}
	cur := snapshot{issued: []uint64{3}, search: []search.Metrics{{Searched: 9}}}

	d := deltaSnapshot(prev, cur)
	require.Equal(t, []uint64{3}, d.issued)
	require.Equal(t, int64(1), d.search[0].Searched)
	require.Equal(t, uint64(4), delta(6, 10))
}
