package tinymt

import (
	"context"
	"fmt"
	"github.com/Borislavv/go-tinymt/config"
	"github.com/Borislavv/go-tinymt/internal/allocator"
	"github.com/Borislavv/go-tinymt/internal/core"
	"github.com/Borislavv/go-tinymt/internal/search"
	"github.com/Borislavv/go-tinymt/internal/shared/random"
	"github.com/Borislavv/go-tinymt/internal/telemetry"
	"github.com/Borislavv/go-tinymt/model"
	"io"
	"log/slog"
)

// Family is a configured TinyMT family: a parameter searcher and a
// per-goroutine allocator for each width, plus optional prefetching and
// telemetry.
type Family struct {
	cfg      *config.Config
	logger   *slog.Logger
	search32 *search.Searcher
	search64 *search.Searcher
	alloc32  *allocator.Allocator[*TinyMT32]
	alloc64  *allocator.Allocator[*TinyMT64]

	prefetchers []*allocator.Prefetcher
	telemetry   telemetry.Logger
	cls         context.CancelFunc
}

var _ io.Closer = (*Family)(nil)

// New builds a family from cfg and starts its background components.
// A nil cfg means the defaults. Close stops them.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Family, error) {
	f, err := newFamily(cfg, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	f.cls = cancel

	sources := telemetry.Sources{
		Searchers:  []telemetry.Searcher{f.search32, f.search64},
		Allocators: []telemetry.Allocator{f.alloc32, f.alloc64},
	}
	if prefetch := f.cfg.Allocator.Prefetch; prefetch.Enabled() {
		p32 := allocator.NewPrefetcher(ctx, prefetch, f.logger, f.alloc32.Issued, func(n int64) error {
			_, err := f.search32.ThreadLocal(n)
			return err
		})
		p64 := allocator.NewPrefetcher(ctx, prefetch, f.logger, f.alloc64.Issued, func(n int64) error {
			_, err := f.search64.ThreadLocal(n)
			return err
		})
		f.prefetchers = append(f.prefetchers, p32, p64)
		sources.Prefetchers = []telemetry.Prefetcher{p32, p64}
	}
	f.telemetry = telemetry.New(ctx, f.cfg.Telemetry, f.logger, sources)

	f.logger.Info("tinymt family started",
		"max_records_32", f.search32.Len(),
		"max_records_64", f.search64.Len(),
		"prefetch", f.cfg.Allocator.Prefetch.Enabled(),
		"telemetry", f.cfg.Telemetry.Enabled(),
	)
	return f, nil
}

// newFamily wires searchers and allocators without starting goroutines.
func newFamily(cfg *config.Config, logger *slog.Logger) (*Family, error) {
	if cfg == nil {
		cfg = config.Default()
	} else {
		cfg.AdjustConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s32, err := search.New(model.Width32, cfg.Search32, logger)
	if err != nil {
		return nil, fmt.Errorf("32-bit searcher: %w", err)
	}
	s64, err := search.New(model.Width64, cfg.Search64, logger)
	if err != nil {
		return nil, fmt.Errorf("64-bit searcher: %w", err)
	}

	f := &Family{cfg: cfg, logger: logger, search32: s32, search64: s64, cls: func() {}}
	f.alloc32 = allocator.New("tinymt32", func(n int64) (*TinyMT32, error) {
		return f.ThreadLocal32(n, uint32(f.allocatorSeed()))
	}, logger)
	f.alloc64 = allocator.New("tinymt64", func(n int64) (*TinyMT64, error) {
		return f.ThreadLocal64(n, f.allocatorSeed())
	}, logger)
	return f, nil
}

func (f *Family) allocatorSeed() uint64 {
	if seed := f.cfg.Allocator.Seed; seed != nil {
		return *seed
	}
	return random.TimeSeed()
}

func (f *Family) Close() error {
	f.cls()
	for _, p := range f.prefetchers {
		_ = p.Close()
	}
	if f.telemetry != nil {
		return f.telemetry.Close()
	}
	return nil
}

func (f *Family) Parameters32(count int) ([]Parameter, error) {
	return f.search32.Parameters(count)
}

func (f *Family) Parameters64(count int) ([]Parameter, error) {
	return f.search64.Parameters(count)
}

// ParametersFrom32 returns up to count records from position start on;
// fewer, possibly none, once the enumeration is exhausted.
func (f *Family) ParametersFrom32(start, count int) ([]Parameter, error) {
	return f.search32.ParametersFrom(start, count)
}

func (f *Family) ParametersFrom64(start, count int) ([]Parameter, error) {
	return f.search64.ParametersFrom(start, count)
}

// ThreadLocalParameter32 maps n to a record of the thread-local stream.
// n and -n map to the same record.
func (f *Family) ThreadLocalParameter32(n int64) (Parameter, error) {
	return f.search32.ThreadLocal(n)
}

func (f *Family) ThreadLocalParameter64(n int64) (Parameter, error) {
	return f.search64.ThreadLocal(n)
}

func (f *Family) ThreadLocal32(n int64, seed uint32) (*TinyMT32, error) {
	p, err := f.search32.ThreadLocal(n)
	if err != nil {
		return nil, err
	}
	g, err := core.New32(p)
	if err != nil {
		return nil, err
	}
	g.Seed(seed)
	return g, nil
}

func (f *Family) ThreadLocal64(n int64, seed uint64) (*TinyMT64, error) {
	p, err := f.search64.ThreadLocal(n)
	if err != nil {
		return nil, err
	}
	g, err := core.New64(p)
	if err != nil {
		return nil, err
	}
	g.Seed(seed)
	return g, nil
}

// Array32 returns seeded generators for positions 0..count-1, fewer when
// the enumeration is exhausted. Their records are pairwise distinct.
func (f *Family) Array32(count int, seed uint32) ([]*TinyMT32, error) {
	params, err := f.search32.Parameters(count)
	if err != nil {
		return nil, err
	}
	out := make([]*TinyMT32, len(params))
	for i, p := range params {
		if out[i], err = core.New32(p); err != nil {
			return nil, err
		}
		out[i].Seed(seed)
	}
	return out, nil
}

func (f *Family) Array64(count int, seed uint64) ([]*TinyMT64, error) {
	params, err := f.search64.Parameters(count)
	if err != nil {
		return nil, err
	}
	out := make([]*TinyMT64, len(params))
	for i, p := range params {
		if out[i], err = core.New64(p); err != nil {
			return nil, err
		}
		out[i].Seed(seed)
	}
	return out, nil
}

// Bind32 returns ctx carrying this family's 32-bit generator for the
// current unit of work, acquiring one on first use.
func (f *Family) Bind32(ctx context.Context) (context.Context, *TinyMT32, error) {
	return f.alloc32.Bind(ctx)
}

func (f *Family) Bind64(ctx context.Context) (context.Context, *TinyMT64, error) {
	return f.alloc64.Bind(ctx)
}

func (f *Family) Current32(ctx context.Context) (*TinyMT32, bool) {
	return f.alloc32.From(ctx)
}

func (f *Family) Current64(ctx context.Context) (*TinyMT64, bool) {
	return f.alloc64.From(ctx)
}

// Lookup32 finds a known 32-bit record by characteristic.
func (f *Family) Lookup32(characteristic string) (Parameter, bool) {
	return f.search32.Lookup(characteristic)
}

func (f *Family) Lookup64(characteristic string) (Parameter, bool) {
	return f.search64.Lookup(characteristic)
}
