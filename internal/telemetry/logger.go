package telemetry

import (
	"context"
	"github.com/Borislavv/go-tinymt/config"
	"github.com/Borislavv/go-tinymt/internal/search"
	"log/slog"
	"time"
)

type Logger interface {
	Interval() time.Duration
	Close() error
}

type Searcher interface {
	Width() int
	Metrics() search.Metrics
}

type Allocator interface {
	Name() string
	Issued() int64
	Failed() int64
}

type Prefetcher interface {
	Metrics() (warmed, failed int64)
}

// Sources lists the components whose counters are logged.
type Sources struct {
	Searchers   []Searcher
	Allocators  []Allocator
	Prefetchers []Prefetcher
}

type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.TelemetryCfg
	logger   *slog.Logger
	sources  Sources
	interval time.Duration
	done     chan struct{}
}

func New(ctx context.Context, cfg *config.TelemetryCfg, logger *slog.Logger, sources Sources) *Logs {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	l := &Logs{
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		logger:  logger,
		sources: sources,
		done:    make(chan struct{}),
	}
	if cfg.Enabled() {
		l.interval = cfg.Interval
	}
	return l.run()
}

func (l *Logs) Interval() time.Duration {
	return l.interval
}

func (l *Logs) Close() error {
	l.cancel()
	<-l.done
	return nil
}

func (l *Logs) run() *Logs {
	if l.cfg.Enabled() && l.interval > 0 {
		s := newSampler(l.sources.Searchers, l.sources.Allocators, l.sources.Prefetchers)
		go l.loop(s, s.snapshot())
	} else {
		close(l.done)
	}
	return l
}

// loop logs deltas against prev, the snapshot taken when the loop was started.
func (l *Logs) loop(s sampler, prev snapshot) {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return

		case <-ticker.C:
			cur := s.snapshot()
			d := deltaSnapshot(prev, cur)
			prev = cur

			common := []any{"interval", l.interval.String()}

			for i, src := range l.sources.Searchers {
				m := d.search[i]
				l.logger.Info("parameter_search",
					append(common,
						"width", src.Width(),
						"searched", m.Searched,
						"candidates", m.Candidates,
						"memo_hits", m.MemoHits,
						"table_hits", m.TableHits,
					)...,
				)
			}

			for i, src := range l.sources.Allocators {
				l.logger.Info("allocator",
					append(common,
						"name", src.Name(),
						"issued", int64(d.issued[i]),
						"failed", int64(d.failed[i]),
						"total", int64(cur.issued[i]),
					)...,
				)
			}

			for i := range l.sources.Prefetchers {
				if d.warmed[i] == 0 && d.unwarmed[i] == 0 {
					continue
				}
				l.logger.Info("prefetcher",
					append(common,
						"warmed", int64(d.warmed[i]),
						"failed", int64(d.unwarmed[i]),
					)...,
				)
			}
		}
	}
}
