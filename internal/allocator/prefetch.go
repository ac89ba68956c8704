package allocator

import (
	"context"
	"github.com/Borislavv/go-tinymt/config"
	"github.com/Borislavv/go-tinymt/internal/shared/rate"
	"log/slog"
	"sync/atomic"
)

// Prefetcher keeps the records of the next Ahead acquisitions warm, so a
// goroutine binding a generator does not wait for a parameter search.
type Prefetcher struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.PrefetchCfg
	logger *slog.Logger

	issued func() int64
	warm   func(n int64) error

	next   int64
	warmed atomic.Int64
	failed atomic.Int64
	done   chan struct{}
}

// NewPrefetcher starts warming keys issued()..issued()+Ahead-1 at most
// cfg.Rate keys per second until ctx is done or Close is called.
func NewPrefetcher(
	ctx context.Context,
	cfg *config.PrefetchCfg,
	logger *slog.Logger,
	issued func() int64,
	warm func(n int64) error,
) *Prefetcher {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	return (&Prefetcher{
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger,
		issued: issued,
		warm:   warm,
		done:   make(chan struct{}),
	}).run()
}

func (p *Prefetcher) run() *Prefetcher {
	go p.loop()
	return p
}

func (p *Prefetcher) loop() {
	defer close(p.done)

	jitter := rate.NewJitter(p.ctx, p.cfg.Rate)
	for {
		select {
		case <-p.ctx.Done():
			return
		case _, ok := <-jitter.Chan():
			if !ok {
				return
			}
			p.step()
		}
	}
}

// step warms at most one key.
func (p *Prefetcher) step() {
	issued := p.issued()
	if p.next < issued {
		p.next = issued
	}
	if p.next >= issued+int64(p.cfg.Ahead) {
		return
	}
	if err := p.warm(p.next); err != nil {
		p.failed.Add(1)
		p.logger.Warn("prefetch failed", "n", p.next, "err", err)
	} else {
		p.warmed.Add(1)
	}
	p.next++
}

// Metrics returns the number of warmed and failed keys.
func (p *Prefetcher) Metrics() (warmed, failed int64) {
	return p.warmed.Load(), p.failed.Load()
}

// Close stops the prefetcher and waits for the loop to exit.
func (p *Prefetcher) Close() error {
	p.cancel()
	<-p.done
	return nil
}
