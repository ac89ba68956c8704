package rate

import (
	"context"
	"go.uber.org/ratelimit"
)

// Jitter hands out tickets at a limited rate through a buffered channel,
// so consumers can wait for a ticket and for cancellation in one select.
// The channel is closed once ctx is done.
type Jitter struct {
	ch    chan struct{}
	l     ratelimit.Limiter
	limit int
}

// NewJitter starts issuing limit tickets per second. Up to a tenth of a
// second's worth (at least one) may be buffered.
func NewJitter(ctx context.Context, limit int) *Jitter {
	if limit < 1 {
		limit = 1
	}
	burst := max(limit/10, 1)
	j := &Jitter{
		limit: limit,
		ch:    make(chan struct{}, burst),
		l:     ratelimit.New(limit, ratelimit.WithSlack(burst)),
	}
	go j.provider(ctx)
	return j
}

func (j *Jitter) provider(ctx context.Context) {
	defer close(j.ch)
	for {
		j.l.Take()
		select {
		case <-ctx.Done():
			return
		case j.ch <- struct{}{}:
		}
	}
}

// Take waits for a ticket. It returns false once the jitter is stopped.
func (j *Jitter) Take() bool {
	_, ok := <-j.ch
	return ok
}

func (j *Jitter) Chan() <-chan struct{} {
	return j.ch
}

func (j *Jitter) Limit() int {
	return j.limit
}
