package search

import "sync/atomic"

type counters struct {
	searched   atomic.Int64
	candidates atomic.Int64
	memoHits   atomic.Int64
	tableHits  atomic.Int64
}

func newCounters() *counters {
	return &counters{}
}

// Metrics is a point-in-time copy of the search counters.
type Metrics struct {
	// Searched counts records derived by search.
	Searched int64
	// Candidates counts characteristic polynomials computed.
	Candidates int64
	MemoHits   int64
	TableHits  int64
}

func (c *counters) snapshot() Metrics {
	return Metrics{
		Searched:   c.searched.Load(),
		Candidates: c.candidates.Load(),
		MemoHits:   c.memoHits.Load(),
		TableHits:  c.tableHits.Load(),
	}
}
