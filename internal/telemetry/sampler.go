package telemetry

import "github.com/Borislavv/go-tinymt/internal/search"

type sampler struct {
	searchers   []Searcher
	allocators  []Allocator
	prefetchers []Prefetcher
}

func newSampler(s []Searcher, a []Allocator, p []Prefetcher) sampler {
	return sampler{searchers: s, allocators: a, prefetchers: p}
}

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	search   []search.Metrics
	issued   []uint64
	failed   []uint64
	warmed   []uint64
	unwarmed []uint64
}

func (s sampler) snapshot() snapshot {
	snap := snapshot{
		search:   make([]search.Metrics, len(s.searchers)),
		issued:   make([]uint64, len(s.allocators)),
		failed:   make([]uint64, len(s.allocators)),
		warmed:   make([]uint64, len(s.prefetchers)),
		unwarmed: make([]uint64, len(s.prefetchers)),
	}
	for i, src := range s.searchers {
		snap.search[i] = src.Metrics()
	}
	for i, src := range s.allocators {
		snap.issued[i] = uint64(max(src.Issued(), 0))
		snap.failed[i] = uint64(max(src.Failed(), 0))
	}
	for i, src := range s.prefetchers {
		warmed, failed := src.Metrics()
		snap.warmed[i] = uint64(max(warmed, 0))
		snap.unwarmed[i] = uint64(max(failed, 0))
	}
	return snap
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur snapshot) snapshot {
	d := snapshot{
		search:   make([]search.Metrics, len(cur.search)),
		issued:   deltas(prev.issued, cur.issued),
		failed:   deltas(prev.failed, cur.failed),
		warmed:   deltas(prev.warmed, cur.warmed),
		unwarmed: deltas(prev.unwarmed, cur.unwarmed),
	}
	for i, c := range cur.search {
		var p search.Metrics
		if i < len(prev.search) {
			p = prev.search[i]
		}
		d.search[i] = search.Metrics{
			Searched:   int64(delta(uint64(max(p.Searched, 0)), uint64(max(c.Searched, 0)))),
			Candidates: int64(delta(uint64(max(p.Candidates, 0)), uint64(max(c.Candidates, 0)))),
			MemoHits:   int64(delta(uint64(max(p.MemoHits, 0)), uint64(max(c.MemoHits, 0)))),
			TableHits:  int64(delta(uint64(max(p.TableHits, 0)), uint64(max(c.TableHits, 0)))),
		}
	}
	return d
}

func deltas(prev, cur []uint64) []uint64 {
	out := make([]uint64, len(cur))
	for i := range cur {
		var p uint64
		if i < len(prev) {
			p = prev[i]
		}
		out[i] = delta(p, cur[i])
	}
	return out
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}
