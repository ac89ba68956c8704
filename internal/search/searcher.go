package search

import (
	"errors"
	"fmt"
	"github.com/Borislavv/go-tinymt/config"
	"github.com/Borislavv/go-tinymt/internal/shared/random"
	"github.com/Borislavv/go-tinymt/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"log/slog"
	"math/bits"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrInvalidRange = errors.New("invalid parameter range")
	ErrExhausted    = errors.New("parameter enumeration exhausted")
	ErrNoCandidate  = errors.New("no acceptable candidate")
)

type stream uint64

const (
	positional stream = iota
	threadLocal
)

// mat1 salts keep the two streams apart.
const (
	positionalSalt  uint32 = 0x9e3779b9
	threadLocalSalt uint32 = 0x7f4a7c15
)

// Searcher enumerates the parameter records of one width in a fixed global
// order. Position 0 holds the default record; every other record is a pure
// function of (width, stream, key), so results never depend on call order.
// It is safe for concurrent use.
type Searcher struct {
	width  int
	cfg    *config.SearchCfg
	logger *slog.Logger

	def   model.Parameter
	table *Table

	memo     [2]sync.Map // stream -> key -> model.Parameter
	inflight singleflight.Group
	counters *counters
}

// New builds a searcher for width. A table configured in cfg is loaded
// and, if requested, verified before New returns.
func New(width int, cfg *config.SearchCfg, logger *slog.Logger) (*Searcher, error) {
	def, ok := DefaultFor(width)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported width %d", model.ErrInvalidParameter, width)
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Searcher{
		width:    width,
		cfg:      cfg,
		logger:   logger,
		def:      def,
		counters: newCounters(),
	}

	if cfg.TablePath != "" {
		table, err := LoadTable(cfg.TablePath, width)
		if err != nil {
			return nil, err
		}
		if err = s.UseTable(table); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// UseTable serves positions 1..table.Len() from table rows ahead of search.
func (s *Searcher) UseTable(table *Table) error {
	if table.Width() != s.width {
		return fmt.Errorf("%w: %d-bit table for %d-bit searcher", ErrTableMismatch, table.Width(), s.width)
	}
	if s.cfg.VerifyTable {
		if err := table.Verify(); err != nil {
			return err
		}
	}
	if limit := s.cfg.MaxRecords - 1; table.Len() > limit {
		s.logger.Warn("parameter table exceeds the enumeration bound, extra rows are ignored",
			"width", s.width, "rows", table.Len(), "bound", limit)
	}
	s.table = table
	s.logger.Info("parameter table loaded", "width", s.width, "rows", table.Len())
	return nil
}

func (s *Searcher) Width() int { return s.width }

// Len is the number of positions in the enumeration.
func (s *Searcher) Len() int { return s.cfg.MaxRecords }

func (s *Searcher) Default() model.Parameter { return s.def }

func (s *Searcher) Metrics() Metrics { return s.counters.snapshot() }

// Parameters returns the first count records.
func (s *Searcher) Parameters(count int) ([]model.Parameter, error) {
	return s.ParametersFrom(0, count)
}

// ParametersFrom returns up to count records starting at position start,
// in position order. Past the end of the enumeration it returns fewer
// records, possibly none.
func (s *Searcher) ParametersFrom(start, count int) ([]model.Parameter, error) {
	if start < 0 || count < 0 {
		return nil, fmt.Errorf("%w: start %d, count %d", ErrInvalidRange, start, count)
	}
	end := s.cfg.MaxRecords
	if count < end-start {
		end = start + count
	}
	if start >= end {
		return []model.Parameter{}, nil
	}

	out := make([]model.Parameter, end-start)
	g := new(errgroup.Group)
	if s.cfg.Workers > 0 {
		g.SetLimit(s.cfg.Workers)
	}
	for i := range out {
		g.Go(func() error {
			p, err := s.At(start + i)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// At returns the record at position pos.
func (s *Searcher) At(pos int) (model.Parameter, error) {
	switch {
	case pos < 0:
		return model.Parameter{}, fmt.Errorf("%w: position %d", ErrInvalidRange, pos)
	case pos >= s.cfg.MaxRecords:
		return model.Parameter{}, fmt.Errorf("%w: position %d of %d", ErrExhausted, pos, s.cfg.MaxRecords)
	case pos == 0:
		return s.def, nil
	}
	if s.table != nil && pos <= s.table.Len() {
		s.counters.tableHits.Add(1)
		return s.table.Row(pos - 1), nil
	}
	return s.lookup(positional, uint64(pos))
}

// ThreadLocal maps any integer key to a record of a stream separate from
// the positional one. Negative keys fold onto their absolute value, so n
// and -n share a record; math.MinInt64 maps to key 2^63. Keys with
// distinct absolute values below 2^31 get distinct records.
func (s *Searcher) ThreadLocal(n int64) (model.Parameter, error) {
	return s.lookup(threadLocal, ThreadLocalKey(n))
}

// ThreadLocalKey is the key ThreadLocal derives its record from.
func ThreadLocalKey(n int64) uint64 {
	if n < 0 {
		return uint64(-(n + 1)) + 1
	}
	return uint64(n)
}

func (s *Searcher) lookup(st stream, key uint64) (model.Parameter, error) {
	if v, ok := s.memo[st].Load(key); ok {
		s.counters.memoHits.Add(1)
		return v.(model.Parameter), nil
	}

	flight := strconv.FormatUint(uint64(st), 10) + ":" + strconv.FormatUint(key, 10)
	v, err, _ := s.inflight.Do(flight, func() (any, error) {
		if v, ok := s.memo[st].Load(key); ok {
			return v, nil
		}
		p, err := s.derive(st, key)
		if err != nil {
			return nil, err
		}
		s.memo[st].Store(key, p)
		return p, nil
	})
	if err != nil {
		return model.Parameter{}, err
	}
	return v.(model.Parameter), nil
}

// derive searches the record for key. mat1 is an injective mix of the key,
// mat2 walks a permutation of all 32-bit words from a key-dependent offset.
// The first candidate whose characteristic polynomial has degree 127,
// enough weight and is primitive wins. tmat is drawn from the same stream
// until half of its bits are set; delta counts the rejected draws.
func (s *Searcher) derive(st stream, key uint64) (model.Parameter, error) {
	salt := positionalSalt
	if st == threadLocal {
		salt = threadLocalSalt
	}
	mat1 := s.mat1For(key, salt)
	rng := random.NewSplitMix(random.Mix64(key ^ random.Mix64(uint64(s.width)<<8|uint64(st))))
	base := uint32(rng.Next())

	limit := s.cfg.MaxCandidates
	if limit == 0 || limit > 1<<32 {
		limit = 1 << 32
	}
	for k := uint64(0); k < limit; k++ {
		mat2 := random.Mix32(base + uint32(k))
		char, err := Characteristic(s.width, mat1, mat2)
		if err != nil {
			return model.Parameter{}, err
		}
		s.counters.candidates.Add(1)

		if char.Degree() != StateBits || char.Weight() < s.cfg.MinWeight || !Primitive(char) {
			continue
		}

		tmat, delta := s.drawTmat(rng)
		p := model.Parameter{
			Characteristic: model.FormatCharacteristic(char),
			Width:          s.width,
			Mat1:           mat1,
			Mat2:           mat2,
			Tmat:           tmat,
			Weight:         char.Weight(),
			Delta:          delta,
		}
		if st == positional {
			p.ID = int(key)
		}
		s.counters.searched.Add(1)
		s.logger.Debug("parameter found", "width", s.width, "stream", st.String(), "key", key,
			"candidates", k+1, "characteristic", p.Characteristic, "weight", p.Weight, "delta", p.Delta)
		return p, nil
	}

	return model.Parameter{}, fmt.Errorf("%w: width %d, %s key %d after %d candidates",
		ErrNoCandidate, s.width, st.String(), key, limit)
}

// mat1For maps keys below 2^31 injectively. The 64-bit recurrence is
// reducible unless bits 0 and 20 of mat1 agree, so there bit 20 mirrors
// bit 0 and the remaining 31 bits carry the key.
func (s *Searcher) mat1For(key uint64, salt uint32) uint32 {
	folded := uint32(key) ^ uint32(key>>32) ^ salt
	if s.width == model.Width32 {
		return random.Mix32(folded)
	}
	h := random.Mix31(folded)
	return h&(1<<20-1) | (h&1)<<20 | (h>>20)<<21
}

func (s *Searcher) drawTmat(rng *random.SplitMix) (uint64, int) {
	for delta := 0; ; delta++ {
		t := rng.Next()
		if s.width == model.Width32 {
			t &= 0xffffffff
		}
		if bits.OnesCount64(t) >= s.width/2 {
			return t, delta
		}
	}
}

func (st stream) String() string {
	if st == threadLocal {
		return "thread-local"
	}
	return "positional"
}

// Lookup finds a known record by characteristic: the default or a table row.
// Searched records are not indexed.
func (s *Searcher) Lookup(characteristic string) (model.Parameter, bool) {
	if strings.EqualFold(strings.TrimLeft(characteristic, "0"), strings.TrimLeft(s.def.Characteristic, "0")) {
		return s.def, true
	}
	if s.table == nil {
		return model.Parameter{}, false
	}
	return s.table.Lookup(characteristic)
}
