package core

import (
	"fmt"
	"github.com/Borislavv/go-tinymt/model"
	"math"
)

const (
	sh0of32   = 1
	sh1of32   = 10
	sh8of32   = 8
	mask32    = 0x7fffffff
	initMul32 = 1812433253
)

// TinyMT32 is the 32-bit TinyMT generator: 127 bits of state, period 2^127-1.
// It is not safe for concurrent use.
type TinyMT32 struct {
	status [4]uint32
	param  model.Parameter
	seeded bool
}

// New32 returns an unseeded generator for p.
func New32(p model.Parameter) (*TinyMT32, error) {
	if p.Width != model.Width32 {
		return nil, fmt.Errorf("%w: want %d-bit parameter, got %d", ErrWidthMismatch, model.Width32, p.Width)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &TinyMT32{param: p}, nil
}

func (t *TinyMT32) Seed(seed uint32) {
	t.SeedWords([]uint32{seed})
}

// SeedWords seeds from an arbitrary number of words. A single word uses the
// scalar expansion, two or more use the array expansion, none means [0].
func (t *TinyMT32) SeedWords(keys []uint32) {
	switch len(keys) {
	case 0:
		t.init(0)
	case 1:
		t.init(keys[0])
	default:
		t.initByArray(keys)
	}
	t.seeded = true
}

// SeedInt64 seeds with a scalar when v fits 32 bits and with [lo, hi] otherwise.
func (t *TinyMT32) SeedInt64(v int64) {
	if v >= math.MinInt32 && v <= math.MaxUint32 {
		t.Seed(uint32(v))
		return
	}
	t.SeedWords([]uint32{uint32(v), uint32(uint64(v) >> 32)})
}

func (t *TinyMT32) SeedString(s string) {
	t.SeedWords(textKeys[uint32](s))
}

func (t *TinyMT32) Seeded() bool { return t.seeded }

func (t *TinyMT32) Uint32() uint32 {
	t.mustBeSeeded()
	t.nextState()
	return t.temper()
}

func (t *TinyMT32) Int32() int32 {
	return int32(t.Uint32())
}

// Float32 returns a value in [0, 1) built from the top 23 tempered bits.
func (t *TinyMT32) Float32() float32 {
	t.mustBeSeeded()
	t.nextState()
	return t.temperFloat()
}

// Uint64 concatenates two outputs, the first one in the high half.
func (t *TinyMT32) Uint64() uint64 {
	hi := uint64(t.Uint32())
	return hi<<32 | uint64(t.Uint32())
}

func (t *TinyMT32) Int64() int64 {
	return int64(t.Uint64())
}

func (t *TinyMT32) Float64() float64 {
	return math.Float64frombits(0x3ff0000000000000|t.Uint64()>>12) - 1
}

func (t *TinyMT32) Parameter() model.Parameter { return t.param }
func (t *TinyMT32) Characteristic() string     { return t.param.Characteristic }
func (t *TinyMT32) ID() int                    { return t.param.ID }
func (t *TinyMT32) Weight() int                { return t.param.Weight }
func (t *TinyMT32) Delta() int                 { return t.param.Delta }

func (t *TinyMT32) mustBeSeeded() {
	if !t.seeded {
		panic(ErrNotSeeded)
	}
}

func (t *TinyMT32) nextState() {
	y := t.status[3]
	x := (t.status[0] & mask32) ^ t.status[1] ^ t.status[2]
	x ^= x << sh0of32
	y ^= (y >> sh0of32) ^ x
	t.status[0] = t.status[1]
	t.status[1] = t.status[2]
	t.status[2] = x ^ (y << sh1of32)
	t.status[3] = y
	t.status[1] ^= t.param.Mat1For(uint64(y))
	t.status[2] ^= t.param.Mat2For(uint64(y))
}

func (t *TinyMT32) temper() uint32 {
	t0 := t.status[3]
	t1 := t.status[0] + (t.status[2] >> sh8of32)
	t0 ^= t1
	return t0 ^ uint32(t.param.TmatFor(uint64(t1)))
}

func (t *TinyMT32) temperFloat() float32 {
	t0 := t.status[3]
	t1 := t.status[0] + (t.status[2] >> sh8of32)
	t0 ^= t1
	return math.Float32frombits((t0>>9)^t.param.TmatFloat(uint64(t1))) - 1
}

func (t *TinyMT32) init(seed uint32) {
	t.status = [4]uint32{seed, t.param.Mat1, t.param.Mat2, uint32(t.param.Tmat)}
	for i := uint32(1); i < minLoop; i++ {
		prev := t.status[(i-1)&3]
		t.status[i&3] ^= i + initMul32*(prev^(prev>>30))
	}
	t.certifyPeriod()
	for i := 0; i < preLoop; i++ {
		t.nextState()
	}
}

func (t *TinyMT32) initByArray(keys []uint32) {
	st := [4]uint32{0, t.param.Mat1, t.param.Mat2, uint32(t.param.Tmat)}
	t.status = expandKeys(st, keys, mix1of32, mix2of32)
	t.certifyPeriod()
	for i := 0; i < preLoop; i++ {
		t.nextState()
	}
}

// certifyPeriod replaces the all-zero state, the only state off the maximal cycle.
func (t *TinyMT32) certifyPeriod() {
	if t.status[0]&mask32 == 0 && t.status[1] == 0 && t.status[2] == 0 && t.status[3] == 0 {
		t.status = [4]uint32{'T', 'I', 'N', 'Y'}
	}
}

func mix1of32(x uint32) uint32 { return (x ^ (x >> 27)) * 1664525 }
func mix2of32(x uint32) uint32 { return (x ^ (x >> 27)) * 1566083941 }

// StateBits32 runs the bare 32-bit recurrence for (mat1, mat2) from a fixed
// non-zero state and returns the low bit of the first status word after each
// of n transitions. The sequence determines the characteristic polynomial.
func StateBits32(mat1, mat2 uint32, n int) []byte {
	t := &TinyMT32{
		status: [4]uint32{0x12345678, 0x9abcdef0, 1, 2},
		param:  model.Parameter{Width: model.Width32, Mat1: mat1, Mat2: mat2},
	}
	bits := make([]byte, n)
	for i := range bits {
		t.nextState()
		bits[i] = byte(t.status[0] & 1)
	}
	return bits
}
