package core

import (
	"fmt"
	"github.com/Borislavv/go-tinymt/model"
	"math"
)

const (
	sh0of64   = 12
	sh1of64   = 11
	sh8of64   = 8
	mask64    = 0x7fffffffffffffff
	initMul64 = 6364136223846793005
)

// TinyMT64 is the 64-bit TinyMT generator: 127 bits of state, period 2^127-1.
// It is not safe for concurrent use.
type TinyMT64 struct {
	status [2]uint64
	param  model.Parameter
	seeded bool
}

// New64 returns an unseeded generator for p.
func New64(p model.Parameter) (*TinyMT64, error) {
	if p.Width != model.Width64 {
		return nil, fmt.Errorf("%w: want %d-bit parameter, got %d", ErrWidthMismatch, model.Width64, p.Width)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &TinyMT64{param: p}, nil
}

func (t *TinyMT64) Seed(seed uint64) {
	t.SeedWords([]uint64{seed})
}

// SeedWords seeds from an arbitrary number of words. A single word uses the
// scalar expansion, two or more use the array expansion, none means [0].
func (t *TinyMT64) SeedWords(keys []uint64) {
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

func (t *TinyMT64) SeedInt64(v int64) {
	t.Seed(uint64(v))
}

func (t *TinyMT64) SeedString(s string) {
	t.SeedWords(textKeys[uint64](s))
}

func (t *TinyMT64) Seeded() bool { return t.seeded }

func (t *TinyMT64) Uint64() uint64 {
	t.mustBeSeeded()
	t.nextState()
	return t.temper()
}

func (t *TinyMT64) Int64() int64 {
	return int64(t.Uint64())
}

// Uint32 returns the high half of one 64-bit output.
func (t *TinyMT64) Uint32() uint32 {
	return uint32(t.Uint64() >> 32)
}

func (t *TinyMT64) Int32() int32 {
	return int32(t.Uint32())
}

// Float64 returns a value in [0, 1) built from the top 52 tempered bits.
func (t *TinyMT64) Float64() float64 {
	t.mustBeSeeded()
	t.nextState()
	return t.temperDouble()
}

// Float32 returns a value in [0, 1) built from the top 23 bits of one output.
func (t *TinyMT64) Float32() float32 {
	return math.Float32frombits(0x3f800000|uint32(t.Uint64()>>41)) - 1
}

func (t *TinyMT64) Parameter() model.Parameter { return t.param }
func (t *TinyMT64) Characteristic() string     { return t.param.Characteristic }
func (t *TinyMT64) ID() int                    { return t.param.ID }
func (t *TinyMT64) Weight() int                { return t.param.Weight }
func (t *TinyMT64) Delta() int                 { return t.param.Delta }

func (t *TinyMT64) mustBeSeeded() {
	if !t.seeded {
		panic(ErrNotSeeded)
	}
}

func (t *TinyMT64) nextState() {
	t.status[0] &= mask64
	x := t.status[0] ^ t.status[1]
	x ^= x << sh0of64
	x ^= x >> 32
	x ^= x << 32
	x ^= x << sh1of64
	t.status[0] = t.status[1]
	t.status[1] = x
	t.status[0] ^= uint64(t.param.Mat1For(x))
	t.status[1] ^= uint64(t.param.Mat2For(x)) << 32
}

func (t *TinyMT64) temper() uint64 {
	x := t.status[0] + t.status[1]
	x ^= t.status[0] >> sh8of64
	return x ^ t.param.TmatFor(x)
}

func (t *TinyMT64) temperDouble() float64 {
	x := t.status[0] + t.status[1]
	x ^= t.status[0] >> sh8of64
	return math.Float64frombits((x>>12)^t.param.TmatDouble(x)) - 1
}

func (t *TinyMT64) init(seed uint64) {
	t.status = [2]uint64{seed ^ uint64(t.param.Mat1)<<32, uint64(t.param.Mat2) ^ t.param.Tmat}
	for i := uint64(1); i < minLoop; i++ {
		prev := t.status[(i-1)&1]
		t.status[i&1] ^= i + initMul64*(prev^(prev>>62))
	}
	t.certifyPeriod()
}

func (t *TinyMT64) initByArray(keys []uint64) {
	st := [4]uint64{0, uint64(t.param.Mat1), uint64(t.param.Mat2), t.param.Tmat}
	st = expandKeys(st, keys, mix1of64, mix2of64)
	t.status = [2]uint64{st[0] ^ st[1], st[2] ^ st[3]}
	t.certifyPeriod()
}

func (t *TinyMT64) certifyPeriod() {
	if t.status[0]&mask64 == 0 && t.status[1] == 0 {
		t.status = [2]uint64{'T', 'M'}
	}
}

func mix1of64(x uint64) uint64 { return (x ^ (x >> 59)) * 2173292883993 }
func mix2of64(x uint64) uint64 { return (x ^ (x >> 59)) * 58885565329898161 }

// StateBits64 is the 64-bit analogue of StateBits32.
func StateBits64(mat1, mat2 uint32, n int) []byte {
	t := &TinyMT64{
		status: [2]uint64{0x123456789, 0x9abcdef012345},
		param:  model.Parameter{Width: model.Width64, Mat1: mat1, Mat2: mat2},
	}
	bits := make([]byte, n)
	for i := range bits {
		t.nextState()
		bits[i] = byte(t.status[0] & 1)
	}
	return bits
}
