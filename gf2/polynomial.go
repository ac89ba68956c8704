// Package gf2 implements polynomials over GF(2).
//
// A Polynomial is a bit vector: bit i holds the coefficient of x^i. Because
// the field has characteristic 2 there is no carry or borrow, so addition is
// XOR and multiplication is carry-less. Every Polynomial corresponds one to
// one to a non-negative integer (see BigInt), and equality and hashing are
// consistent with that interpretation.
package gf2

import (
	"encoding/binary"
	"errors"
	"fmt"
	"github.com/zeebo/xxh3"
	"math/big"
	"math/bits"
)

var (
	ErrInvalidPolynomial = errors.New("invalid polynomial")
	ErrDivisionByZero    = errors.New("division by the zero polynomial")
	ErrNegativeExponent  = errors.New("negative exponent")
)

// Polynomial is an immutable polynomial over GF(2).
// The zero value is the zero polynomial.
type Polynomial struct {
	// little-endian words, no high zero words
	w []uint64
}

// New parses a string of '0' and '1' characters, most significant first.
func New(bits string) (Polynomial, error) {
	return Parse(bits, 2)
}

// Parse parses s as a non-negative integer in the given base
// and returns the polynomial with the same bit pattern.
func Parse(s string, base int) (Polynomial, error) {
	if base < 2 || base > big.MaxBase {
		return Polynomial{}, fmt.Errorf("%w: unsupported base %d", ErrInvalidPolynomial, base)
	}
	if s == "" || s[0] == '+' || s[0] == '-' {
		return Polynomial{}, fmt.Errorf("%w: %q", ErrInvalidPolynomial, s)
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Polynomial{}, fmt.Errorf("%w: %q is not a base %d number", ErrInvalidPolynomial, s, base)
	}
	return FromBig(v)
}

// MustParse is like Parse but panics on error.
func MustParse(s string, base int) Polynomial {
	p, err := Parse(s, base)
	if err != nil {
		panic(err)
	}
	return p
}

// FromBig returns the polynomial whose bit pattern is v.
func FromBig(v *big.Int) (Polynomial, error) {
	if v == nil || v.Sign() < 0 {
		return Polynomial{}, fmt.Errorf("%w: negative or nil integer", ErrInvalidPolynomial)
	}
	b := v.Bytes()
	w := make([]uint64, (len(b)+7)/8)
	for i := range b {
		w[i/8] |= uint64(b[len(b)-1-i]) << (8 * (i % 8))
	}
	return normalize(w), nil
}

func FromUint64(v uint64) Polynomial {
	return normalize([]uint64{v})
}

// One returns the constant polynomial 1.
func One() Polynomial {
	return FromUint64(1)
}

// Monomial returns x^n. It returns the zero polynomial for negative n.
func Monomial(n int) Polynomial {
	if n < 0 {
		return Polynomial{}
	}
	return One().Shift(n)
}

func normalize(w []uint64) Polynomial {
	n := len(w)
	for n > 0 && w[n-1] == 0 {
		n--
	}
	if n == 0 {
		return Polynomial{}
	}
	return Polynomial{w: w[:n]}
}

func (p Polynomial) IsZero() bool {
	return len(p.w) == 0
}

// Degree returns the index of the highest set coefficient, or -1 for the zero polynomial.
func (p Polynomial) Degree() int {
	return degreeOf(p.w)
}

// Coefficient returns the coefficient of x^i, 0 or 1.
func (p Polynomial) Coefficient(i int) int {
	if i < 0 || i/64 >= len(p.w) {
		return 0
	}
	return int(p.w[i/64]>>(i%64)) & 1
}

// Weight returns the number of non-zero coefficients.
func (p Polynomial) Weight() int {
	n := 0
	for _, x := range p.w {
		n += bits.OnesCount64(x)
	}
	return n
}

func (p Polynomial) Add(q Polynomial) Polynomial {
	a, b := p.w, q.w
	if len(a) < len(b) {
		a, b = b, a
	}
	r := make([]uint64, len(a))
	copy(r, a)
	for i, x := range b {
		r[i] ^= x
	}
	return normalize(r)
}

func (p Polynomial) Mul(q Polynomial) Polynomial {
	if p.IsZero() || q.IsZero() {
		return Polynomial{}
	}
	r := make([]uint64, len(p.w)+len(q.w))
	for i, a := range p.w {
		if a == 0 {
			continue
		}
		for j, b := range q.w {
			hi, lo := clmul(a, b)
			r[i+j] ^= lo
			r[i+j+1] ^= hi
		}
	}
	return normalize(r)
}

// Mod returns the remainder of p divided by m.
func (p Polynomial) Mod(m Polynomial) (Polynomial, error) {
	if m.IsZero() {
		return Polynomial{}, ErrDivisionByZero
	}
	dm := m.Degree()
	if p.Degree() < dm {
		return p, nil
	}
	r := make([]uint64, len(p.w))
	copy(r, p.w)
	for dr := degreeOf(r); dr >= dm; dr = degreeOf(r) {
		xorShifted(r, m.w, dr-dm)
	}
	return normalize(r), nil
}

// Power returns p^n by repeated squaring.
func (p Polynomial) Power(n *big.Int) (Polynomial, error) {
	if n.Sign() < 0 {
		return Polynomial{}, ErrNegativeExponent
	}
	result := One()
	for i := n.BitLen() - 1; i >= 0; i-- {
		result = result.Mul(result)
		if n.Bit(i) == 1 {
			result = result.Mul(p)
		}
	}
	return result, nil
}

// PowerMod returns p^n mod m. Every intermediate product is reduced,
// so the degree of the working value never exceeds 2*deg(m).
func (p Polynomial) PowerMod(n *big.Int, m Polynomial) (Polynomial, error) {
	if n.Sign() < 0 {
		return Polynomial{}, ErrNegativeExponent
	}
	base, err := p.Mod(m)
	if err != nil {
		return Polynomial{}, err
	}
	result, _ := One().Mod(m)
	for i := n.BitLen() - 1; i >= 0; i-- {
		result, _ = result.Mul(result).Mod(m)
		if n.Bit(i) == 1 {
			result, _ = result.Mul(base).Mod(m)
		}
	}
	return result, nil
}

// Shift multiplies p by x^n. A negative n divides by x^-n and drops the remainder.
func (p Polynomial) Shift(n int) Polynomial {
	switch {
	case p.IsZero() || n == 0:
		return p
	case n < 0:
		return p.shiftRight(-n)
	}
	r := make([]uint64, len(p.w)+n/64+1)
	xorShifted(r, p.w, n)
	return normalize(r)
}

func (p Polynomial) shiftRight(n int) Polynomial {
	ws, bs := n/64, uint(n%64)
	if ws >= len(p.w) {
		return Polynomial{}
	}
	r := make([]uint64, len(p.w)-ws)
	for i := range r {
		r[i] = p.w[i+ws] >> bs
		if bs != 0 && i+ws+1 < len(p.w) {
			r[i] |= p.w[i+ws+1] << (64 - bs)
		}
	}
	return normalize(r)
}

// Reciprocal returns x^d * p(1/x): the coefficient of x^i moves to x^(d-i).
// Coefficients above x^d are dropped.
func (p Polynomial) Reciprocal(d int) Polynomial {
	if d < 0 {
		return Polynomial{}
	}
	r := make([]uint64, d/64+1)
	for i := 0; i <= d && i < 64*len(p.w); i++ {
		if p.Coefficient(i) == 1 {
			j := d - i
			r[j/64] |= 1 << (j % 64)
		}
	}
	return normalize(r)
}

func (p Polynomial) Equal(q Polynomial) bool {
	if len(p.w) != len(q.w) {
		return false
	}
	for i := range p.w {
		if p.w[i] != q.w[i] {
			return false
		}
	}
	return true
}

// Hash hashes the big-endian bytes of the integer interpretation,
// i.e. it equals xxh3.Hash(p.BigInt().Bytes()).
func (p Polynomial) Hash() uint64 {
	return xxh3.Hash(p.bytes())
}

func (p Polynomial) BigInt() *big.Int {
	return new(big.Int).SetBytes(p.bytes())
}

// Text renders the bit pattern as a number in the given base.
func (p Polynomial) Text(base int) string {
	return p.BigInt().Text(base)
}

func (p Polynomial) String() string {
	return p.Text(2)
}

func (p Polynomial) bytes() []byte {
	b := make([]byte, 8*len(p.w))
	for i, x := range p.w {
		binary.BigEndian.PutUint64(b[len(b)-8*(i+1):], x)
	}
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}

func degreeOf(w []uint64) int {
	for i := len(w) - 1; i >= 0; i-- {
		if w[i] != 0 {
			return 64*i + bits.Len64(w[i]) - 1
		}
	}
	return -1
}

// xorShifted adds src*x^shift to dst in place.
// Bits that would land beyond len(dst) must be zero.
func xorShifted(dst, src []uint64, shift int) {
	ws, bs := shift/64, uint(shift%64)
	for i, x := range src {
		if i+ws < len(dst) {
			dst[i+ws] ^= x << bs
		}
		if bs != 0 && i+ws+1 < len(dst) {
			dst[i+ws+1] ^= x >> (64 - bs)
		}
	}
}

// clmul is the carry-less product of a and b.
func clmul(a, b uint64) (hi, lo uint64) {
	for b != 0 {
		i := bits.TrailingZeros64(b)
		lo ^= a << i
		if i > 0 {
			hi ^= a >> (64 - i)
		}
		b &= b - 1
	}
	return hi, lo
}
