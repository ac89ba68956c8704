package search

import (
	"fmt"
	"github.com/Borislavv/go-tinymt/gf2"
	"github.com/Borislavv/go-tinymt/internal/core"
	"github.com/Borislavv/go-tinymt/model"
	"math/big"
	"slices"
)

const (
	// StateBits is the dimension of the linear state of both generator widths.
	StateBits = 127

	// twice the state dimension is enough for Berlekamp-Massey to recover the recurrence
	sequenceLen = 2 * StateBits
)

// period is 2^127. Since 2^127-1 is prime, a degree-127 polynomial is
// primitive iff x^(2^127) = x modulo it.
var period = new(big.Int).Lsh(big.NewInt(1), StateBits)

// Characteristic computes the characteristic polynomial of the state
// transition defined by (mat1, mat2) for the given width.
func Characteristic(width int, mat1, mat2 uint32) (gf2.Polynomial, error) {
	var bits []byte
	switch width {
	case model.Width32:
		bits = core.StateBits32(mat1, mat2, sequenceLen)
	case model.Width64:
		bits = core.StateBits64(mat1, mat2, sequenceLen)
	default:
		return gf2.Polynomial{}, fmt.Errorf("%w: unsupported width %d", model.ErrInvalidParameter, width)
	}
	conn, length := berlekampMassey(bits)
	return conn.Reciprocal(length), nil
}

// Primitive reports whether p is a primitive polynomial of degree 127.
func Primitive(p gf2.Polynomial) bool {
	if p.Degree() != StateBits {
		return false
	}
	x := gf2.Monomial(1)
	r, err := x.PowerMod(period, p)
	if err != nil {
		return false
	}
	return r.Equal(x)
}

// berlekampMassey returns the connection polynomial of the shortest linear
// recurrence generating bits, together with its length.
func berlekampMassey(bits []byte) (gf2.Polynomial, int) {
	n := len(bits)
	c := make([]byte, n+1)
	b := make([]byte, n+1)
	c[0], b[0] = 1, 1

	length, m := 0, 1
	for i := 0; i < n; i++ {
		d := bits[i]
		for j := 1; j <= length; j++ {
			d ^= c[j] & bits[i-j]
		}
		if d == 0 {
			m++
			continue
		}
		if 2*length <= i {
			prev := slices.Clone(c)
			for j := 0; j+m <= n; j++ {
				c[j+m] ^= b[j]
			}
			length = i + 1 - length
			b = prev
			m = 1
		} else {
			for j := 0; j+m <= n; j++ {
				c[j+m] ^= b[j]
			}
			m++
		}
	}

	v := new(big.Int)
	for j := 0; j <= length; j++ {
		if c[j] == 1 {
			v.SetBit(v, j, 1)
		}
	}
	p, _ := gf2.FromBig(v)
	return p, length
}
