package search

import (
	"github.com/Borislavv/go-tinymt/gf2"
	"github.com/Borislavv/go-tinymt/model"
	"github.com/stretchr/testify/require"
	"testing"
)

var publishedRows = []string{
	"d8524022ed8dff4a8dcc50c798faba43,32,0,8f7011ee,fc78ff1f,3793fdff,63,0",
	"8ee476cb10b7c7e20dd10725924e9877,32,0,877810ef,fc38ff0f,c7fb7fff,63,0",
	"8331a00cb24d95a8e116e35435103213,32,0,837c106f,fc18ff07,eeb9bdff,51,0",
	"bc8ca81cb620b9610108b0fa2036f9ef,32,0,718e0e31,fb88fee3,11dbffff,57,0",
	"97d57e00bc69e5ca2b9a5041d979eaff,32,0,50af0a15,fa80fea1,9ddc99ff,69,1",
	"945e0ad4a30ec19432dfa9d5959e5d5d,64,0,fa051f40,ffd0fff4,58d02ffeffbfffbc,65,0",
	"c8a646f09f334156a307970051b83461,64,0,daa51b54,fed47fb5,a853e7ffeffefffe,55,0",
	"c6d63a1d259b079d5c056853ebd36cb7,64,0,c0bf1817,fe047f81,7fc75ff6ffffffbc,67,0",
	"9f0678a5b7b90af5e7cb430d1e7c272b,64,0,c03f1807,fe00ff80,14727d7fff7f7ffe,69,0",
	"c488d75651a5baac842c1dae4f85e6f7,64,0,443b0887,fa247e89,f0d0e77bef7fdffa,65,0",
}

func mustLine(t *testing.T, line string) model.Parameter {
	t.Helper()
	p, err := model.ParseLine(line)
	require.NoError(t, err)
	return p
}

// TestCharacteristic_PublishedRows verifies the characteristic and weight of published parameter sets.
func TestCharacteristic_PublishedRows(t *testing.T) {
	for _, line := range publishedRows {
		p := mustLine(t, line)
		t.Run(p.Characteristic, func(t *testing.T) {
			char, err := Characteristic(p.Width, p.Mat1, p.Mat2)
			require.NoError(t, err)
			require.Equal(t, p.Characteristic, model.FormatCharacteristic(char))
			require.Equal(t, p.Weight, char.Weight())
			require.Equal(t, StateBits, char.Degree())
			require.True(t, Primitive(char))
			require.NoError(t, Verify(p))
		})
	}
}

// TestCharacteristic_Defaults verifies the position-0 records against their tuning words.
func TestCharacteristic_Defaults(t *testing.T) {
	require.NoError(t, Verify(Default32))
	require.NoError(t, Verify(Default64))

	_, ok := DefaultFor(16)
	require.False(t, ok)
}

// TestCharacteristic_UnsupportedWidth verifies that only 32 and 64 are accepted.
func TestCharacteristic_UnsupportedWidth(t *testing.T) {
	_, err := Characteristic(16, 1, 2)
	require.ErrorIs(t, err, model.ErrInvalidParameter)
}

// TestVerify_Mismatch verifies that altered records are rejected.
func TestVerify_Mismatch(t *testing.T) {
	p := Default32
	p.Weight++
	require.ErrorIs(t, Verify(p), ErrTableMismatch)

	p = Default64
	p.Mat2 ^= 1
	require.ErrorIs(t, Verify(p), ErrTableMismatch)
}

// TestPrimitive verifies the primitivity screen on known polynomials.
func TestPrimitive(t *testing.T) {
	trinomial := gf2.Monomial(127).Add(gf2.Monomial(1)).Add(gf2.One())
	require.True(t, Primitive(trinomial))

	// divisible by x+1
	require.False(t, Primitive(gf2.Monomial(127).Add(gf2.One())))
	require.False(t, Primitive(gf2.Monomial(127)))
	require.False(t, Primitive(gf2.Monomial(7).Add(gf2.Monomial(1)).Add(gf2.One())))
	require.False(t, Primitive(gf2.Polynomial{}))
}

// TestBerlekampMassey_ShortRecurrence verifies recovery of s[n] = s[n-1] ^ s[n-3].
func TestBerlekampMassey_ShortRecurrence(t *testing.T) {
	bits := []byte{1, 0, 0}
	for n := 3; n < 20; n++ {
		bits = append(bits, bits[n-1]^bits[n-3])
	}

	conn, length := berlekampMassey(bits)
	require.Equal(t, 3, length)
	require.True(t, conn.Equal(gf2.FromUint64(0b1011)))
	require.True(t, conn.Reciprocal(length).Equal(gf2.FromUint64(0b1101)))
}

// TestBerlekampMassey_ZeroSequence verifies that an all-zero sequence has length 0.
func TestBerlekampMassey_ZeroSequence(t *testing.T) {
	conn, length := berlekampMassey(make([]byte, 16))
	require.Equal(t, 0, length)
	require.True(t, conn.Equal(gf2.One()))
}
