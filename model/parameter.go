package model

import (
	"errors"
	"fmt"
	"github.com/Borislavv/go-tinymt/gf2"
	"strconv"
	"strings"
)

const (
	Width32 = 32
	Width64 = 64

	// CharacteristicDigits is the fixed width of a serialized characteristic polynomial.
	CharacteristicDigits = 32

	fieldsPerLine = 8
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrMalformedLine    = errors.New("malformed parameter line")
)

// Parameter identifies one TinyMT configuration. It is a comparable value:
// two parameters are equal iff all fields are equal.
type Parameter struct {
	// Characteristic is the characteristic polynomial of the state
	// transition, lower-case hex, zero-padded to CharacteristicDigits.
	Characteristic string
	Width          int
	ID             int
	Mat1           uint32
	Mat2           uint32
	// Tmat fits in 32 bits for the 32-bit generator.
	Tmat   uint64
	Weight int
	Delta  int
}

// FormatCharacteristic renders p the way Parameter.Characteristic stores it.
func FormatCharacteristic(p gf2.Polynomial) string {
	s := p.Text(16)
	if len(s) < CharacteristicDigits {
		s = strings.Repeat("0", CharacteristicDigits-len(s)) + s
	}
	return s
}

func (p Parameter) Polynomial() (gf2.Polynomial, error) {
	return gf2.Parse(p.Characteristic, 16)
}

func (p Parameter) Validate() error {
	switch p.Width {
	case Width32:
		if p.Tmat > 0xffffffff {
			return fmt.Errorf("%w: tmat %#x exceeds 32 bits", ErrInvalidParameter, p.Tmat)
		}
	case Width64:
	default:
		return fmt.Errorf("%w: unsupported width %d", ErrInvalidParameter, p.Width)
	}
	if _, err := p.Polynomial(); err != nil {
		return fmt.Errorf("%w: characteristic: %w", ErrInvalidParameter, err)
	}
	if p.ID < 0 || p.Weight < 0 || p.Delta < 0 {
		return fmt.Errorf("%w: negative id, weight or delta", ErrInvalidParameter)
	}
	return nil
}

// Mat1For returns Mat1 when the low bit of x is set and 0 otherwise.
func (p Parameter) Mat1For(x uint64) uint32 {
	return uint32(-(x & 1)) & p.Mat1
}

func (p Parameter) Mat2For(x uint64) uint32 {
	return uint32(-(x & 1)) & p.Mat2
}

func (p Parameter) TmatFor(x uint64) uint64 {
	return -(x & 1) & p.Tmat
}

// TmatFloat is the tempering word of the single-precision conversion:
// the exponent bits of 1.0f, plus tmat>>9 when the low bit of x is set.
func (p Parameter) TmatFloat(x uint64) uint32 {
	return 0x3f800000 | uint32(-(x&1))&uint32(p.Tmat>>9)
}

// TmatDouble is the double-precision analogue of TmatFloat.
func (p Parameter) TmatDouble(x uint64) uint64 {
	return 0x3ff0000000000000 | -(x&1)&(p.Tmat>>12)
}

// String renders p as one line of the parameter table format:
// characteristic,width,id,mat1,mat2,tmat,weight,delta
func (p Parameter) String() string {
	tmatDigits := 8
	if p.Width == Width64 {
		tmatDigits = 16
	}
	return fmt.Sprintf("%s,%d,%d,%08x,%08x,%0*x,%d,%d",
		p.Characteristic, p.Width, p.ID, p.Mat1, p.Mat2, tmatDigits, p.Tmat, p.Weight, p.Delta)
}

func (p Parameter) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Parameter) UnmarshalText(text []byte) error {
	v, err := ParseLine(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParseLine parses one line of the parameter table format.
func ParseLine(line string) (Parameter, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != fieldsPerLine {
		return Parameter{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedLine, fieldsPerLine, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	char, err := gf2.Parse(fields[0], 16)
	if err != nil {
		return Parameter{}, fmt.Errorf("%w: characteristic: %w", ErrMalformedLine, err)
	}
	p := Parameter{Characteristic: FormatCharacteristic(char)}

	ints := []struct {
		name string
		dst  *int
		s    string
	}{
		{"width", &p.Width, fields[1]},
		{"id", &p.ID, fields[2]},
		{"weight", &p.Weight, fields[6]},
		{"delta", &p.Delta, fields[7]},
	}
	for _, f := range ints {
		if *f.dst, err = strconv.Atoi(f.s); err != nil {
			return Parameter{}, fmt.Errorf("%w: %s: %w", ErrMalformedLine, f.name, err)
		}
	}

	mat1, err := strconv.ParseUint(fields[3], 16, 32)
	if err != nil {
		return Parameter{}, fmt.Errorf("%w: mat1: %w", ErrMalformedLine, err)
	}
	mat2, err := strconv.ParseUint(fields[4], 16, 32)
	if err != nil {
		return Parameter{}, fmt.Errorf("%w: mat2: %w", ErrMalformedLine, err)
	}
	if p.Tmat, err = strconv.ParseUint(fields[5], 16, 64); err != nil {
		return Parameter{}, fmt.Errorf("%w: tmat: %w", ErrMalformedLine, err)
	}
	p.Mat1, p.Mat2 = uint32(mat1), uint32(mat2)

	if err = p.Validate(); err != nil {
		return Parameter{}, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	return p, nil
}
