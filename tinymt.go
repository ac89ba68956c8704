// Package tinymt implements the TinyMT family of pseudo-random number
// generators: small-state (127-bit) Mersenne Twister variants with
// 32-bit and 64-bit outputs and period 2^127-1.
//
// Every generator is defined by a parameter record. Records form a fixed,
// reproducible enumeration per width: position 0 is the default record,
// later positions are found by a deterministic search for primitive
// characteristic polynomials. Distinct records give independent streams,
// which is what Array32, ThreadLocal32 and Bind32 (and their 64-bit
// counterparts) hand out.
//
// Generators are not safe for concurrent use; give each goroutine its own.
package tinymt

import (
	"context"
	"fmt"
	"github.com/Borislavv/go-tinymt/internal/core"
	"github.com/Borislavv/go-tinymt/internal/search"
	"github.com/Borislavv/go-tinymt/model"
	"io"
)

type (
	TinyMT32  = core.TinyMT32
	TinyMT64  = core.TinyMT64
	Parameter = model.Parameter
	Table     = search.Table
)

var (
	ErrNotSeeded      = core.ErrNotSeeded
	ErrWidthMismatch  = core.ErrWidthMismatch
	ErrInvalidRange   = search.ErrInvalidRange
	ErrTableMismatch  = search.ErrTableMismatch
	ErrNoCandidate    = search.ErrNoCandidate
	ErrInvalidParam   = model.ErrInvalidParameter
	ErrMalformedTable = model.ErrMalformedLine
)

// std is the process-wide family. It has no background goroutines and
// lives for the lifetime of the process.
var std = mustFamily()

func mustFamily() *Family {
	f, err := newFamily(nil, nil)
	if err != nil {
		panic(fmt.Errorf("tinymt: default family: %w", err))
	}
	return f
}

// New32 returns an unseeded 32-bit generator for p.
func New32(p Parameter) (*TinyMT32, error) { return core.New32(p) }

// New64 returns an unseeded 64-bit generator for p.
func New64(p Parameter) (*TinyMT64, error) { return core.New64(p) }

func DefaultParameter32() Parameter { return search.Default32 }
func DefaultParameter64() Parameter { return search.Default64 }

// Default32 returns the default 32-bit generator seeded with seed.
func Default32(seed uint32) *TinyMT32 {
	g := mustDefault32()
	g.Seed(seed)
	return g
}

func Default32Words(keys []uint32) *TinyMT32 {
	g := mustDefault32()
	g.SeedWords(keys)
	return g
}

func Default32String(s string) *TinyMT32 {
	g := mustDefault32()
	g.SeedString(s)
	return g
}

// Default64 returns the default 64-bit generator seeded with seed.
func Default64(seed uint64) *TinyMT64 {
	g := mustDefault64()
	g.Seed(seed)
	return g
}

func Default64Words(keys []uint64) *TinyMT64 {
	g := mustDefault64()
	g.SeedWords(keys)
	return g
}

func Default64String(s string) *TinyMT64 {
	g := mustDefault64()
	g.SeedString(s)
	return g
}

func mustDefault32() *TinyMT32 {
	g, err := core.New32(search.Default32)
	if err != nil {
		panic(err)
	}
	return g
}

func mustDefault64() *TinyMT64 {
	g, err := core.New64(search.Default64)
	if err != nil {
		panic(err)
	}
	return g
}

// Parameters32 returns the first count 32-bit records.
func Parameters32(count int) ([]Parameter, error) { return std.Parameters32(count) }

// Parameters64 returns the first count 64-bit records.
func Parameters64(count int) ([]Parameter, error) { return std.Parameters64(count) }

func ParametersFrom32(start, count int) ([]Parameter, error) {
	return std.ParametersFrom32(start, count)
}

func ParametersFrom64(start, count int) ([]Parameter, error) {
	return std.ParametersFrom64(start, count)
}

func ThreadLocalParameter32(n int64) (Parameter, error) { return std.ThreadLocalParameter32(n) }
func ThreadLocalParameter64(n int64) (Parameter, error) { return std.ThreadLocalParameter64(n) }

func ThreadLocal32(n int64, seed uint32) (*TinyMT32, error) { return std.ThreadLocal32(n, seed) }
func ThreadLocal64(n int64, seed uint64) (*TinyMT64, error) { return std.ThreadLocal64(n, seed) }

func Array32(count int, seed uint32) ([]*TinyMT32, error) { return std.Array32(count, seed) }
func Array64(count int, seed uint64) ([]*TinyMT64, error) { return std.Array64(count, seed) }

// Bind32 returns ctx carrying a 32-bit generator of the process-wide
// allocator. The first call for a context takes the next allocator
// counter value n and builds the generator of ThreadLocalParameter32(n);
// later calls with the returned context reuse it.
func Bind32(ctx context.Context) (context.Context, *TinyMT32, error) { return std.Bind32(ctx) }
func Bind64(ctx context.Context) (context.Context, *TinyMT64, error) { return std.Bind64(ctx) }

func Current32(ctx context.Context) (*TinyMT32, bool) { return std.Current32(ctx) }
func Current64(ctx context.Context) (*TinyMT64, bool) { return std.Current64(ctx) }

// ReadTable parses a parameter table of the given width.
func ReadTable(r io.Reader, width int) (*Table, error) { return search.ReadTable(r, width) }

// WriteTable renders records in the parameter table format.
func WriteTable(w io.Writer, rows []Parameter) error { return search.WriteTable(w, rows) }

// Verify recomputes the characteristic polynomial and weight of p.
func Verify(p Parameter) error { return search.Verify(p) }
