package search

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/Borislavv/go-tinymt/model"
	"io"
	"os"
	"slices"
	"strings"
)

var ErrTableMismatch = errors.New("parameter table mismatch")

// Table is an immutable list of precomputed records of one width,
// indexed by the xxh3 hash of their characteristic polynomials.
type Table struct {
	width int
	rows  []model.Parameter
	index map[uint64][]int
}

func NewTable(width int, rows []model.Parameter) (*Table, error) {
	t := &Table{
		width: width,
		rows:  slices.Clone(rows),
		index: make(map[uint64][]int, len(rows)),
	}
	for i, p := range t.rows {
		if p.Width != width {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrTableMismatch, i, p.Width, width)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		char, err := p.Polynomial()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		h := char.Hash()
		t.index[h] = append(t.index[h], i)
	}
	return t, nil
}

// ReadTable parses the text table format. Blank lines and lines starting
// with '#' are skipped.
func ReadTable(r io.Reader, width int) (*Table, error) {
	var rows []model.Parameter
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := model.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		rows = append(rows, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read parameter table: %w", err)
	}
	return NewTable(width, rows)
}

func LoadTable(path string, width int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parameter table %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := ReadTable(f, width)
	if err != nil {
		return nil, fmt.Errorf("parameter table %s: %w", path, err)
	}
	return t, nil
}

// WriteTable renders rows in the text table format, one per line.
func WriteTable(w io.Writer, rows []model.Parameter) error {
	bw := bufio.NewWriter(w)
	for _, p := range rows {
		if _, err := bw.WriteString(p.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (t *Table) Width() int { return t.width }
func (t *Table) Len() int   { return len(t.rows) }

func (t *Table) Row(i int) model.Parameter { return t.rows[i] }

func (t *Table) Rows() []model.Parameter { return slices.Clone(t.rows) }

// Lookup finds the first row with the given characteristic.
func (t *Table) Lookup(characteristic string) (model.Parameter, bool) {
	p := model.Parameter{Characteristic: characteristic}
	char, err := p.Polynomial()
	if err != nil {
		return model.Parameter{}, false
	}
	want := model.FormatCharacteristic(char)
	for _, i := range t.index[char.Hash()] {
		if t.rows[i].Characteristic == want {
			return t.rows[i], true
		}
	}
	return model.Parameter{}, false
}

// Verify checks every row, stopping at the first mismatch.
func (t *Table) Verify() error {
	for i, p := range t.rows {
		if err := Verify(p); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// Verify recomputes the characteristic polynomial and weight of p from its
// tuning words and compares them with the recorded ones.
func Verify(p model.Parameter) error {
	char, err := Characteristic(p.Width, p.Mat1, p.Mat2)
	if err != nil {
		return err
	}
	if got := model.FormatCharacteristic(char); got != p.Characteristic {
		return fmt.Errorf("%w: characteristic %s, recomputed %s", ErrTableMismatch, p.Characteristic, got)
	}
	if w := char.Weight(); w != p.Weight {
		return fmt.Errorf("%w: weight %d, recomputed %d", ErrTableMismatch, p.Weight, w)
	}
	return nil
}
