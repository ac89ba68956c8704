package search

import (
	"bytes"
	"github.com/Borislavv/go-tinymt/model"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const table32 = `# published 32-bit rows
8ee476cb10b7c7e20dd10725924e9877,32,0,877810ef,fc38ff0f,c7fb7fff,63,0

8331a00cb24d95a8e116e35435103213,32,0,837c106f,fc18ff07,eeb9bdff,51,0
bc8ca81cb620b9610108b0fa2036f9ef,32,0,718e0e31,fb88fee3,11dbffff,57,0
`

func readTable32(t *testing.T) *Table {
	t.Helper()
	table, err := ReadTable(strings.NewReader(table32), model.Width32)
	require.NoError(t, err)
	return table
}

// TestReadTable_SkipsCommentsAndBlankLines verifies the text format reader.
func TestReadTable_SkipsCommentsAndBlankLines(t *testing.T) {
	table := readTable32(t)
	require.Equal(t, 3, table.Len())
	require.Equal(t, model.Width32, table.Width())
	require.Equal(t, uint32(0x837c106f), table.Row(1).Mat1)
	require.NoError(t, table.Verify())
}

// TestReadTable_Malformed verifies the failing line is reported.
func TestReadTable_Malformed(t *testing.T) {
	_, err := ReadTable(strings.NewReader(table32+"not,a,row\n"), model.Width32)
	require.ErrorIs(t, err, model.ErrMalformedLine)
	require.Contains(t, err.Error(), "line 6")
}

// TestReadTable_WrongWidth verifies rows of another width are rejected.
func TestReadTable_WrongWidth(t *testing.T) {
	_, err := ReadTable(strings.NewReader(table32), model.Width64)
	require.ErrorIs(t, err, ErrTableMismatch)
}

// TestWriteTable_RoundTrip verifies written tables read back unchanged.
func TestWriteTable_RoundTrip(t *testing.T) {
	table := readTable32(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, table.Rows()))
	require.Equal(t, 3, strings.Count(buf.String(), "\n"))

	again, err := ReadTable(&buf, model.Width32)
	require.NoError(t, err)
	require.Equal(t, table.Rows(), again.Rows())
}

// TestTable_Lookup verifies characteristic lookup through the hash index.
func TestTable_Lookup(t *testing.T) {
	table := readTable32(t)

	p, ok := table.Lookup("BC8CA81CB620B9610108B0FA2036F9EF")
	require.True(t, ok)
	require.Equal(t, uint32(0x718e0e31), p.Mat1)

	_, ok = table.Lookup(Default32.Characteristic)
	require.False(t, ok)
	_, ok = table.Lookup("not hex")
	require.False(t, ok)
}

// TestTable_VerifyMismatch verifies a tampered row fails verification.
func TestTable_VerifyMismatch(t *testing.T) {
	rows := readTable32(t).Rows()
	rows[2].Weight = 58
	table, err := NewTable(model.Width32, rows)
	require.NoError(t, err)

	err = table.Verify()
	require.ErrorIs(t, err, ErrTableMismatch)
	require.Contains(t, err.Error(), "row 2")
}

// TestSearcher_UseTable verifies table rows serve the positions after the default.
func TestSearcher_UseTable(t *testing.T) {
	s := newSearcher(t, 32, nil)
	table := readTable32(t)
	require.NoError(t, s.UseTable(table))

	p, err := s.At(0)
	require.NoError(t, err)
	require.Equal(t, Default32, p)

	for i := 1; i <= table.Len(); i++ {
		p, err = s.At(i)
		require.NoError(t, err)
		require.Equal(t, table.Row(i-1), p)
	}
	require.Equal(t, int64(3), s.Metrics().TableHits)
	require.Equal(t, int64(0), s.Metrics().Searched)

	p, err = s.At(4)
	require.NoError(t, err)
	require.Equal(t, 4, p.ID)
	require.NoError(t, Verify(p))
	require.Equal(t, int64(1), s.Metrics().Searched)

	found, ok := s.Lookup("8331a00cb24d95a8e116e35435103213")
	require.True(t, ok)
	require.Equal(t, table.Row(1), found)
}

// TestSearcher_UseTableRejects verifies width and verification failures.
func TestSearcher_UseTableRejects(t *testing.T) {
	s64 := newSearcher(t, 64, nil)
	require.ErrorIs(t, s64.UseTable(readTable32(t)), ErrTableMismatch)

	cfg := newSearchCfg()
	cfg.VerifyTable = true
	s := newSearcher(t, 32, cfg)

	rows := readTable32(t).Rows()
	rows[0].Mat2 ^= 0x100
	tampered, err := NewTable(model.Width32, rows)
	require.NoError(t, err)
	require.ErrorIs(t, s.UseTable(tampered), ErrTableMismatch)
	require.NoError(t, s.UseTable(readTable32(t)))
}

// TestNew_LoadsTablePath verifies a configured table file is loaded and verified.
func TestNew_LoadsTablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinymt32.txt")
	require.NoError(t, os.WriteFile(path, []byte(table32), 0o600))

	cfg := newSearchCfg()
	cfg.TablePath = path
	cfg.VerifyTable = true
	s := newSearcher(t, 32, cfg)

	p, err := s.At(2)
	require.NoError(t, err)
	require.Equal(t, uint32(0x837c106f), p.Mat1)

	cfg = newSearchCfg()
	cfg.TablePath = filepath.Join(t.TempDir(), "missing.txt")
	_, err = New(32, cfg, discard)
	require.ErrorIs(t, err, os.ErrNotExist)
}
