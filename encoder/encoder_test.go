package encoder

import "testing"

import "github.com/pkg/errors"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/textcnn/wordvec"

func table(t *testing.T) *wordvec.Memory {
	m := wordvec.NewMemory(2)
	require.NoError(t, m.Add("apple", []float32{1, 2}))
	require.NoError(t, m.Add("pie", []float32{3, 4}))
	require.NoError(t, m.Add("tart", []float32{5, 6}))
	return m
}

func TestEncodePadsWithZeros(t *testing.T) {
	e := New(table(t))
	m := e.Encode("Apple PIE", 4)
	require.Equal(t, 4, m.Rows)
	require.Equal(t, 2, m.Cols)
	assert.Equal(t, []float32{1, 2}, m.Row(0))
	assert.Equal(t, []float32{3, 4}, m.Row(1))
	assert.True(t, m.IsZeroRow(2))
	assert.True(t, m.IsZeroRow(3))
}

func TestEncodeTruncates(t *testing.T) {
	e := New(table(t))
	long := e.Encode("apple pie tart apple", 2)
	short := e.Encode("apple pie", 2)
	assert.True(t, long.Equal(short))
	assert.Equal(t, 2, long.Rows)
}

func TestEncodeEmpty(t *testing.T) {
	e := New(table(t))
	for _, s := range []string{"", "   ", "unknown words only"} {
		m := e.Encode(s, 3)
		for i := 0; i < m.Rows; i++ {
			assert.True(t, m.IsZeroRow(i), s)
		}
	}
	assert.Equal(t, 0, e.Encode("apple", 0).Rows)
	assert.Equal(t, 0, e.Encode("apple", -1).Rows)
}

func TestEncodeUnknownSkip(t *testing.T) {
	e := New(table(t), WithOOVPolicy(SkipUnknown))
	m := e.Encode("apple mystery pie", 3)
	assert.Equal(t, []float32{1, 2}, m.Row(0))
	assert.Equal(t, []float32{3, 4}, m.Row(1))
	assert.True(t, m.IsZeroRow(2))
}

func TestEncodeUnknownZero(t *testing.T) {
	e := New(table(t), WithOOVPolicy(ZeroUnknown))
	m := e.Encode("apple mystery pie", 3)
	assert.Equal(t, []float32{1, 2}, m.Row(0))
	assert.True(t, m.IsZeroRow(1))
	assert.Equal(t, []float32{3, 4}, m.Row(2))
}

func TestEncodeDeterministic(t *testing.T) {
	for _, p := range []OOVPolicy{SkipUnknown, ZeroUnknown} {
		e := New(table(t), WithOOVPolicy(p))
		for _, s := range []string{"", "apple x pie", "tart tart tart tart tart"} {
			assert.True(t, e.Encode(s, 4).Equal(e.Encode(s, 4)))
		}
	}
}

func TestEncodeDoesNotAliasTable(t *testing.T) {
	tbl := table(t)
	e := New(tbl)
	m := e.Encode("apple", 1)
	m.Row(0)[0] = 99
	v, _ := tbl.Lookup("apple")
	assert.Equal(t, float32(1), v[0])
}

func TestParseOOVPolicy(t *testing.T) {
	p, ok := ParseOOVPolicy("Zero")
	assert.True(t, ok)
	assert.Equal(t, ZeroUnknown, p)
	assert.Equal(t, "zero", p.String())
	_, ok = ParseOOVPolicy("drop")
	assert.False(t, ok)
	assert.Equal(t, 1, New(table(t)).Known("apple banana"))
}

type failingTable struct {
	wordvec.Table
}

func (failingTable) Err() error {
	return errors.New("lookup failed")
}

func TestErrReportsTableFailure(t *testing.T) {
	assert.NoError(t, New(table(t)).Err())
	assert.EqualError(t, New(failingTable{table(t)}).Err(), "lookup failed")
}
