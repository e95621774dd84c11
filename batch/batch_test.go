package batch

import "io"
import "testing"

import "github.com/pkg/errors"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/textcnn/datasets"
import "github.com/neurlang/textcnn/datasets/sentences"
import "github.com/neurlang/textcnn/encoder"
import "github.com/neurlang/textcnn/wordvec"

func setup(t *testing.T, lines []string) (*sentences.Store, *Iterator) {
	tbl := wordvec.NewMemory(2)
	require.NoError(t, tbl.Add("red", []float32{1, 0}))
	require.NoError(t, tbl.Add("blue", []float32{0, 1}))
	store := sentences.New(lines, sentences.WithLastRecord(true))
	it := New(store, encoder.New(tbl), store.Labels(), 3, WithWorkers(4))
	return store, it
}

func TestIteratorBatches(t *testing.T) {
	lines := []string{"a red", "b blue", "a red red", "b blue blue", "a red blue"}
	_, it := setup(t, lines)

	b, err := it.Next(2)
	require.NoError(t, err)
	require.Equal(t, 2, b.Size())
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, b.Labels)
	assert.Equal(t, []int{0, 1}, b.Targets)
	assert.Equal(t, []float32{1, 0}, b.Features[0].Row(0))
	assert.True(t, b.Features[0].IsZeroRow(1))

	b, err = it.Next(2)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Size())

	b, err = it.Next(2)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Size())
	assert.Equal(t, []float32{0, 1}, b.Features[0].Row(1))

	_, err = it.Next(2)
	assert.Equal(t, io.EOF, err)

	it.Reset()
	b, err = it.Next(10)
	require.NoError(t, err)
	assert.Equal(t, 5, b.Size())
}

func TestIteratorPreservesOrder(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		if i%3 == 0 {
			lines = append(lines, "b blue")
		} else {
			lines = append(lines, "a red")
		}
	}
	_, it := setup(t, lines)
	b, err := it.Next(40)
	require.NoError(t, err)
	for i := range b.Features {
		if i%3 == 0 {
			assert.Equal(t, []float32{0, 1}, b.Features[i].Row(0), i)
			assert.Equal(t, 1, b.Targets[i])
		} else {
			assert.Equal(t, []float32{1, 0}, b.Features[i].Row(0), i)
		}
	}
}

func TestIteratorUnknownLabel(t *testing.T) {
	store := sentences.New([]string{"z red", "z blue"}, sentences.WithLastRecord(true))
	tbl := wordvec.NewMemory(1)
	it := New(store, encoder.New(tbl), datasets.NewVocabulary([]string{"a"}), 2)
	_, err := it.Next(2)
	assert.True(t, errors.Is(err, datasets.ErrUnknownLabel))
}

func TestIteratorBadBatchSize(t *testing.T) {
	_, it := setup(t, []string{"a red"})
	_, err := it.Next(0)
	assert.Error(t, err)
}

type failingTable struct {
	*wordvec.Memory
	err error
}

func (f failingTable) Err() error {
	return f.err
}

func TestIteratorStopsOnTableFailure(t *testing.T) {
	broken := errors.New("vectors corrupt")
	tbl := failingTable{Memory: wordvec.NewMemory(2), err: broken}
	store := sentences.New([]string{"a red", "b blue"}, sentences.WithLastRecord(true))
	it := New(store, encoder.New(tbl), store.Labels(), 3)

	_, err := it.Next(2)
	assert.True(t, errors.Is(err, broken), "%v", err)
}
