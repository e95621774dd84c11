package parallel

import "sync/atomic"
import "testing"

import "github.com/stretchr/testify/assert"

// hasher test
func TestHasherOrderIndependent(t *testing.T) {
	blocks := [][]float32{{1, 2, 3}, {4}, {}, {0.5, -0.5}}

	h1 := NewHasher(len(blocks))
	for i, b := range blocks {
		h1.MustPutFloat32s(i, b)
	}
	h2 := NewHasher(len(blocks))
	ForEach(len(blocks), 4, func(i int) {
		j := len(blocks) - 1 - i
		h2.MustPutFloat32s(j, blocks[j])
	})
	assert.Equal(t, h1.Sum(), h2.Sum())

	h3 := NewHasher(len(blocks))
	for i, b := range blocks {
		if i == 1 {
			b = []float32{4.0000005}
		}
		h3.MustPutFloat32s(i, b)
	}
	assert.NotEqual(t, h1.Sum(), h3.Sum())
	assert.Panics(t, func() { h3.MustPutFloat32s(0, nil) })
}

func TestForEach(t *testing.T) {
	var sum atomic.Int64
	ForEach(100, 7, func(i int) { sum.Add(int64(i)) })
	assert.Equal(t, int64(4950), sum.Load())
	ForEach(0, 7, func(i int) { t.Fatal("called") })
}

func TestChunks(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 4}, {4, 7}, {7, 10}}, Chunks(10, 3))
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, Chunks(2, 8))
	assert.Nil(t, Chunks(0, 3))
	assert.Equal(t, [][2]int{{0, 5}}, Chunks(5, 0))
	assert.Equal(t, 3, Workers(3))
	assert.True(t, Workers(0) > 0)
}
