package parallel

import "crypto/sha256"
import "encoding/binary"
import "hash"
import "math"
import "sync"

// Hasher fingerprints a fixed number of float32 blocks. Blocks may be put from
// any goroutine in any order; the sum only depends on their contents and indices.
type Hasher struct {
	mut    sync.Mutex
	sha    hash.Hash
	blocks [][32]byte
	filled []bool
}

// NewHasher creates a hasher for n blocks.
func NewHasher(n int) *Hasher {
	return &Hasher{
		sha:    sha256.New(),
		blocks: make([][32]byte, n),
		filled: make([]bool, n),
	}
}

// MustPutFloat32s hashes values as block n. It panics if block n was already put.
func (h *Hasher) MustPutFloat32s(n int, values []float32) {
	inner := sha256.New()
	var buf [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		inner.Write(buf[:])
	}
	var sum [32]byte
	copy(sum[:], inner.Sum(nil))

	h.mut.Lock()
	defer h.mut.Unlock()
	if h.filled[n] {
		panic("float32 block already put")
	}
	h.blocks[n] = sum
	h.filled[n] = true
}

// Sum returns the combined digest. Missing blocks hash as zeros.
func (h *Hasher) Sum() (o [32]byte) {
	h.mut.Lock()
	defer h.mut.Unlock()
	h.sha.Reset()
	var buf [8]byte
	for i, b := range h.blocks {
		binary.LittleEndian.PutUint64(buf[:], uint64(i))
		h.sha.Write(buf[:])
		h.sha.Write(b[:])
	}
	copy(o[:], h.sha.Sum(nil))
	return
}
