// Package hash implements the stateless xorshift hash used to draw reproducible
// dropout masks without sharing a random source between goroutines.
package hash

// Hash mixes n with salt s and reduces the result into [0, max).
func Hash(n uint32, s uint32, max uint32) uint32 {
	return uint32((uint64(mix(n, s)) * uint64(max)) >> 32)
}

func mix(n, s uint32) uint32 {
	var m = n - s

	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	return m + s
}

// Mix folds an arbitrary number of words into one 32-bit value.
func Mix(words ...uint32) (o uint32) {
	o = 0x9e3779b9
	for i, w := range words {
		o = mix(o^w, uint32(i)*0x85ebca6b+0xc2b2ae35)
	}
	return mix(o, 0x27d4eb2f)
}

// Unit returns a value in [0, 1) determined only by its arguments.
// The dropout layer keys it by seed, optimizer step, example and unit.
func Unit(seed int64, step, example, unit int) float32 {
	key := Mix(uint32(seed), uint32(seed>>32), uint32(step), uint32(example), uint32(unit))
	// 24 bits fit a float32 mantissa exactly
	return float32(Hash(key, 0x165667b1, 1<<24)) / (1 << 24)
}
