package tensor

import "github.com/chewxy/math32"
import "github.com/klauspost/cpuid/v2"

// Dot returns the inner product of a and b[:len(a)].
var Dot func(a, b []float32) float32

// Axpy computes y += alpha*x over len(x) elements.
var Axpy func(alpha float32, x, y []float32)

// Unrolled reports whether the unrolled kernels were selected for this CPU.
var Unrolled bool

func init() {
	if cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3) {
		Dot = dotUnrolled
		Axpy = axpyUnrolled
		Unrolled = true
	} else {
		Dot = dotSimple
		Axpy = axpySimple
	}
}

func dotSimple(a, b []float32) (s float32) {
	b = b[:len(a)]
	for i := range a {
		s += a[i] * b[i]
	}
	return
}

// dotUnrolled keeps eight independent accumulators so the compiler can
// schedule them across vector lanes.
func dotUnrolled(a, b []float32) float32 {
	b = b[:len(a)]
	var s0, s1, s2, s3, s4, s5, s6, s7 float32
	i := 0
	for ; i+8 <= len(a); i += 8 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
		s4 += a[i+4] * b[i+4]
		s5 += a[i+5] * b[i+5]
		s6 += a[i+6] * b[i+6]
		s7 += a[i+7] * b[i+7]
	}
	for ; i < len(a); i++ {
		s0 += a[i] * b[i]
	}
	return ((s0 + s1) + (s2 + s3)) + ((s4 + s5) + (s6 + s7))
}

func axpySimple(alpha float32, x, y []float32) {
	y = y[:len(x)]
	for i := range x {
		y[i] += alpha * x[i]
	}
}

func axpyUnrolled(alpha float32, x, y []float32) {
	y = y[:len(x)]
	i := 0
	for ; i+4 <= len(x); i += 4 {
		y[i] += alpha * x[i]
		y[i+1] += alpha * x[i+1]
		y[i+2] += alpha * x[i+2]
		y[i+3] += alpha * x[i+3]
	}
	for ; i < len(x); i++ {
		y[i] += alpha * x[i]
	}
}

// Softmax writes the normalized exponentials of logits into out, which may alias logits.
func Softmax(logits, out []float32) {
	if len(logits) == 0 {
		return
	}
	max := logits[0]
	for _, v := range logits[1:] {
		max = math32.Max(max, v)
	}
	var sum float32
	for i, v := range logits {
		e := math32.Exp(v - max)
		out[i] = e
		sum += e
	}
	for i := range out[:len(logits)] {
		out[i] /= sum
	}
}

// ArgMax returns the index of the largest element, the first one on ties, or -1 if empty.
func ArgMax(v []float32) int {
	if len(v) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// Finite reports whether x is neither NaN nor infinite.
func Finite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

// Zero clears v.
func Zero(v []float32) {
	for i := range v {
		v[i] = 0
	}
}
