package globalpool

import "github.com/neurlang/textcnn/hash"
import "github.com/neurlang/textcnn/tensor"

// GlobalPool is the per-example combiner of a GlobalPoolLayer.
type GlobalPool struct {
	l             *GlobalPoolLayer
	step, example int
	rows          int
	argmax        []int
	mask          []float32
}

// Key selects the dropout mask for the next Forward. Masks depend only on
// the layer seed, the optimizer step and the example index.
func (f *GlobalPool) Key(step, example int) {
	f.step = step
	f.example = example
}

// Forward pools in, shaped [L, channels], into [1, channels].
func (f *GlobalPool) Forward(in tensor.Matrix, train bool) tensor.Matrix {
	l := f.l
	f.rows = in.Rows
	out := tensor.NewMatrix(1, l.channels)
	if in.Rows == 0 {
		return out
	}
	switch l.mode {
	case Avg:
		for t := 0; t < in.Rows; t++ {
			tensor.Axpy(1/float32(in.Rows), in.Row(t), out.Data)
		}
	default:
		if len(f.argmax) != l.channels {
			f.argmax = make([]int, l.channels)
		}
		copy(out.Data, in.Row(0))
		for c := range f.argmax {
			f.argmax[c] = 0
		}
		for t := 1; t < in.Rows; t++ {
			row := in.Row(t)
			for c, v := range row {
				if v > out.Data[c] {
					out.Data[c] = v
					f.argmax[c] = t
				}
			}
		}
	}
	f.mask = f.mask[:0]
	if train && l.dropout > 0 {
		scale := 1 / (1 - l.dropout)
		for c := range out.Data {
			m := float32(0)
			if hash.Unit(l.seed, f.step, f.example, c) >= l.dropout {
				m = scale
			}
			f.mask = append(f.mask, m)
			out.Data[c] *= m
		}
	}
	return out
}

// Backward routes the pooled gradient back to the token positions.
func (f *GlobalPool) Backward(dout tensor.Matrix, grads [][]float32) tensor.Matrix {
	l := f.l
	dx := tensor.NewMatrix(f.rows, l.channels)
	if f.rows == 0 {
		return dx
	}
	d := append([]float32(nil), dout.Data...)
	if len(f.mask) == len(d) {
		for c := range d {
			d[c] *= f.mask[c]
		}
	}
	switch l.mode {
	case Avg:
		for t := 0; t < f.rows; t++ {
			tensor.Axpy(1/float32(f.rows), d, dx.Row(t))
		}
	default:
		for c, v := range d {
			dx.Set(f.argmax[c], c, v)
		}
	}
	return dx
}
