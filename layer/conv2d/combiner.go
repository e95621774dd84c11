package conv2d

import "github.com/neurlang/textcnn/tensor"

// Conv2D is the per-example combiner of a Conv2DLayer.
type Conv2D struct {
	l   *Conv2DLayer
	in  tensor.Matrix
	pre tensor.Matrix
}

// Forward convolves in, shaped [L, dim], into [L, filters].
func (f *Conv2D) Forward(in tensor.Matrix, train bool) tensor.Matrix {
	l := f.l
	f.in = in
	if f.pre.Rows != in.Rows || f.pre.Cols != l.filters {
		f.pre = tensor.NewMatrix(in.Rows, l.filters)
	}
	out := tensor.NewMatrix(in.Rows, l.filters)
	w, b := l.weights.Value, l.bias.Value
	pad := l.PadBefore()
	for t := 0; t < in.Rows; t++ {
		for k := 0; k < l.filters; k++ {
			z := b[k]
			for j := 0; j < l.width; j++ {
				pos := t - pad + j
				if pos < 0 || pos >= in.Rows {
					continue
				}
				off := (k*l.width + j) * l.dim
				z += tensor.Dot(w[off:off+l.dim], in.Row(pos))
			}
			f.pre.Set(t, k, z)
			out.Set(t, k, leaky(z))
		}
	}
	return out
}

// Backward accumulates filter and bias gradients. The input gradient is not
// needed because embeddings are frozen, so an empty matrix is returned.
func (f *Conv2D) Backward(dout tensor.Matrix, grads [][]float32) tensor.Matrix {
	l := f.l
	dw, db := grads[0], grads[1]
	pad := l.PadBefore()
	for t := 0; t < dout.Rows; t++ {
		for k := 0; k < l.filters; k++ {
			dz := dout.At(t, k) * leakyDerivative(f.pre.At(t, k))
			if dz == 0 {
				continue
			}
			db[k] += dz
			for j := 0; j < l.width; j++ {
				pos := t - pad + j
				if pos < 0 || pos >= f.in.Rows {
					continue
				}
				off := (k*l.width + j) * l.dim
				tensor.Axpy(dz, f.in.Row(pos), dw[off:off+l.dim])
			}
		}
	}
	return tensor.Matrix{}
}

func leaky(z float32) float32 {
	if z > 0 {
		return z
	}
	return Alpha * z
}

func leakyDerivative(z float32) float32 {
	if z > 0 {
		return 1
	}
	return Alpha
}
