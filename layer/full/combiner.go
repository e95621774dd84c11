package full

import "github.com/neurlang/textcnn/tensor"

// Full is the per-example combiner of a FullLayer.
type Full struct {
	l  *FullLayer
	in tensor.Matrix
}

// Forward computes the logits.
func (f *Full) Forward(in tensor.Matrix, train bool) tensor.Matrix {
	l := f.l
	f.in = in
	out := tensor.NewMatrix(1, l.out)
	w, b := l.weights.Value, l.bias.Value
	for o := 0; o < l.out; o++ {
		out.Data[o] = b[o] + tensor.Dot(w[o*l.in:(o+1)*l.in], in.Data)
	}
	return out
}

// Backward accumulates projection gradients and returns the input gradient.
func (f *Full) Backward(dout tensor.Matrix, grads [][]float32) tensor.Matrix {
	l := f.l
	dw, db := grads[0], grads[1]
	dx := tensor.NewMatrix(1, l.in)
	w := l.weights.Value
	for o, d := range dout.Data {
		if d == 0 {
			continue
		}
		db[o] += d
		tensor.Axpy(d, f.in.Data, dw[o*l.in:(o+1)*l.in])
		tensor.Axpy(d, w[o*l.in:(o+1)*l.in], dx.Data)
	}
	return dx
}
