// Package full implements a fully connected output layer and combiner
package full

import "fmt"

import "github.com/neurlang/textcnn/layer"

// FullLayer projects a [1, in] row to [1, out] logits.
type FullLayer struct {
	in, out       int
	weights, bias *layer.Param
}

// MustNew creates a new full layer with input and output size
func MustNew(in, out int) *FullLayer {
	o, err := New(in, out)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new full layer with input and output size
func New(in, out int) (o *FullLayer, err error) {
	if in < 1 || out < 1 {
		return nil, fmt.Errorf("New Full: size %dx%d", in, out)
	}
	o = new(FullLayer)
	o.in = in
	o.out = out
	o.weights = layer.NewParam("output/W", true, out, in)
	o.bias = layer.NewParam("output/b", false, out)
	return
}

// FanIn is the input width.
func (i *FullLayer) FanIn() int {
	return i.in
}

// Weights returns the projection, shaped [out, in].
func (i *FullLayer) Weights() *layer.Param {
	return i.weights
}

// Params returns the projection and the bias.
func (i *FullLayer) Params() []*layer.Param {
	return []*layer.Param{i.weights, i.bias}
}

// Lay turns full layer into a combiner
func (i *FullLayer) Lay() layer.Combiner {
	return &Full{l: i}
}
