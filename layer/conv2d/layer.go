// Package conv2d implements a one-branch sentence convolution layer and combiner
package conv2d

import "fmt"

import "github.com/neurlang/textcnn/layer"

// Alpha is the negative slope of the leaky rectifier.
const Alpha = 0.01

// Conv2DLayer slides filters of width x dim over the token axis with stride
// one and same padding, followed by a leaky rectifier.
type Conv2DLayer struct {
	width, dim, filters int
	weights, bias       *layer.Param
}

// MustNew creates a new Conv2D layer with kernel width, embedding dim and filter count
func MustNew(width, dim, filters int) *Conv2DLayer {
	o, err := New(width, dim, filters)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new Conv2D layer with kernel width, embedding dim and filter count
func New(width, dim, filters int) (o *Conv2DLayer, err error) {
	if width < 1 {
		return nil, fmt.Errorf("New Conv2D: Width %d is lower than 1", width)
	}
	if dim < 1 {
		return nil, fmt.Errorf("New Conv2D: Dim %d is lower than 1", dim)
	}
	if filters < 1 {
		return nil, fmt.Errorf("New Conv2D: Filters %d is lower than 1", filters)
	}
	o = new(Conv2DLayer)
	o.width = width
	o.dim = dim
	o.filters = filters
	o.weights = layer.NewParam(fmt.Sprintf("conv%d/W", width), true, filters, width, dim)
	o.bias = layer.NewParam(fmt.Sprintf("conv%d/b", width), false, filters)
	return
}

// Width returns the kernel width in tokens.
func (i *Conv2DLayer) Width() int {
	return i.width
}

// Filters returns the number of output channels.
func (i *Conv2DLayer) Filters() int {
	return i.filters
}

// FanIn is the number of inputs seen by one filter.
func (i *Conv2DLayer) FanIn() int {
	return i.width * i.dim
}

// PadBefore is the number of virtual zero rows above the first token.
func (i *Conv2DLayer) PadBefore() int {
	return (i.width - 1) / 2
}

// Weights returns the filter bank, shaped [filters, width, dim].
func (i *Conv2DLayer) Weights() *layer.Param {
	return i.weights
}

// Params returns the filter bank and the bias.
func (i *Conv2DLayer) Params() []*layer.Param {
	return []*layer.Param{i.weights, i.bias}
}

// Lay turns Conv2D layer into a combiner
func (i *Conv2DLayer) Lay() layer.Combiner {
	return &Conv2D{l: i}
}
