package layer

import "math/rand"

// Param is one trainable tensor. Grad has the same length as Value.
type Param struct {
	Name  string
	Shape []int
	Value []float32
	Grad  []float32

	// Decay reports whether L2 regularization applies (weights, not biases).
	Decay bool
}

// NewParam allocates a zeroed parameter of the given shape.
func NewParam(name string, decay bool, shape ...int) *Param {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &Param{
		Name:  name,
		Shape: append([]int(nil), shape...),
		Value: make([]float32, n),
		Grad:  make([]float32, n),
		Decay: decay,
	}
}

// Len returns the number of scalars.
func (p *Param) Len() int {
	return len(p.Value)
}

// Normal fills the values from N(0, std).
func (p *Param) Normal(rng *rand.Rand, std float64) {
	for i := range p.Value {
		p.Value[i] = float32(rng.NormFloat64() * std)
	}
}

// Layer is the layer which can be used for instantiating a combiner
type Layer interface {

	// Params lists the trainable parameters in a fixed order.
	Params() []*Param

	// Lay creates a combiner
	Lay() Combiner
}

// Grads allocates zeroed gradient buffers aligned with params.
func Grads(params []*Param) [][]float32 {
	o := make([][]float32, len(params))
	for i, p := range params {
		o[i] = make([]float32, p.Len())
	}
	return o
}

// Count returns the number of scalars in params.
func Count(params []*Param) (n int) {
	for _, p := range params {
		n += p.Len()
	}
	return
}
