// Package layer defines the trainable layer and per-example combiner interfaces
package layer

import "github.com/neurlang/textcnn/tensor"

// Combiner is a per-example workspace of a layer. It remembers what Forward
// saw so that Backward can turn output gradients into parameter gradients.
// A combiner is not safe for concurrent use; lay one per goroutine.
type Combiner interface {

	// Forward computes the layer output. train enables train-only behavior.
	Forward(in tensor.Matrix, train bool) tensor.Matrix

	// Backward accumulates parameter gradients into grads (aligned with
	// Params) and returns the gradient with respect to the input. Layers
	// that never need an input gradient may return an empty matrix.
	Backward(dout tensor.Matrix, grads [][]float32) tensor.Matrix
}
