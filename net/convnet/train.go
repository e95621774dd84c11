package convnet

import "github.com/chewxy/math32"
import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/batch"
import "github.com/neurlang/textcnn/layer"
import "github.com/neurlang/textcnn/parallel"
import "github.com/neurlang/textcnn/tensor"

// TrainStep runs forward and backward over b and applies exactly one
// optimizer update. It returns the mean cross-entropy plus the L2 penalty.
// If that loss is not finite, ErrDivergence is returned and the parameters
// are left untouched.
func (c *Classifier) TrainStep(b *batch.Batch) (float32, error) {
	n := b.Size()
	if n == 0 {
		return 0, errors.New("empty batch")
	}
	if len(b.Targets) != n {
		return 0, errors.Errorf("batch has %d targets for %d examples", len(b.Targets), n)
	}
	for i, m := range b.Features {
		if m.Cols != c.cfg.EmbeddingDim {
			return 0, errors.Errorf("example %d has width %d, want %d", i, m.Cols, c.cfg.EmbeddingDim)
		}
		if b.Targets[i] < 0 || b.Targets[i] >= c.cfg.NumLabels {
			return 0, errors.Errorf("example %d has target %d", i, b.Targets[i])
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	loss := c.backprop(b, c.updater.Steps())
	if !tensor.Finite(loss) {
		return loss, ErrDivergence
	}
	c.updater.Update(c.params)
	return loss, nil
}

// backprop leaves the batch gradient of the regularized loss in every
// Param.Grad and returns that loss. Dropout masks are keyed by step.
// Per-example work is split into fixed chunks whose results are summed in
// chunk order, so the result does not depend on scheduling.
func (c *Classifier) backprop(b *batch.Batch, step int) float32 {
	n := b.Size()
	type partial struct {
		loss  float32
		grads [][]float32
	}
	chunks := parallel.Chunks(n, parallel.Workers(c.cfg.Workers))
	parts := make([]partial, len(chunks))
	parallel.ForEach(len(chunks), len(chunks), func(ci int) {
		ws := c.lay()
		grads := layer.Grads(c.params)
		probs := make([]float32, c.cfg.NumLabels)
		var loss float32
		for i := chunks[ci][0]; i < chunks[ci][1]; i++ {
			ws.pool.Key(step, i)
			logits := ws.forward(b.Features[i], true)
			loss += crossEntropy(logits, b.Targets[i])
			tensor.Softmax(logits, probs)
			probs[b.Targets[i]] -= 1
			for j := range probs {
				probs[j] /= float32(n)
			}
			ws.backward(probs, grads)
		}
		parts[ci] = partial{loss, grads}
	})

	var loss float32
	for _, p := range c.params {
		tensor.Zero(p.Grad)
	}
	for _, part := range parts {
		loss += part.loss
		for pi, p := range c.params {
			tensor.Axpy(1, part.grads[pi], p.Grad)
		}
	}
	loss /= float32(n)
	return loss + c.cfg.Learning.Regularize(c.params)
}

// crossEntropy is -log softmax(logits)[target], computed without forming
// the probabilities.
func crossEntropy(logits []float32, target int) float32 {
	max := logits[0]
	for _, v := range logits[1:] {
		max = math32.Max(max, v)
	}
	var sum float32
	for _, v := range logits {
		sum += math32.Exp(v - max)
	}
	return max + math32.Log(sum) - logits[target]
}
