// Package convnet implements the multi-branch convolutional sentence classifier
package convnet

import "fmt"
import "math"
import "math/rand"
import "sync"

import "github.com/google/uuid"
import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/datasets"
import "github.com/neurlang/textcnn/layer"
import "github.com/neurlang/textcnn/layer/conv2d"
import "github.com/neurlang/textcnn/layer/full"
import "github.com/neurlang/textcnn/layer/globalpool"
import "github.com/neurlang/textcnn/learning"
import "github.com/neurlang/textcnn/parallel"
import "github.com/neurlang/textcnn/tensor"

// ErrDivergence is returned by TrainStep when the loss is not finite.
var ErrDivergence = errors.New("training diverged")

// Classifier is the convolutional sentence classifier. It is safe for
// concurrent prediction; training takes an exclusive lock.
type Classifier struct {
	mu      sync.RWMutex
	cfg     Config
	labels  datasets.Vocabulary
	id      uuid.UUID
	convs   []*conv2d.Conv2DLayer
	pool    *globalpool.GlobalPoolLayer
	out     *full.FullLayer
	params  []*layer.Param
	updater learning.Updater
}

// BuildClassifier validates cfg and initializes a classifier over labels.
// A zero cfg.NumLabels is taken from labels.
func BuildClassifier(cfg Config, labels datasets.Vocabulary) (*Classifier, error) {
	if labels.Len() == 0 {
		return nil, errors.New("empty label vocabulary")
	}
	if cfg.NumLabels == 0 {
		cfg.NumLabels = labels.Len()
	}
	if cfg.NumLabels != labels.Len() {
		return nil, errors.Errorf("config has %d labels, vocabulary has %d", cfg.NumLabels, labels.Len())
	}
	cfg.KernelWidths = append([]int(nil), cfg.KernelWidths...)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "build classifier")
	}
	updater, err := cfg.Learning.New()
	if err != nil {
		return nil, errors.Wrap(err, "build classifier")
	}
	c := &Classifier{cfg: cfg, labels: labels, id: uuid.New(), updater: updater}
	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, k := range cfg.KernelWidths {
		conv, err := conv2d.New(k, cfg.EmbeddingDim, cfg.FeatureMaps)
		if err != nil {
			return nil, err
		}
		conv.Weights().Normal(rng, he(conv.FanIn()))
		c.convs = append(c.convs, conv)
		c.params = append(c.params, conv.Params()...)
	}
	channels := len(cfg.KernelWidths) * cfg.FeatureMaps
	c.pool, err = globalpool.New(cfg.Pooling, channels, cfg.Dropout, cfg.Seed)
	if err != nil {
		return nil, err
	}
	c.out, err = full.New(channels, cfg.NumLabels)
	if err != nil {
		return nil, err
	}
	c.out.Weights().Normal(rng, he(c.out.FanIn()))
	c.params = append(c.params, c.out.Params()...)
	return c, nil
}

// he is the standard deviation for rectifier layers.
func he(fanIn int) float64 {
	return math.Sqrt(2 / float64(fanIn))
}

// Labels returns the label vocabulary, in probability order.
func (c *Classifier) Labels() datasets.Vocabulary {
	return c.labels
}

// Config returns a copy of the configuration.
func (c *Classifier) Config() Config {
	cfg := c.cfg
	cfg.KernelWidths = append([]int(nil), c.cfg.KernelWidths...)
	return cfg
}

// ID identifies the model across checkpoints.
func (c *Classifier) ID() uuid.UUID {
	return c.id
}

// SetWorkers bounds the goroutines used per step. Zero uses all CPUs.
// Training results are bit-reproducible for a fixed worker count.
func (c *Classifier) SetWorkers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Workers = n
}

// Steps returns the number of applied optimizer updates.
func (c *Classifier) Steps() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updater.Steps()
}

// LayerParams counts the trainable scalars of one layer.
type LayerParams struct {
	Layer  string
	Params int
}

// NumParams returns the total parameter count and its per-layer breakdown.
func (c *Classifier) NumParams() (total int, layers []LayerParams) {
	for _, conv := range c.convs {
		layers = append(layers, LayerParams{fmt.Sprintf("conv%d", conv.Width()), layer.Count(conv.Params())})
	}
	layers = append(layers, LayerParams{"globalpool", 0})
	layers = append(layers, LayerParams{"output", layer.Count(c.out.Params())})
	for _, l := range layers {
		total += l.Params
	}
	return
}

// Fingerprint hashes every parameter value.
func (c *Classifier) Fingerprint() [32]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h := parallel.NewHasher(len(c.params))
	parallel.ForEach(len(c.params), parallel.Workers(c.cfg.Workers), func(i int) {
		h.MustPutFloat32s(i, c.params[i].Value)
	})
	return h.Sum()
}

// Param returns the named parameter, or nil.
func (c *Classifier) Param(name string) *layer.Param {
	for _, p := range c.params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Params returns the parameters in their fixed order. The slices alias the
// live model.
func (c *Classifier) Params() []*layer.Param {
	return c.params
}

// PredictOne returns label probabilities for one encoded sentence. Dropout
// is disabled. It panics if the embedding width does not match.
func (c *Classifier) PredictOne(m tensor.Matrix) []float32 {
	c.checkWidth(m)
	c.mu.RLock()
	defer c.mu.RUnlock()
	probs := c.lay().forward(m, false)
	tensor.Softmax(probs, probs)
	return probs
}

// Forward returns label probabilities for every example, in inference mode.
func (c *Classifier) Forward(features []tensor.Matrix) [][]float32 {
	for _, m := range features {
		c.checkWidth(m)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	o := make([][]float32, len(features))
	chunks := parallel.Chunks(len(features), parallel.Workers(c.cfg.Workers))
	parallel.ForEach(len(chunks), len(chunks), func(ci int) {
		ws := c.lay()
		for i := chunks[ci][0]; i < chunks[ci][1]; i++ {
			o[i] = ws.forward(features[i], false)
			tensor.Softmax(o[i], o[i])
		}
	})
	return o
}

func (c *Classifier) checkWidth(m tensor.Matrix) {
	if m.Cols != c.cfg.EmbeddingDim && m.Rows != 0 {
		panic(fmt.Sprintf("sentence width %d, classifier expects %d", m.Cols, c.cfg.EmbeddingDim))
	}
}
