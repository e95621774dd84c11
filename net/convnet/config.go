package convnet

import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/layer/globalpool"
import "github.com/neurlang/textcnn/learning"

// Config declares the classifier architecture and its optimizer.
type Config struct {
	MaxLength    int                      `json:"max_length"`
	EmbeddingDim int                      `json:"embedding_dim"`
	FeatureMaps  int                      `json:"feature_maps"`
	KernelWidths []int                    `json:"kernel_widths"`
	Pooling      globalpool.Pooling       `json:"pooling"`
	Dropout      float32                  `json:"dropout"`
	NumLabels    int                      `json:"num_labels"`
	Seed         int64                    `json:"seed"`
	Workers      int                      `json:"-"`
	Learning     learning.HyperParameters `json:"learning"`
}

// DefaultConfig returns a 3/4/5 kernel network with 100 maps per width over
// 200-dimensional embeddings of up to 50 tokens.
func DefaultConfig() Config {
	return Config{
		MaxLength:    50,
		EmbeddingDim: 200,
		FeatureMaps:  100,
		KernelWidths: []int{3, 4, 5},
		Pooling:      globalpool.Max,
		Dropout:      0.5,
		Seed:         12345,
		Learning:     learning.Default(),
	}
}

// Validate checks the architecture. NumLabels may be zero before the label
// vocabulary is known.
func (c Config) Validate() error {
	if c.MaxLength < 1 {
		return errors.Errorf("max length %d must be positive", c.MaxLength)
	}
	if c.EmbeddingDim < 1 {
		return errors.Errorf("embedding dim %d must be positive", c.EmbeddingDim)
	}
	if c.FeatureMaps < 1 {
		return errors.Errorf("feature maps %d must be positive", c.FeatureMaps)
	}
	if len(c.KernelWidths) == 0 {
		return errors.New("no kernel widths")
	}
	seen := map[int]bool{}
	for _, k := range c.KernelWidths {
		if k < 1 {
			return errors.Errorf("kernel width %d must be positive", k)
		}
		if seen[k] {
			return errors.Errorf("kernel width %d repeated", k)
		}
		seen[k] = true
	}
	if c.Pooling != globalpool.Max && c.Pooling != globalpool.Avg {
		return errors.Errorf("pooling %d", c.Pooling)
	}
	if !(c.Dropout >= 0 && c.Dropout < 1) {
		return errors.Errorf("dropout %v outside [0, 1)", c.Dropout)
	}
	if c.NumLabels < 0 {
		return errors.Errorf("num labels %d", c.NumLabels)
	}
	return errors.Wrap(c.Learning.Validate(), "learning")
}
