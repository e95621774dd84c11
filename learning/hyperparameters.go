// Package learning implements the optimizers that update classifier parameters
package learning

import "strings"

import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/layer"

// HyperParameters configure the optimizer and the weight penalty.
type HyperParameters struct {
	Updater      string  `json:"updater" yaml:"updater"`
	LearningRate float32 `json:"learning_rate" yaml:"learning_rate"`
	L2           float32 `json:"l2" yaml:"l2"`
	Beta1        float32 `json:"beta1" yaml:"beta1"`
	Beta2        float32 `json:"beta2" yaml:"beta2"`
	Epsilon      float32 `json:"epsilon" yaml:"epsilon"`
}

// Updater names.
const (
	UpdaterAdam = "adam"
	UpdaterSGD  = "sgd"
)

// Default returns Adam with learning rate 0.01 and L2 1e-4.
func Default() HyperParameters {
	return HyperParameters{
		Updater:      UpdaterAdam,
		LearningRate: 0.01,
		L2:           1e-4,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}

// Validate checks the ranges of all fields.
func (h HyperParameters) Validate() error {
	switch strings.ToLower(h.Updater) {
	case UpdaterAdam:
		if !(h.Beta1 >= 0 && h.Beta1 < 1) || !(h.Beta2 >= 0 && h.Beta2 < 1) {
			return errors.Errorf("adam betas %v, %v outside [0, 1)", h.Beta1, h.Beta2)
		}
		if !(h.Epsilon > 0) {
			return errors.Errorf("adam epsilon %v must be positive", h.Epsilon)
		}
	case UpdaterSGD:
	default:
		return errors.Errorf("unknown updater %q", h.Updater)
	}
	if !(h.LearningRate > 0) {
		return errors.Errorf("learning rate %v must be positive", h.LearningRate)
	}
	if !(h.L2 >= 0) {
		return errors.Errorf("l2 %v must not be negative", h.L2)
	}
	return nil
}

// New creates the configured updater.
func (h HyperParameters) New() (Updater, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if strings.ToLower(h.Updater) == UpdaterSGD {
		return &SGD{h: h}, nil
	}
	return &Adam{h: h, m: map[string][]float32{}, v: map[string][]float32{}}, nil
}

// Regularize adds the L2 gradient to every decayed parameter and returns
// the penalty ½·L2·Σw².
func (h HyperParameters) Regularize(params []*layer.Param) (penalty float32) {
	if h.L2 == 0 {
		return 0
	}
	for _, p := range params {
		if !p.Decay {
			continue
		}
		var sq float32
		for i, w := range p.Value {
			sq += w * w
			p.Grad[i] += h.L2 * w
		}
		penalty += sq
	}
	return 0.5 * h.L2 * penalty
}
