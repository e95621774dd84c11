// Package globalpool implements global pooling over the token axis with
// inverted dropout on the pooled units
package globalpool

import "fmt"
import "strings"

import "github.com/neurlang/textcnn/layer"

// Pooling selects how token positions are collapsed.
type Pooling int

const (
	Max Pooling = iota
	Avg
)

// ParsePooling accepts "max" or "avg" in any case.
func ParsePooling(s string) (Pooling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max", "":
		return Max, nil
	case "avg", "average":
		return Avg, nil
	}
	return Max, fmt.Errorf("unknown pooling %q", s)
}

func (p Pooling) String() string {
	if p == Avg {
		return "avg"
	}
	return "max"
}

// MarshalText implements encoding.TextMarshaler.
func (p Pooling) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pooling) UnmarshalText(b []byte) (err error) {
	*p, err = ParsePooling(string(b))
	return
}

// GlobalPoolLayer pools [L, channels] down to [1, channels]. It has no parameters.
type GlobalPoolLayer struct {
	mode     Pooling
	channels int
	dropout  float32
	seed     int64
}

// MustNew creates a new global pooling layer
func MustNew(mode Pooling, channels int, dropout float32, seed int64) *GlobalPoolLayer {
	o, err := New(mode, channels, dropout, seed)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new global pooling layer. dropout is the probability of
// dropping a pooled unit during training.
func New(mode Pooling, channels int, dropout float32, seed int64) (o *GlobalPoolLayer, err error) {
	if channels < 1 {
		return nil, fmt.Errorf("New GlobalPool: Channels %d is lower than 1", channels)
	}
	if !(dropout >= 0 && dropout < 1) {
		return nil, fmt.Errorf("New GlobalPool: Dropout %v outside [0, 1)", dropout)
	}
	return &GlobalPoolLayer{mode: mode, channels: channels, dropout: dropout, seed: seed}, nil
}

// Mode returns the pooling mode.
func (i *GlobalPoolLayer) Mode() Pooling {
	return i.mode
}

// Params returns nothing, pooling is not trainable.
func (i *GlobalPoolLayer) Params() []*layer.Param {
	return nil
}

// Lay turns the pooling layer into a combiner
func (i *GlobalPoolLayer) Lay() layer.Combiner {
	return &GlobalPool{l: i}
}
