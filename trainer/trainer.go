package trainer

import "log/slog"

import "github.com/neurlang/textcnn/batch"

// Model is what the trainer needs from a classifier.
type Model interface {
	TrainStep(b *batch.Batch) (float32, error)
	Fingerprint() [32]byte
}

// Checkpointer is implemented by models that can save themselves.
type Checkpointer interface {
	WriteCheckpointToFile(name string) error
}

// Batches yields the mini-batches of one epoch, then io.EOF.
type Batches interface {
	Next(batchSize int) (*batch.Batch, error)
	Reset()
}

// Trainer drives a Model over Batches.
type Trainer struct {
	model      Model
	logEvery   int
	checkpoint string
	hook       func(EpochStats)
	log        *slog.Logger
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogEvery logs the loss every n iterations. Zero disables it.
func WithLogEvery(n int) Option {
	return func(t *Trainer) {
		t.logEvery = n
	}
}

// WithCheckpoint saves the model to path after every epoch.
func WithCheckpoint(path string) Option {
	return func(t *Trainer) {
		t.checkpoint = path
	}
}

// WithEpochHook calls fn after every completed epoch.
func WithEpochHook(fn func(EpochStats)) Option {
	return func(t *Trainer) {
		t.hook = fn
	}
}

// WithLogger sets the logger, slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(t *Trainer) {
		t.log = l
	}
}

// New creates a trainer logging every 100 iterations.
func New(model Model, opts ...Option) *Trainer {
	t := &Trainer{model: model, logEvery: 100}
	for _, o := range opts {
		o(t)
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	return t
}
