// Package batch groups encoded sentences and one-hot labels into mini-batches.
package batch

import "io"

import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/datasets"
import "github.com/neurlang/textcnn/parallel"
import "github.com/neurlang/textcnn/tensor"

// Provider yields (sentence, label) pairs and can be rewound.
type Provider interface {
	HasNext() bool
	Next() (sentence, label string)
	Reset()
}

// Encoder encodes one sentence into a maxLength x dim matrix. Err reports a
// failure of the underlying embedding table.
type Encoder interface {
	Encode(sentence string, maxLength int) tensor.Matrix
	Err() error
}

// Batch is one mini-batch. It is consumed once by the trainer.
type Batch struct {
	Features []tensor.Matrix
	Labels   [][]float32
	Targets  []int
}

// Size returns the number of examples.
func (b *Batch) Size() int {
	return len(b.Features)
}

// Iterator produces batches from a Provider.
type Iterator struct {
	provider  Provider
	encoder   Encoder
	labels    datasets.Vocabulary
	maxLength int
	workers   int
}

// Option configures an Iterator.
type Option func(*Iterator)

// WithWorkers sets how many sentences are encoded concurrently. Zero uses all CPUs.
func WithWorkers(n int) Option {
	return func(it *Iterator) {
		it.workers = n
	}
}

// New creates an iterator. labels must be the vocabulary fixed before training.
func New(p Provider, enc Encoder, labels datasets.Vocabulary, maxLength int, opts ...Option) *Iterator {
	it := &Iterator{provider: p, encoder: enc, labels: labels, maxLength: maxLength}
	for _, o := range opts {
		o(it)
	}
	return it
}

// Labels returns the vocabulary used for one-hot encoding.
func (it *Iterator) Labels() datasets.Vocabulary {
	return it.labels
}

// Next returns up to batchSize examples, or io.EOF when the epoch is over.
func (it *Iterator) Next(batchSize int) (*Batch, error) {
	if batchSize <= 0 {
		return nil, errors.Errorf("batch size %d", batchSize)
	}
	var sentences []string
	b := &Batch{}
	for len(sentences) < batchSize && it.provider.HasNext() {
		sentence, label := it.provider.Next()
		hot, err := it.labels.OneHot(label)
		if err != nil {
			return nil, errors.Wrap(err, "batch")
		}
		idx, _ := it.labels.Index(label)
		sentences = append(sentences, sentence)
		b.Labels = append(b.Labels, hot)
		b.Targets = append(b.Targets, idx)
	}
	if len(sentences) == 0 {
		return nil, io.EOF
	}
	b.Features = make([]tensor.Matrix, len(sentences))
	parallel.ForEach(len(sentences), parallel.Workers(it.workers), func(i int) {
		b.Features[i] = it.encoder.Encode(sentences[i], it.maxLength)
	})
	if err := it.encoder.Err(); err != nil {
		return nil, errors.Wrap(err, "batch")
	}
	return b, nil
}

// Reset rewinds the underlying provider for another epoch.
func (it *Iterator) Reset() {
	it.provider.Reset()
}
