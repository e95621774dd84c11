package inference

import "sort"

import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/datasets"
import "github.com/neurlang/textcnn/tensor"

// ErrMalformed reports a record with no label separator or an empty label.
var ErrMalformed = errors.New("malformed record")

// Predictor returns label probabilities in vocabulary order.
type Predictor interface {
	PredictOne(m tensor.Matrix) []float32
	Labels() datasets.Vocabulary
}

// Encoder turns text into the classifier input. Err reports a failure of
// the underlying embedding table.
type Encoder interface {
	Encode(sentence string, maxLength int) tensor.Matrix
	Err() error
}

// Score is one label probability.
type Score struct {
	Label string
	Prob  float64
}

// Ranked is a record with its labels sorted by descending probability.
// Type is the label the record was written with.
type Ranked struct {
	Type   string
	Text   string
	Scores []Score
}

// Top returns the most probable label.
func (r Ranked) Top() string {
	if len(r.Scores) == 0 {
		return ""
	}
	return r.Scores[0].Label
}

// Ranker classifies records with a trained model.
type Ranker struct {
	model     Predictor
	encoder   Encoder
	maxLength int
}

// New creates a ranker that encodes text to maxLength tokens.
func New(model Predictor, enc Encoder, maxLength int) *Ranker {
	return &Ranker{model: model, encoder: enc, maxLength: maxLength}
}

// Classify scores the text part of raw and ranks every label. Ties keep
// vocabulary order.
func (r *Ranker) Classify(raw string) (Ranked, error) {
	rec, ok := datasets.SplitRecord(raw)
	if !ok {
		return Ranked{}, errors.Wrapf(ErrMalformed, "%q", raw)
	}
	scores := r.Score(rec.Text)
	if err := r.encoder.Err(); err != nil {
		return Ranked{}, errors.Wrapf(err, "classify %q", rec.Text)
	}
	return Ranked{Type: rec.Label, Text: rec.Text, Scores: scores}, nil
}

// Score ranks every label for text.
func (r *Ranker) Score(text string) []Score {
	probs := r.model.PredictOne(r.encoder.Encode(text, r.maxLength))
	labels := r.model.Labels()
	scores := make([]Score, len(probs))
	for i, p := range probs {
		scores[i] = Score{Label: labels.Label(i), Prob: float64(p)}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Prob > scores[j].Prob
	})
	return scores
}
