package inference

import "bytes"
import "math"
import "testing"

import "github.com/pkg/errors"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/textcnn/datasets"
import "github.com/neurlang/textcnn/tensor"

type fixed struct {
	labels datasets.Vocabulary
	probs  []float32
	seen   []tensor.Matrix
}

func (f *fixed) PredictOne(m tensor.Matrix) []float32 {
	f.seen = append(f.seen, m)
	return append([]float32(nil), f.probs...)
}

func (f *fixed) Labels() datasets.Vocabulary {
	return f.labels
}

type lengthEncoder struct {
	err error
}

func (lengthEncoder) Encode(sentence string, maxLength int) tensor.Matrix {
	m := tensor.NewMatrix(maxLength, 1)
	m.Data[0] = float32(len(sentence))
	return m
}

func (e lengthEncoder) Err() error {
	return e.err
}

func ranker(probs ...float32) (*Ranker, *fixed) {
	f := &fixed{labels: datasets.NewVocabulary([]string{"A", "B", "C"}), probs: probs}
	return New(f, lengthEncoder{}, 4), f
}

func TestClassifyRanks(t *testing.T) {
	r, f := ranker(0.2, 0.7, 0.1)
	ranked, err := r.Classify("B red shoes")
	require.NoError(t, err)
	assert.Equal(t, "B", ranked.Type)
	assert.Equal(t, "red shoes", ranked.Text)
	require.Len(t, ranked.Scores, 3)
	assert.Equal(t, []string{"B", "A", "C"}, []string{ranked.Scores[0].Label, ranked.Scores[1].Label, ranked.Scores[2].Label})
	assert.Equal(t, "B", ranked.Top())
	require.Len(t, f.seen, 1)
	assert.Equal(t, float32(9), f.seen[0].Data[0])
	assert.Equal(t, 4, f.seen[0].Rows)
}

func TestClassifyDescendingOrder(t *testing.T) {
	r, _ := ranker(0.7, 0.2, 0.1)
	ranked, err := r.Classify("A x")
	require.NoError(t, err)
	assert.Equal(t, "A", ranked.Scores[0].Label)
	assert.Equal(t, "B", ranked.Scores[1].Label)
	assert.Equal(t, "C", ranked.Scores[2].Label)
}

func TestClassifyTiesKeepVocabularyOrder(t *testing.T) {
	r, _ := ranker(0.25, 0.5, 0.25)
	ranked, err := r.Classify("A x")
	require.NoError(t, err)
	assert.Equal(t, "B", ranked.Scores[0].Label)
	assert.Equal(t, "A", ranked.Scores[1].Label)
	assert.Equal(t, "C", ranked.Scores[2].Label)
}

func TestClassifyMalformed(t *testing.T) {
	r, _ := ranker(0.7, 0.2, 0.1)
	_, err := r.Classify("nolabel")
	assert.True(t, errors.Is(err, ErrMalformed))
	_, err = r.Classify(" leading space")
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestRound(t *testing.T) {
	for in, want := range map[float64]float64{
		0.1234565: 0.123457,
		0.1234564: 0.123456,
		0.7:       0.7,
		1:         1,
		0:         0,
		1e-7:      0,
		5e-7:      0.000001,
	} {
		got, err := Round(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%v", in)
	}
	_, err := Round(math.NaN())
	assert.Error(t, err)
	_, err = Round(math.Inf(-1))
	assert.Error(t, err)
}

func TestFormatSkipsUnroundable(t *testing.T) {
	s := Format([]Score{{"A", 0.7}, {"B", math.NaN()}, {"C", 0.1234565}})
	assert.Equal(t, "[A(0.7), C(0.123457)]", s)
	assert.Equal(t, "[]", Format(nil))
}

func TestReport(t *testing.T) {
	r, _ := ranker(0.1, 0.2, 0.7)
	var buf bytes.Buffer
	n, err := r.Report(&buf, []string{"A blue lamp", "broken", "C desk"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Type:A, ProductName : blue lamp\n"+
		"   CNN Classify Result : [C(0.7), B(0.2), A(0.1)]\n"+
		"Type:C, ProductName : desk\n"+
		"   CNN Classify Result : [C(0.7), B(0.2), A(0.1)]\n", buf.String())
}

func TestEvaluate(t *testing.T) {
	r, _ := ranker(0.1, 0.2, 0.7)
	e, err := r.Evaluate([]string{"C a", "A b", "C c", "bad", "Z d"})
	require.NoError(t, err)
	assert.Equal(t, 4, e.Total)
	assert.Equal(t, 2, e.Correct)
	assert.Equal(t, 1, e.Skipped)
	assert.Equal(t, 0.5, e.Accuracy())
	assert.Equal(t, 2, e.Confusion["C"]["C"])
	assert.Equal(t, 1, e.Confusion["A"]["C"])
	assert.Equal(t, 1, e.Confusion["Z"]["C"])
	assert.Contains(t, e.String(), "Accuracy: 0.5000")
	assert.Contains(t, e.String(), "  A -> C: 1\n")
	assert.Equal(t, 0.0, Evaluation{}.Accuracy())
}

func TestTableFailureStopsInference(t *testing.T) {
	broken := errors.New("vectors corrupt")
	f := &fixed{labels: datasets.NewVocabulary([]string{"A", "B", "C"}), probs: []float32{0.1, 0.2, 0.7}}
	r := New(f, lengthEncoder{err: broken}, 4)

	_, err := r.Classify("A blue lamp")
	assert.True(t, errors.Is(err, broken))
	assert.False(t, errors.Is(err, ErrMalformed))

	var buf bytes.Buffer
	n, err := r.Report(&buf, []string{"broken", "A blue lamp"})
	assert.True(t, errors.Is(err, broken))
	assert.Equal(t, 0, n)
	assert.Empty(t, buf.String())

	_, err = r.Evaluate([]string{"A blue lamp"})
	assert.True(t, errors.Is(err, broken))
}
