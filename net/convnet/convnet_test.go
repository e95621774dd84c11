package convnet

import "bytes"
import "math/rand"
import "os"
import "path/filepath"
import "testing"

import "github.com/chewxy/math32"
import "github.com/pkg/errors"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/textcnn/batch"
import "github.com/neurlang/textcnn/datasets"
import "github.com/neurlang/textcnn/layer/globalpool"
import "github.com/neurlang/textcnn/resource"
import "github.com/neurlang/textcnn/tensor"

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxLength = 4
	cfg.EmbeddingDim = 3
	cfg.FeatureMaps = 2
	cfg.KernelWidths = []int{2, 3}
	cfg.Dropout = 0
	cfg.Seed = 7
	cfg.Workers = 2
	return cfg
}

func abc() datasets.Vocabulary {
	return datasets.NewVocabulary([]string{"c", "a", "b"})
}

func randomBatch(rng *rand.Rand, n int, cfg Config, labels int) *batch.Batch {
	b := &batch.Batch{}
	for i := 0; i < n; i++ {
		m := tensor.NewMatrix(cfg.MaxLength, cfg.EmbeddingDim)
		for j := range m.Data {
			m.Data[j] = float32(rng.NormFloat64())
		}
		t := rng.Intn(labels)
		hot := make([]float32, labels)
		hot[t] = 1
		b.Features = append(b.Features, m)
		b.Labels = append(b.Labels, hot)
		b.Targets = append(b.Targets, t)
	}
	return b
}

func TestBuildClassifier(t *testing.T) {
	c, err := BuildClassifier(smallConfig(), abc())
	require.NoError(t, err)
	assert.Equal(t, 3, c.Config().NumLabels)
	assert.Equal(t, []string{"a", "b", "c"}, c.Labels().Labels())

	total, layers := c.NumParams()
	assert.Equal(t, 49, total)
	assert.Equal(t, []LayerParams{{"conv2", 14}, {"conv3", 20}, {"globalpool", 0}, {"output", 15}}, layers)

	assert.Equal(t, float32(0), c.Param("conv2/b").Value[0])
	assert.NotEqual(t, float32(0), c.Param("conv2/W").Value[0])

	cfg := smallConfig()
	cfg.NumLabels = 2
	_, err = BuildClassifier(cfg, abc())
	assert.Error(t, err)

	_, err = BuildClassifier(smallConfig(), datasets.Vocabulary{})
	assert.Error(t, err)

	cfg = smallConfig()
	cfg.KernelWidths = []int{3, 3}
	_, err = BuildClassifier(cfg, abc())
	assert.Error(t, err)

	cfg = smallConfig()
	cfg.Dropout = 1
	_, err = BuildClassifier(cfg, abc())
	assert.Error(t, err)

	cfg = smallConfig()
	cfg.Learning.Updater = "nesterov"
	_, err = BuildClassifier(cfg, abc())
	assert.Error(t, err)
}

func TestSeedDeterminesWeights(t *testing.T) {
	a, err := BuildClassifier(smallConfig(), abc())
	require.NoError(t, err)
	b, err := BuildClassifier(smallConfig(), abc())
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.ID(), b.ID())

	cfg := smallConfig()
	cfg.Seed = 8
	d, err := BuildClassifier(cfg, abc())
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}

func TestPredictOneIsDistribution(t *testing.T) {
	c, err := BuildClassifier(smallConfig(), abc())
	require.NoError(t, err)
	b := randomBatch(rand.New(rand.NewSource(1)), 5, smallConfig(), 3)
	all := c.Forward(b.Features)
	for i, m := range b.Features {
		p := c.PredictOne(m)
		require.Len(t, p, 3)
		var sum float32
		for _, v := range p {
			assert.True(t, v >= 0)
			sum += v
		}
		assert.InDelta(t, 1, sum, 1e-5)
		assert.Equal(t, p, all[i])
	}

	zero := c.PredictOne(tensor.NewMatrix(4, 3))
	assert.Len(t, zero, 3)
	assert.Panics(t, func() { c.PredictOne(tensor.NewMatrix(4, 5)) })
}

func TestGradientsMatchFiniteDifferences(t *testing.T) {
	for _, pooling := range []globalpool.Pooling{globalpool.Avg, globalpool.Max} {
		cfg := smallConfig()
		cfg.Pooling = pooling
		cfg.Learning.L2 = 0.01
		if pooling == globalpool.Max {
			cfg.Dropout = 0.3
		}
		c, err := BuildClassifier(cfg, abc())
		require.NoError(t, err)
		b := randomBatch(rand.New(rand.NewSource(3)), 6, cfg, 3)

		c.backprop(b, 0)
		analytic := map[string][]float32{}
		for _, p := range c.Params() {
			analytic[p.Name] = append([]float32(nil), p.Grad...)
		}

		const eps = 1e-3
		for _, p := range c.Params() {
			for i := range p.Value {
				orig := p.Value[i]
				p.Value[i] = orig + eps
				up := c.backprop(b, 0)
				p.Value[i] = orig - eps
				down := c.backprop(b, 0)
				p.Value[i] = orig
				numeric := (up - down) / (2 * eps)
				require.InDelta(t, numeric, analytic[p.Name][i], 1e-2, "%s %s[%d]", pooling, p.Name, i)
			}
		}
	}
}

func TestTrainStepReducesLoss(t *testing.T) {
	cfg := smallConfig()
	cfg.Learning.LearningRate = 0.05
	c, err := BuildClassifier(cfg, abc())
	require.NoError(t, err)
	b := randomBatch(rand.New(rand.NewSource(5)), 8, cfg, 3)

	first, err := c.TrainStep(b)
	require.NoError(t, err)
	var last float32
	for i := 0; i < 60; i++ {
		last, err = c.TrainStep(b)
		require.NoError(t, err)
	}
	assert.Less(t, last, first)
	assert.Equal(t, 61, c.Steps())
}

func TestTrainStepReproducible(t *testing.T) {
	cfg := smallConfig()
	cfg.Dropout = 0.5
	cfg.Workers = 3
	a, _ := BuildClassifier(cfg, abc())
	b, _ := BuildClassifier(cfg, abc())
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 4; i++ {
		bt := randomBatch(rng, 7, cfg, 3)
		la, err := a.TrainStep(bt)
		require.NoError(t, err)
		lb, err := b.TrainStep(bt)
		require.NoError(t, err)
		assert.Equal(t, la, lb)
	}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestTrainStepRejectsBadBatch(t *testing.T) {
	c, _ := BuildClassifier(smallConfig(), abc())
	_, err := c.TrainStep(&batch.Batch{})
	assert.Error(t, err)

	b := randomBatch(rand.New(rand.NewSource(1)), 2, smallConfig(), 3)
	b.Targets[1] = 3
	_, err = c.TrainStep(b)
	assert.Error(t, err)
	assert.Equal(t, 0, c.Steps())
}

func TestDivergence(t *testing.T) {
	c, _ := BuildClassifier(smallConfig(), abc())
	c.Param("output/W").Value[0] = math32.NaN()
	before := c.Fingerprint()

	b := randomBatch(rand.New(rand.NewSource(1)), 4, smallConfig(), 3)
	_, err := c.TrainStep(b)
	assert.True(t, errors.Is(err, ErrDivergence))
	assert.Equal(t, before, c.Fingerprint())
	assert.Equal(t, 0, c.Steps())

	c.Param("output/W").Value[0] = math32.Inf(1)
	_, err = c.TrainStep(b)
	assert.True(t, errors.Is(err, ErrDivergence))
}

func TestCheckpointRoundTrip(t *testing.T) {
	cfg := smallConfig()
	cfg.Workers = 1
	c, _ := BuildClassifier(cfg, abc())
	rng := rand.New(rand.NewSource(11))
	_, err := c.TrainStep(randomBatch(rng, 5, cfg, 3))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.WriteCheckpoint(&buf))
	d, err := ReadCheckpoint(&buf)
	require.NoError(t, err)
	d.SetWorkers(1)

	assert.Equal(t, c.ID(), d.ID())
	assert.Equal(t, c.Steps(), d.Steps())
	assert.True(t, c.Labels().Equal(d.Labels()))
	assert.Equal(t, c.Fingerprint(), d.Fingerprint())
	probe := randomBatch(rng, 3, cfg, 3)
	assert.Equal(t, c.Forward(probe.Features), d.Forward(probe.Features))

	// optimizer state survives, so training continues identically
	next := randomBatch(rng, 5, cfg, 3)
	_, err = c.TrainStep(next)
	require.NoError(t, err)
	_, err = d.TrainStep(next)
	require.NoError(t, err)
	assert.Equal(t, c.Fingerprint(), d.Fingerprint())
}

func TestCheckpointFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "model.lzw")
	c, _ := BuildClassifier(smallConfig(), abc())
	require.NoError(t, c.WriteCheckpointToFile(name))
	require.NoError(t, c.WriteCheckpointToFile(name))
	d, err := ReadCheckpointFromFile(name)
	require.NoError(t, err)
	assert.Equal(t, c.Fingerprint(), d.Fingerprint())

	_, err = ReadCheckpointFromFile(filepath.Join(dir, "missing.lzw"))
	assert.True(t, errors.Is(err, resource.ErrNotFound))

	garbage := filepath.Join(dir, "garbage.lzw")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not a model"), 0644))
	_, err = ReadCheckpointFromFile(garbage)
	assert.True(t, errors.Is(err, resource.ErrUnreadable))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	truncated := filepath.Join(dir, "truncated.lzw")
	require.NoError(t, os.WriteFile(truncated, data[:len(data)/2], 0644))
	_, err = ReadCheckpointFromFile(truncated)
	assert.True(t, errors.Is(err, resource.ErrUnreadable))

	_, err = ReadCheckpointFromFile(dir)
	assert.True(t, errors.Is(err, resource.ErrUnreadable))
}
