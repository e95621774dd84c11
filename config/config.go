// Package config provides configuration management for textcnn.
package config

import "os"
import "strings"

import "github.com/google/renameio"
import "github.com/pkg/errors"
import "gopkg.in/yaml.v3"

import "github.com/neurlang/textcnn/datasets/corpus"
import "github.com/neurlang/textcnn/encoder"
import "github.com/neurlang/textcnn/layer/globalpool"
import "github.com/neurlang/textcnn/learning"
import "github.com/neurlang/textcnn/net/convnet"
import "github.com/neurlang/textcnn/resource"
import "github.com/neurlang/textcnn/wordvec"

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "TEXTCNN_CONFIG"

// Config holds all configuration for training and inference.
type Config struct {
	Data       DataConfig               `yaml:"data"`
	Embeddings EmbeddingsConfig         `yaml:"embeddings"`
	Model      ModelConfig              `yaml:"model"`
	Learning   learning.HyperParameters `yaml:"learning"`
	Training   TrainingConfig           `yaml:"training"`
}

// DataConfig locates the corpora and the model file.
type DataConfig struct {
	TrainFile         string `yaml:"train_file"`
	EvalFile          string `yaml:"eval_file"`
	ModelFile         string `yaml:"model_file"`
	Encoding          string `yaml:"encoding"`
	IncludeLastRecord bool   `yaml:"include_last_record"`
}

// EmbeddingsConfig locates the word vectors.
type EmbeddingsConfig struct {
	Path      string `yaml:"path"`
	Format    string `yaml:"format"`
	OOV       string `yaml:"oov"`
	CacheSize int    `yaml:"cache_size"`
}

// ModelConfig is the network architecture.
type ModelConfig struct {
	MaxLength    int                `yaml:"max_length"`
	EmbeddingDim int                `yaml:"embedding_dim"`
	FeatureMaps  int                `yaml:"feature_maps"`
	KernelWidths []int              `yaml:"kernel_widths"`
	Pooling      globalpool.Pooling `yaml:"pooling"`
	Dropout      float32            `yaml:"dropout"`
	Seed         int64              `yaml:"seed"`
}

// TrainingConfig drives the epoch loop.
type TrainingConfig struct {
	BatchSize int `yaml:"batch_size"`
	Epochs    int `yaml:"epochs"`
	LogEvery  int `yaml:"log_every"`
	Workers   int `yaml:"workers"`
}

// Default returns a Config with the defaults of the reference setup.
func Default() *Config {
	net := convnet.DefaultConfig()
	return &Config{
		Data: DataConfig{
			TrainFile: "data/train.txt",
			EvalFile:  "data/test.txt",
			ModelFile: "data/cnn.model",
			Encoding:  corpus.DefaultEncoding,
		},
		Embeddings: EmbeddingsConfig{
			Path:      "data/word2vec.txt",
			OOV:       encoder.SkipUnknown.String(),
			CacheSize: wordvec.DefaultCacheSize,
		},
		Model: ModelConfig{
			MaxLength:    net.MaxLength,
			EmbeddingDim: net.EmbeddingDim,
			FeatureMaps:  net.FeatureMaps,
			KernelWidths: net.KernelWidths,
			Pooling:      net.Pooling,
			Dropout:      net.Dropout,
			Seed:         net.Seed,
		},
		Learning: net.Learning,
		Training: TrainingConfig{
			BatchSize: 64,
			Epochs:    100,
			LogEvery:  100,
		},
	}
}

// applyDefaults fills fields left empty by a partial file.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Data.Encoding == "" {
		c.Data.Encoding = d.Data.Encoding
	}
	if c.Embeddings.OOV == "" {
		c.Embeddings.OOV = d.Embeddings.OOV
	}
	if c.Embeddings.CacheSize == 0 {
		c.Embeddings.CacheSize = d.Embeddings.CacheSize
	}
	if len(c.Model.KernelWidths) == 0 {
		c.Model.KernelWidths = d.Model.KernelWidths
	}
	if c.Learning.Updater == "" {
		c.Learning.Updater = d.Learning.Updater
	}
	if c.Learning.Beta1 == 0 && c.Learning.Beta2 == 0 {
		c.Learning.Beta1, c.Learning.Beta2 = d.Learning.Beta1, d.Learning.Beta2
	}
	if c.Learning.Epsilon == 0 {
		c.Learning.Epsilon = d.Learning.Epsilon
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := encoder.ParseOOVPolicy(c.Embeddings.OOV); !ok {
		return errors.Errorf("embeddings.oov must be 'skip' or 'zero', got %q", c.Embeddings.OOV)
	}
	switch wordvec.Format(strings.ToLower(c.Embeddings.Format)) {
	case "", wordvec.FormatText, wordvec.FormatBinary, wordvec.FormatSQLite:
	default:
		return errors.Errorf("embeddings.format must be text, binary or sqlite, got %q", c.Embeddings.Format)
	}
	if c.Training.BatchSize < 1 {
		return errors.New("training.batch_size must be at least 1")
	}
	if c.Training.Epochs < 0 {
		return errors.New("training.epochs must not be negative")
	}
	if c.Training.LogEvery < 0 {
		return errors.New("training.log_every must not be negative")
	}
	if c.Training.Workers < 0 {
		return errors.New("training.workers must not be negative")
	}
	if err := c.Network().Validate(); err != nil {
		return errors.Wrap(err, "model")
	}
	return nil
}

// Network returns the classifier configuration. NumLabels is left zero and
// taken from the label vocabulary.
func (c *Config) Network() convnet.Config {
	return convnet.Config{
		MaxLength:    c.Model.MaxLength,
		EmbeddingDim: c.Model.EmbeddingDim,
		FeatureMaps:  c.Model.FeatureMaps,
		KernelWidths: append([]int(nil), c.Model.KernelWidths...),
		Pooling:      c.Model.Pooling,
		Dropout:      c.Model.Dropout,
		Seed:         c.Model.Seed,
		Workers:      c.Training.Workers,
		Learning:     c.Learning,
	}
}

// OOVPolicy returns the parsed unknown-token policy.
func (c *Config) OOVPolicy() encoder.OOVPolicy {
	p, _ := encoder.ParseOOVPolicy(c.Embeddings.OOV)
	return p
}

// Path returns name, or the file named by TEXTCNN_CONFIG when name is empty.
func Path(name string) string {
	if name != "" {
		return name
	}
	return os.Getenv(EnvConfig)
}

// Load reads the YAML file at name over the defaults. An empty name falls back
// to TEXTCNN_CONFIG; if that is unset too, the defaults are returned.
func Load(name string) (*Config, error) {
	cfg := Default()
	name = Path(name)
	if name == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, resource.Classify(name, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, resource.Unreadable(name, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return cfg, nil
}

// Save writes the configuration to name atomically.
func (c *Config) Save(name string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrapf(renameio.WriteFile(name, data, 0644), "save config %s", name)
}
