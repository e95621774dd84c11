package main

import "fmt"
import "io"
import "log/slog"
import "os"

import "github.com/alexflint/go-arg"
import "github.com/joho/godotenv"
import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/config"
import "github.com/neurlang/textcnn/datasets/corpus"
import "github.com/neurlang/textcnn/encoder"
import "github.com/neurlang/textcnn/inference"
import "github.com/neurlang/textcnn/logging"
import "github.com/neurlang/textcnn/net/convnet"
import "github.com/neurlang/textcnn/wordvec"

type args struct {
	Config   string `arg:"--config" help:"YAML config file (default $TEXTCNN_CONFIG)"`
	Model    string `arg:"--model" help:"override data.model_file"`
	Input    string `arg:"--input" help:"records to classify (default data.eval_file)"`
	Evaluate bool   `arg:"--evaluate" help:"also print accuracy against the recorded labels"`
}

func main() {
	_ = godotenv.Load()
	var a args
	arg.MustParse(&a)
	log := logging.Configure(os.Stderr)
	if err := run(a, log); err != nil {
		log.Error("inference failed", "error", err)
		os.Exit(1)
	}
}

func run(a args, log *slog.Logger) error {
	cfg, err := config.Load(a.Config)
	if err != nil {
		return err
	}
	if a.Model != "" {
		cfg.Data.ModelFile = a.Model
	}
	if a.Input == "" {
		a.Input = cfg.Data.EvalFile
	}

	model, err := convnet.ReadCheckpointFromFile(cfg.Data.ModelFile)
	if err != nil {
		return err
	}
	model.SetWorkers(cfg.Training.Workers)
	net := model.Config()
	log.Info("model loaded", "path", cfg.Data.ModelFile, "id", model.ID(), "labels", model.Labels().Len())

	table, err := wordvec.LoadCached(cfg.Embeddings.Path, wordvec.Format(cfg.Embeddings.Format), cfg.Embeddings.CacheSize)
	if err != nil {
		return err
	}
	if c, ok := table.(io.Closer); ok {
		defer c.Close()
	}
	if table.Dimension() != net.EmbeddingDim {
		return errors.Errorf("word vectors have dimension %d, model expects %d", table.Dimension(), net.EmbeddingDim)
	}

	lines, err := corpus.ReadFile(a.Input, cfg.Data.Encoding)
	if err != nil {
		return err
	}
	ranker := inference.New(model, encoder.New(table, encoder.WithOOVPolicy(cfg.OOVPolicy())), net.MaxLength)
	n, err := ranker.Report(os.Stdout, lines)
	if err != nil {
		return err
	}
	log.Info("classified", "records", n, "skipped", len(lines)-n)
	if a.Evaluate {
		e, err := ranker.Evaluate(lines)
		if err != nil {
			return err
		}
		fmt.Print(e)
	}
	return nil
}
