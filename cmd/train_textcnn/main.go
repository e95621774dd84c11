package main

import "context"
import "fmt"
import "io"
import "log/slog"
import "os"
import "os/signal"

import "github.com/alexflint/go-arg"
import "github.com/joho/godotenv"
import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/batch"
import "github.com/neurlang/textcnn/config"
import "github.com/neurlang/textcnn/datasets/corpus"
import "github.com/neurlang/textcnn/datasets/sentences"
import "github.com/neurlang/textcnn/encoder"
import "github.com/neurlang/textcnn/inference"
import "github.com/neurlang/textcnn/logging"
import "github.com/neurlang/textcnn/net/convnet"
import "github.com/neurlang/textcnn/trainer"
import "github.com/neurlang/textcnn/wordvec"

type args struct {
	Config string `arg:"--config" help:"YAML config file (default $TEXTCNN_CONFIG)"`
	Resume bool   `arg:"--resume" help:"continue training the model file"`
	Epochs *int   `arg:"--epochs" help:"override training.epochs"`
	Train  string `arg:"--train" help:"override data.train_file"`
	Model  string `arg:"--model" help:"override data.model_file"`
	Eval   string `arg:"--eval" help:"override data.eval_file"`
}

func main() {
	_ = godotenv.Load()
	var a args
	arg.MustParse(&a)
	log := logging.Configure(os.Stderr)
	if err := run(a, log); err != nil {
		log.Error("training failed", "error", err)
		os.Exit(1)
	}
}

func run(a args, log *slog.Logger) error {
	cfg, err := config.Load(a.Config)
	if err != nil {
		return err
	}
	if a.Epochs != nil {
		cfg.Training.Epochs = *a.Epochs
	}
	if a.Train != "" {
		cfg.Data.TrainFile = a.Train
	}
	if a.Model != "" {
		cfg.Data.ModelFile = a.Model
	}
	if a.Eval != "" {
		cfg.Data.EvalFile = a.Eval
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logging.CPU(log)

	lines, err := corpus.ReadFile(cfg.Data.TrainFile, cfg.Data.Encoding)
	if err != nil {
		return err
	}
	store := sentences.New(lines, sentences.WithLastRecord(cfg.Data.IncludeLastRecord))
	log.Info("corpus loaded", "file", cfg.Data.TrainFile, "records", store.TotalCount(),
		"discarded", store.Discarded(), "labels", store.NumLabels())
	if store.NumLabels() == 0 {
		return errors.Errorf("%s: no labeled records", cfg.Data.TrainFile)
	}

	log.Info("loading word vectors", "path", cfg.Embeddings.Path)
	table, err := wordvec.LoadCached(cfg.Embeddings.Path, wordvec.Format(cfg.Embeddings.Format), cfg.Embeddings.CacheSize)
	if err != nil {
		return err
	}
	if c, ok := table.(io.Closer); ok {
		defer c.Close()
	}

	var model *convnet.Classifier
	if a.Resume {
		if model, err = trainer.Resume(cfg.Data.ModelFile); err != nil {
			return err
		}
		if !model.Labels().Equal(store.Labels()) {
			return errors.Errorf("%s: model labels %v differ from corpus labels %v",
				cfg.Data.ModelFile, model.Labels().Labels(), store.Labels().Labels())
		}
		model.SetWorkers(cfg.Training.Workers)
		log.Info("resumed", "model", cfg.Data.ModelFile, "id", model.ID(), "steps", model.Steps())
	} else {
		if model, err = convnet.BuildClassifier(cfg.Network(), store.Labels()); err != nil {
			return err
		}
	}
	net := model.Config()
	if table.Dimension() != net.EmbeddingDim {
		return errors.Errorf("word vectors have dimension %d, model expects %d", table.Dimension(), net.EmbeddingDim)
	}
	enc := encoder.New(table, encoder.WithOOVPolicy(cfg.OOVPolicy()))
	known, tokens := 0, 0
	for _, r := range store.Records() {
		known += enc.Known(r.Text)
		tokens += len(encoder.Tokens(r.Text))
	}
	if err := enc.Err(); err != nil {
		return err
	}
	log.Info("vocabulary coverage", "known", known, "tokens", tokens, "oov", cfg.OOVPolicy())

	total, layers := model.NumParams()
	for _, l := range layers {
		log.Info("parameters", "layer", l.Layer, "count", l.Params)
	}
	log.Info("number of parameters", "total", total)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	it := batch.New(store, enc, model.Labels(), net.MaxLength, batch.WithWorkers(cfg.Training.Workers))
	tr := trainer.New(model,
		trainer.WithLogger(log),
		trainer.WithLogEvery(cfg.Training.LogEvery),
		trainer.WithCheckpoint(cfg.Data.ModelFile),
	)
	log.Info("starting training", "epochs", cfg.Training.Epochs, "batch_size", cfg.Training.BatchSize)
	if _, err := tr.Run(ctx, it, cfg.Training.Epochs, cfg.Training.BatchSize); err != nil {
		return err
	}
	if err := model.WriteCheckpointToFile(cfg.Data.ModelFile); err != nil {
		return err
	}
	log.Info("model written", "path", cfg.Data.ModelFile)

	if cfg.Data.EvalFile == "" {
		return nil
	}
	evalLines, err := corpus.ReadFile(cfg.Data.EvalFile, cfg.Data.Encoding)
	if err != nil {
		return err
	}
	ranker := inference.New(model, enc, net.MaxLength)
	if _, err := ranker.Report(os.Stdout, evalLines); err != nil {
		return err
	}
	e, err := ranker.Evaluate(evalLines)
	if err != nil {
		return err
	}
	fmt.Print(e)
	return nil
}
