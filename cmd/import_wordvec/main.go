package main

import "os"

import "github.com/alexflint/go-arg"
import "github.com/joho/godotenv"
import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/logging"
import "github.com/neurlang/textcnn/wordvec"

func main() {
	_ = godotenv.Load()
	args := struct {
		In     string `arg:"--in,required" help:"word2vec table"`
		Format string `arg:"--format" help:"text or binary (default from extension)"`
		Out    string `arg:"--out,required" help:"sqlite file to create"`
	}{}
	arg.MustParse(&args)
	log := logging.Configure(os.Stderr)

	fail := func(err error) {
		if err != nil {
			log.Error("import failed", "error", err)
			os.Exit(1)
		}
	}

	format := wordvec.Format(args.Format)
	if format == "" {
		format = wordvec.DetectFormat(args.In)
	}
	if format == wordvec.FormatSQLite {
		fail(errors.Errorf("%s is already an sqlite table", args.In))
	}
	table, err := wordvec.Load(args.In, format)
	fail(err)
	m, ok := table.(*wordvec.Memory)
	if !ok {
		fail(errors.Errorf("format %q cannot be imported", format))
	}
	log.Info("read word vectors", "path", args.In, "tokens", m.Len(), "dimension", m.Dimension())
	fail(wordvec.Import(args.Out, m))
	log.Info("wrote sqlite table", "path", args.Out)
}
