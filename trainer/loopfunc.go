package trainer

import "context"
import "fmt"
import "io"
import "time"

import "github.com/pkg/errors"

// EpochStats summarizes one pass over the training data.
type EpochStats struct {
	Epoch       int
	Batches     int
	Examples    int
	MeanLoss    float32
	Fingerprint [32]byte
	Duration    time.Duration
}

func (s EpochStats) String() string {
	return fmt.Sprintf("epoch %d: %d batches, %d examples, mean loss %.6f, %x, %s",
		s.Epoch, s.Batches, s.Examples, s.MeanLoss, s.Fingerprint[:8], s.Duration.Round(time.Millisecond))
}

// Run trains for the given number of epochs and returns the per-epoch
// statistics collected so far. Cancellation of ctx is honored between
// epochs only. A failed step aborts the run.
func (t *Trainer) Run(ctx context.Context, it Batches, epochs, batchSize int) ([]EpochStats, error) {
	if batchSize <= 0 {
		return nil, errors.Errorf("batch size %d", batchSize)
	}
	var saver Checkpointer
	if t.checkpoint != "" {
		var ok bool
		if saver, ok = t.model.(Checkpointer); !ok {
			return nil, errors.New("model cannot be checkpointed")
		}
	}
	var stats []EpochStats
	iteration := 0
	for epoch := 1; epoch <= epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		start := time.Now()
		it.Reset()
		s := EpochStats{Epoch: epoch}
		var total float64
		for {
			b, err := it.Next(batchSize)
			if err == io.EOF {
				break
			}
			if err != nil {
				return stats, errors.Wrapf(err, "epoch %d", epoch)
			}
			loss, err := t.model.TrainStep(b)
			if err != nil {
				return stats, errors.Wrapf(err, "epoch %d iteration %d", epoch, iteration)
			}
			s.Batches++
			s.Examples += b.Size()
			total += float64(loss)
			if t.logEvery > 0 && iteration%t.logEvery == 0 {
				t.log.Info("score", "iteration", iteration, "epoch", epoch, "loss", loss)
			}
			iteration++
		}
		if s.Batches > 0 {
			s.MeanLoss = float32(total / float64(s.Batches))
		}
		s.Fingerprint = t.model.Fingerprint()
		s.Duration = time.Since(start)
		stats = append(stats, s)
		t.log.Info("epoch complete", "epoch", epoch, "batches", s.Batches, "examples", s.Examples,
			"mean_loss", s.MeanLoss, "fingerprint", fmt.Sprintf("%x", s.Fingerprint[:8]), "duration", s.Duration)
		if saver != nil {
			if err := saver.WriteCheckpointToFile(t.checkpoint); err != nil {
				return stats, errors.Wrapf(err, "epoch %d", epoch)
			}
			t.log.Debug("checkpoint saved", "path", t.checkpoint)
		}
		if t.hook != nil {
			t.hook(s)
		}
	}
	return stats, nil
}
