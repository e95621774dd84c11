package convnet

import "bytes"
import "compress/lzw"
import "encoding/json"
import "io"
import "time"

import "github.com/google/renameio"
import "github.com/google/uuid"
import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/datasets"
import "github.com/neurlang/textcnn/learning"
import "github.com/neurlang/textcnn/resource"

const checkpointVersion = 1

type checkpoint struct {
	Version   int                  `json:"version"`
	ID        string               `json:"id"`
	Created   time.Time            `json:"created"`
	Config    Config               `json:"config"`
	Labels    []string             `json:"labels"`
	Params    map[string][]float32 `json:"params"`
	Step      int                  `json:"step"`
	Optimizer learning.State       `json:"optimizer"`
}

// WriteCheckpointToFile atomically replaces name with a checkpoint.
func (c *Classifier) WriteCheckpointToFile(name string) error {
	var buf bytes.Buffer
	if err := c.WriteCheckpoint(&buf); err != nil {
		return err
	}
	return errors.Wrapf(renameio.WriteFile(name, buf.Bytes(), 0644), "write checkpoint %s", name)
}

// WriteCheckpoint writes the configuration, labels, weights and optimizer
// state as lzw compressed json.
func (c *Classifier) WriteCheckpoint(w io.Writer) error {
	c.mu.RLock()
	ck := checkpoint{
		Version:   checkpointVersion,
		ID:        c.id.String(),
		Created:   time.Now().UTC(),
		Config:    c.Config(),
		Labels:    c.labels.Labels(),
		Params:    make(map[string][]float32, len(c.params)),
		Step:      c.updater.Steps(),
		Optimizer: c.updater.State(),
	}
	for _, p := range c.params {
		ck.Params[p.Name] = append([]float32(nil), p.Value...)
	}
	c.mu.RUnlock()

	lw := lzw.NewWriter(w, lzw.LSB, 8)
	if err := json.NewEncoder(lw).Encode(&ck); err != nil {
		lw.Close()
		return errors.Wrap(err, "encode checkpoint")
	}
	return lw.Close()
}

// ReadCheckpointFromFile loads a classifier from a checkpoint file.
func ReadCheckpointFromFile(name string) (*Classifier, error) {
	f, err := resource.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCheckpoint(f, name)
}

// ReadCheckpoint loads a classifier from a checkpoint stream.
func ReadCheckpoint(r io.Reader) (*Classifier, error) {
	return readCheckpoint(r, "checkpoint")
}

func readCheckpoint(r io.Reader, name string) (*Classifier, error) {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()
	var ck checkpoint
	if err := json.NewDecoder(lr).Decode(&ck); err != nil {
		return nil, resource.Unreadable(name, err)
	}
	if ck.Version != checkpointVersion {
		return nil, resource.Unreadable(name, errors.Errorf("checkpoint version %d", ck.Version))
	}
	id, err := uuid.Parse(ck.ID)
	if err != nil {
		return nil, resource.Unreadable(name, err)
	}
	labels := datasets.NewVocabulary(ck.Labels)
	if labels.Len() != len(ck.Labels) {
		return nil, resource.Unreadable(name, errors.New("duplicate labels"))
	}
	c, err := BuildClassifier(ck.Config, labels)
	if err != nil {
		return nil, resource.Unreadable(name, err)
	}
	c.id = id
	if len(ck.Params) != len(c.params) {
		return nil, resource.Unreadable(name, errors.Errorf("%d parameters, want %d", len(ck.Params), len(c.params)))
	}
	for _, p := range c.params {
		v, ok := ck.Params[p.Name]
		if !ok {
			return nil, resource.Unreadable(name, errors.Errorf("missing parameter %s", p.Name))
		}
		if len(v) != p.Len() {
			return nil, resource.Unreadable(name, errors.Errorf("parameter %s has %d values, want %d", p.Name, len(v), p.Len()))
		}
		copy(p.Value, v)
	}
	if err := c.updater.Restore(ck.Optimizer, c.params); err != nil {
		return nil, resource.Unreadable(name, err)
	}
	return c, nil
}
