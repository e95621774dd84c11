package trainer

import "github.com/neurlang/textcnn/net/convnet"

// Resume loads a classifier, including its optimizer state, from a checkpoint
// so that Run can continue where a previous run stopped.
func Resume(path string) (*convnet.Classifier, error) {
	return convnet.ReadCheckpointFromFile(path)
}
