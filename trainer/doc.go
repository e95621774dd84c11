// Package trainer runs the epoch loop of the convolutional classifier: it
// pulls batches, applies optimizer steps, reports progress, fingerprints
// the parameters after every epoch and optionally checkpoints the model.
package trainer
