// Package main trains the convolutional sentence classifier on a labeled
// corpus and pre-trained word vectors, writes the model file after every
// epoch and, when an evaluation file is configured, prints the
// classification report and accuracy for it.
package main
