// Package main classifies the records of an input file with a trained model
// and prints the ranked label probabilities of each record.
package main
