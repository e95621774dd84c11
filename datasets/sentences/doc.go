// Package sentences implements the resettable (sentence, label) provider that feeds
// the batch iterator, one corpus line per record.
package sentences
