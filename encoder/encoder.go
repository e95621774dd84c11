// Package encoder turns a sentence into a fixed-size matrix of word vectors.
package encoder

import "strings"

import "github.com/neurlang/textcnn/tensor"
import "github.com/neurlang/textcnn/wordvec"

// OOVPolicy selects what happens to tokens missing from the table.
type OOVPolicy int

const (
	// SkipUnknown drops unknown tokens; they consume no row.
	SkipUnknown OOVPolicy = iota
	// ZeroUnknown writes a zero row for each unknown token.
	ZeroUnknown
)

// ParseOOVPolicy maps "skip" and "zero" to a policy.
func ParseOOVPolicy(s string) (OOVPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return SkipUnknown, true
	case "zero":
		return ZeroUnknown, true
	}
	return SkipUnknown, false
}

func (p OOVPolicy) String() string {
	if p == ZeroUnknown {
		return "zero"
	}
	return "skip"
}

// Encoder is safe for concurrent use as long as its table is.
type Encoder struct {
	table wordvec.Table
	oov   OOVPolicy
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithOOVPolicy sets the unknown token policy.
func WithOOVPolicy(p OOVPolicy) Option {
	return func(e *Encoder) {
		e.oov = p
	}
}

// New creates an encoder over table.
func New(table wordvec.Table, opts ...Option) *Encoder {
	e := &Encoder{table: table}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Dimension returns the width of encoded rows.
func (e *Encoder) Dimension() int {
	return e.table.Dimension()
}

// Tokens splits a sentence on whitespace and lower-cases each token.
func Tokens(sentence string) []string {
	fields := strings.Fields(sentence)
	for i := range fields {
		fields[i] = strings.ToLower(fields[i])
	}
	return fields
}

// Encode returns a maxLength x Dimension() matrix: one row per token, truncated
// to maxLength tokens and right-padded with zero rows.
func (e *Encoder) Encode(sentence string, maxLength int) tensor.Matrix {
	if maxLength < 0 {
		maxLength = 0
	}
	m := tensor.NewMatrix(maxLength, e.table.Dimension())
	row := 0
	for _, tok := range Tokens(sentence) {
		if row >= maxLength {
			break
		}
		vec, ok := e.table.Lookup(tok)
		if !ok {
			if e.oov == ZeroUnknown {
				row++
			}
			continue
		}
		copy(m.Row(row), vec)
		row++
	}
	return m
}

// Err reports a table failure seen while encoding. Tokens hit by it were
// treated as unknown, so the encoded matrices cannot be trusted.
func (e *Encoder) Err() error {
	return wordvec.Err(e.table)
}

// Known returns the number of tokens of sentence present in the table.
func (e *Encoder) Known(sentence string) (n int) {
	for _, tok := range Tokens(sentence) {
		if _, ok := e.table.Lookup(tok); ok {
			n++
		}
	}
	return
}
