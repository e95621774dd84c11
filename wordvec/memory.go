package wordvec

import "github.com/pkg/errors"

// Memory is a map-backed Table.
type Memory struct {
	dim     int
	vectors map[string][]float32
	order   []string
}

// NewMemory creates an empty table of the given dimension.
func NewMemory(dim int) *Memory {
	return &Memory{dim: dim, vectors: make(map[string][]float32)}
}

// Add stores a copy of vec under token. Adding an existing token replaces it.
func (m *Memory) Add(token string, vec []float32) error {
	if len(vec) != m.dim {
		return errors.Errorf("word vector %q has dimension %d, want %d", token, len(vec), m.dim)
	}
	if _, ok := m.vectors[token]; !ok {
		m.order = append(m.order, token)
	}
	m.vectors[token] = append([]float32(nil), vec...)
	return nil
}

// Lookup returns the vector of token.
func (m *Memory) Lookup(token string) ([]float32, bool) {
	v, ok := m.vectors[token]
	return v, ok
}

// Dimension returns the vector length.
func (m *Memory) Dimension() int {
	return m.dim
}

// Len returns the number of tokens.
func (m *Memory) Len() int {
	return len(m.order)
}

// Each calls fn for every token in insertion order until fn returns false.
func (m *Memory) Each(fn func(token string, vec []float32) bool) {
	for _, t := range m.order {
		if !fn(t, m.vectors[t]) {
			return
		}
	}
}
