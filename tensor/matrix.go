// Package tensor holds the small float32 kernels shared by the encoder and the network.
package tensor

import "fmt"

// Matrix is a dense row-major float32 matrix.
type Matrix struct {
	Rows, Cols int
	Data       []float32
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("tensor: negative shape %dx%d", rows, cols))
	}
	return Matrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

// Row returns the i-th row as a slice aliasing the matrix storage.
func (m Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// At returns the element at row i, column j.
func (m Matrix) At(i, j int) float32 {
	return m.Data[i*m.Cols+j]
}

// Set sets the element at row i, column j.
func (m Matrix) Set(i, j int, v float32) {
	m.Data[i*m.Cols+j] = v
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	o := Matrix{Rows: m.Rows, Cols: m.Cols, Data: make([]float32, len(m.Data))}
	copy(o.Data, m.Data)
	return o
}

// Equal reports whether two matrices have the same shape and bit-identical elements.
func (m Matrix) Equal(o Matrix) bool {
	if m.Rows != o.Rows || m.Cols != o.Cols || len(m.Data) != len(o.Data) {
		return false
	}
	for i := range m.Data {
		if m.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}

// IsZeroRow reports whether every element of row i is zero.
func (m Matrix) IsZeroRow(i int) bool {
	for _, v := range m.Row(i) {
		if v != 0 {
			return false
		}
	}
	return true
}
