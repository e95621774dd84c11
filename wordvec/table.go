// Package wordvec provides read-only word embedding tables: an in-memory table
// parsed from the word2vec text or binary formats, and an on-disk sqlite table.
package wordvec

import "path/filepath"
import "strings"

import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/resource"

// Table maps vocabulary tokens to fixed-length vectors. Implementations are
// safe for concurrent lookups. Returned vectors must not be modified.
type Table interface {
	Lookup(token string) ([]float32, bool)
	Dimension() int
}

// Err returns the lookup failure recorded by t, if t records any. In-memory
// tables never fail.
func Err(t Table) error {
	if f, ok := t.(interface{ Err() error }); ok {
		return f.Err()
	}
	return nil
}

// Format names a serialized table layout.
type Format string

const (
	FormatText   Format = "text"
	FormatBinary Format = "binary"
	FormatSQLite Format = "sqlite"
)

// DetectFormat guesses a format from the file extension.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bin":
		return FormatBinary
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatText
	}
}

// Load opens a table of the given format. An empty format is detected from name.
func Load(name string, format Format) (Table, error) {
	return LoadCached(name, format, 0)
}

// LoadCached is Load with the read cache size of sqlite tables.
func LoadCached(name string, format Format, cacheSize int) (Table, error) {
	if format == "" {
		format = DetectFormat(name)
	}
	switch format {
	case FormatText, FormatBinary:
		f, err := resource.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		var m *Memory
		if format == FormatText {
			m, err = ReadText(f)
		} else {
			m, err = ReadBinary(f)
		}
		if err != nil {
			return nil, resource.Unreadable(name, err)
		}
		return m, nil
	case FormatSQLite:
		return OpenSQLite(name, cacheSize)
	}
	return nil, errors.Errorf("unknown word vector format %q", format)
}
