// Package datasets implements the labeled record format and the label vocabulary
// shared by the training and inference pipelines.
package datasets

import "sort"
import "strings"
import "unicode"

import "github.com/pkg/errors"

// ErrUnknownLabel is returned when a label is not part of a Vocabulary.
var ErrUnknownLabel = errors.New("unknown label")

// Record is one labeled sentence.
type Record struct {
	Label string
	Text  string
}

// SplitRecord splits line at its first whitespace rune into label and text.
// It reports false when there is no separator or the label would be empty.
func SplitRecord(line string) (r Record, ok bool) {
	line = strings.TrimRight(line, "\r\n")
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx <= 0 {
		return Record{}, false
	}
	_, size := firstRune(line[idx:])
	return Record{Label: line[:idx], Text: line[idx+size:]}, true
}

func firstRune(s string) (rune, int) {
	for i, r := range s {
		if i > 0 {
			return r, i
		}
	}
	return 0, len(s)
}

// Vocabulary is an immutable, lexicographically sorted set of labels.
// The zero value is an empty vocabulary.
type Vocabulary struct {
	labels []string
	index  map[string]int
}

// NewVocabulary deduplicates and sorts labels.
func NewVocabulary(labels []string) Vocabulary {
	seen := make(map[string]struct{}, len(labels))
	var uniq []string
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		uniq = append(uniq, l)
	}
	sort.Strings(uniq)
	v := Vocabulary{labels: uniq, index: make(map[string]int, len(uniq))}
	for i, l := range uniq {
		v.index[l] = i
	}
	return v
}

// Len returns the number of labels.
func (v Vocabulary) Len() int {
	return len(v.labels)
}

// Label returns the i-th label.
func (v Vocabulary) Label(i int) string {
	return v.labels[i]
}

// Index returns the position of label.
func (v Vocabulary) Index(label string) (int, bool) {
	i, ok := v.index[label]
	return i, ok
}

// Labels returns a copy of the labels in index order.
func (v Vocabulary) Labels() []string {
	return append([]string(nil), v.labels...)
}

// OneHot encodes label as a vector with a single 1 at its index.
func (v Vocabulary) OneHot(label string) ([]float32, error) {
	i, ok := v.index[label]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownLabel, "%q", label)
	}
	o := make([]float32, len(v.labels))
	o[i] = 1
	return o, nil
}

// Equal reports whether both vocabularies hold the same labels.
func (v Vocabulary) Equal(o Vocabulary) bool {
	if len(v.labels) != len(o.labels) {
		return false
	}
	for i := range v.labels {
		if v.labels[i] != o.labels[i] {
			return false
		}
	}
	return true
}
