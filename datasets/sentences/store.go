package sentences

import "fmt"

import "github.com/neurlang/textcnn/datasets"

// Store holds the valid records of a corpus and a cursor over them.
type Store struct {
	records   []datasets.Record
	labels    datasets.Vocabulary
	discarded int
	cursor    int
	lastToo   bool
}

// Option configures a Store.
type Option func(*Store)

// WithLastRecord makes HasNext yield the final record too. By default the final
// record is held back, matching the corpus tooling this store replaces.
func WithLastRecord(include bool) Option {
	return func(s *Store) {
		s.lastToo = include
	}
}

// New parses lines into a Store. Lines without a label separator are skipped.
func New(lines []string, opts ...Option) *Store {
	s := new(Store)
	for _, o := range opts {
		o(s)
	}
	s.records = make([]datasets.Record, 0, len(lines))
	var labels []string
	for _, line := range lines {
		r, ok := datasets.SplitRecord(line)
		if !ok {
			s.discarded++
			continue
		}
		s.records = append(s.records, r)
		labels = append(labels, r.Label)
	}
	s.labels = datasets.NewVocabulary(labels)
	return s
}

// HasNext reports whether Next can be called.
func (s *Store) HasNext() bool {
	if s.lastToo {
		return s.cursor < len(s.records)
	}
	return s.cursor < len(s.records)-1
}

// Next returns the sentence and raw label under the cursor and advances it.
func (s *Store) Next() (sentence, label string) {
	if s.cursor >= len(s.records) {
		panic(fmt.Sprintf("sentences: Next at %d past %d records", s.cursor, len(s.records)))
	}
	r := s.records[s.cursor]
	s.cursor++
	return r.Text, r.Label
}

// Reset rewinds the cursor.
func (s *Store) Reset() {
	s.cursor = 0
}

// TotalCount returns the number of valid records. Malformed lines are not
// counted; see Discarded.
func (s *Store) TotalCount() int {
	return len(s.records)
}

// Discarded returns the number of lines skipped as malformed.
func (s *Store) Discarded() int {
	return s.discarded
}

// Labels returns the sorted label vocabulary.
func (s *Store) Labels() datasets.Vocabulary {
	return s.labels
}

// NumLabels returns the number of distinct labels.
func (s *Store) NumLabels() int {
	return s.labels.Len()
}

// Records returns a copy of the valid records.
func (s *Store) Records() []datasets.Record {
	return append([]datasets.Record(nil), s.records...)
}
