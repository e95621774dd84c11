package inference

import "fmt"
import "sort"
import "strings"

import "github.com/pkg/errors"

// Evaluation compares top-1 predictions with the recorded labels.
type Evaluation struct {
	Total   int
	Correct int
	Skipped int

	// Confusion counts predictions per recorded label: Confusion[actual][predicted].
	Confusion map[string]map[string]int
}

// Accuracy is Correct/Total, or zero for an empty evaluation.
func (e Evaluation) Accuracy() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Correct) / float64(e.Total)
}

func (e Evaluation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Examples: %d, Correct: %d, Accuracy: %.4f, Skipped: %d\n", e.Total, e.Correct, e.Accuracy(), e.Skipped)
	var actual []string
	for a := range e.Confusion {
		actual = append(actual, a)
	}
	sort.Strings(actual)
	for _, a := range actual {
		var predicted []string
		for p := range e.Confusion[a] {
			predicted = append(predicted, p)
		}
		sort.Strings(predicted)
		for _, p := range predicted {
			fmt.Fprintf(&b, "  %s -> %s: %d\n", a, p, e.Confusion[a][p])
		}
	}
	return b.String()
}

// Evaluate classifies every well-formed record. Records whose label the
// model does not know still count, as misclassified. Malformed records are
// skipped; any other failure stops the evaluation.
func (r *Ranker) Evaluate(records []string) (Evaluation, error) {
	e := Evaluation{Confusion: map[string]map[string]int{}}
	for _, raw := range records {
		ranked, err := r.Classify(raw)
		if errors.Is(err, ErrMalformed) {
			e.Skipped++
			continue
		}
		if err != nil {
			return e, err
		}
		top := ranked.Top()
		e.Total++
		if top == ranked.Type {
			e.Correct++
		}
		if e.Confusion[ranked.Type] == nil {
			e.Confusion[ranked.Type] = map[string]int{}
		}
		e.Confusion[ranked.Type][top]++
	}
	return e, nil
}
