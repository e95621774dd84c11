package inference

import "fmt"
import "io"
import "math"
import "strconv"
import "strings"

import "github.com/pkg/errors"
import "github.com/shopspring/decimal"

// Round rounds p half up to six decimal places. The decimal expansion used
// is the shortest one that round-trips p as a float64, so 0.1234565 becomes
// 0.123457. Probabilities widened from float32 are rounded by their float64
// expansion, which can differ from the shortest float32 one in the last digit.
func Round(p float64) (float64, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, errors.Errorf("cannot round %v", p)
	}
	f, _ := decimal.NewFromFloat(p).Round(6).Float64()
	return f, nil
}

// Format renders the scores as "[A(0.7), B(0.2)]". Scores that cannot be
// rounded are left out.
func Format(scores []Score) string {
	var parts []string
	for _, s := range scores {
		p, err := Round(s.Prob)
		if err != nil {
			continue
		}
		parts = append(parts, s.Label+"("+strconv.FormatFloat(p, 'f', -1, 64)+")")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Report classifies every record and writes two lines per record:
//
//	Type:<label>, ProductName : <text>
//	   CNN Classify Result : [A(0.7), B(0.2), C(0.1)]
//
// Malformed records are skipped. It returns the number of records written.
func (r *Ranker) Report(w io.Writer, records []string) (n int, err error) {
	for _, raw := range records {
		ranked, err := r.Classify(raw)
		if errors.Is(err, ErrMalformed) {
			continue
		}
		if err != nil {
			return n, err
		}
		_, err = fmt.Fprintf(w, "Type:%s, ProductName : %s\n   CNN Classify Result : %s\n",
			ranked.Type, ranked.Text, Format(ranked.Scores))
		if err != nil {
			return n, errors.Wrap(err, "write report")
		}
		n++
	}
	return n, nil
}
