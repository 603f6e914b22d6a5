// =================================
// File: internal/report/report.go
// =================================
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rovshanmuradov/paycalc/internal/amount"
)

const title = "=== DEBUGGING PAYMENT CALCULATION ==="

// Input describes what was checked and what the caller expects to see.
type Input struct {
	Cost     amount.Cost
	Symbol   string
	Expected string
}

// Result is the outcome of a report, returned for logging and exit status.
type Result struct {
	Formatted string
	Exact     string
	Matches   bool
}

// Write prints every intermediate value of the calculation followed by the
// comparison with the expected amount.
func Write(w io.Writer, in Input) (Result, error) {
	st := newStyles(w)
	res := Result{
		Formatted: in.Cost.String(),
		Exact:     in.Cost.Exact().String(),
	}

	expected, err := strconv.ParseFloat(in.Expected, 64)
	if err == nil {
		res.Matches = in.Cost.Matches(expected)
	} else {
		res.Matches = in.Cost.MatchesFixed(in.Expected)
	}

	verdict := st.mismatch.Render(strconv.FormatBool(res.Matches))
	if res.Matches {
		verdict = st.match.Render(strconv.FormatBool(res.Matches))
	}

	lines := []struct {
		label string
		value string
	}{
		{"applicableFee:", st.raw.Render(in.Cost.FeeRate.String())},
		{"durationSeconds:", in.Cost.DurationSeconds.String()},
		{"totalCost (raw):", st.raw.Render(in.Cost.TotalCostRaw.String())},
		{"divisor:", in.Cost.Divisor.String()},
		{"formatted amount:", res.Formatted},
		{"exact amount:", res.Exact},
		{"Expected:", st.expected.Render(expectedLabel(in.Expected, in.Symbol))},
		{"Matches expectation:", verdict},
	}

	if _, err := fmt.Fprintln(w, st.header.Render(title)); err != nil {
		return res, fmt.Errorf("failed to write header: %w", err)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s %s\n", st.label.Render(l.label), l.value); err != nil {
			return res, fmt.Errorf("failed to write %q: %w", l.label, err)
		}
	}

	return res, nil
}

func expectedLabel(expected, symbol string) string {
	if symbol == "" {
		return expected
	}
	return expected + " " + symbol
}
