package survival

import (
	"fmt"

	"pipeline-lab/internal/pipeline"
)

// ConditionalPoint is one step of the conditional win-rate series.
type ConditionalPoint struct {
	Period      int     `json:"period"`
	Probability float64 `json:"conditional_probability"`
	LookAheadTo int     `json:"look_ahead_to"`
}

// ConditionalWinRates derives, for every period i of an unconditional
// survival curve, the probability of closing within the next lookAhead
// periods given the deal is still open at i:
//
//	p(i) = 1 - S(min(i+k, last)) / S(i)
//
// The look-ahead target clamps to the last observed period. That makes
// late-stage estimates degrade toward the curve's tail value instead of
// extrapolating; it conflates "no more data" with "probability zero
// beyond the window" and is kept as a documented approximation.
func ConditionalWinRates(surv []float64, lookAhead int) ([]ConditionalPoint, error) {
	if len(surv) == 0 {
		return nil, fmt.Errorf("%w: empty survival curve", pipeline.ErrInvalidInput)
	}
	if lookAhead < 0 {
		return nil, fmt.Errorf("%w: look-ahead window %d is negative", pipeline.ErrInvalidInput, lookAhead)
	}

	last := len(surv) - 1
	out := make([]ConditionalPoint, len(surv))
	for i, s := range surv {
		target := i + lookAhead
		if target > last {
			target = last
		}

		p := 0.0
		if s > 0 {
			p = 1 - surv[target]/s
		}
		// Nobody survives past a zero estimate; the ratio is undefined
		// and the conditional probability stays 0.

		out[i] = ConditionalPoint{Period: i, Probability: p, LookAheadTo: target}
	}

	return out, nil
}
