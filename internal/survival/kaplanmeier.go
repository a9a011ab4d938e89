package survival

import (
	"fmt"

	"pipeline-lab/internal/pipeline"
	"pipeline-lab/internal/stats"
)

// CurvePoint is one step of the survival curve. Survival is the
// probability that no win has occurred by the end of the period.
type CurvePoint struct {
	Period   int     `json:"period"`
	Survival float64 `json:"survival"`
	Lower    float64 `json:"ci_low"`
	Upper    float64 `json:"ci_high"`
}

// WinRatePoint is the complement view consumers plot: the probability
// that a deal has closed by the end of the period.
type WinRatePoint struct {
	Period  int     `json:"period"`
	WinRate float64 `json:"win_rate"`
	Lower   float64 `json:"ci_low"`
	Upper   float64 `json:"ci_high"`
}

// Curve is a Kaplan-Meier survival curve over integer periods 0..max
// observed duration, with a pointwise confidence band.
type Curve struct {
	Points     []CurvePoint `json:"points"`
	Confidence float64      `json:"confidence"`
	Events     int          `json:"events"`
	Censored   int          `json:"censored"`
}

// Options tunes the estimator. Zero values select the defaults: 95%
// confidence with a plain Greenwood band.
type Options struct {
	Confidence float64
	Band       ConfidenceBand
}

// Fit computes the Kaplan-Meier estimate from duration records of one
// cohort. Ties at the same period aggregate into a single step; records
// censored at a period leave the at-risk set after that period's events.
// A cohort with zero records is an error; a cohort where every record
// is censored yields a flat curve at 1.0.
func Fit(records []DurationRecord, opts Options) (*Curve, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no duration records", pipeline.ErrEmptyCohort)
	}

	confidence := opts.Confidence
	if confidence == 0 {
		confidence = 0.95
	}
	if confidence < 0 || confidence >= 1 {
		return nil, fmt.Errorf("%w: confidence level %v out of (0,1)", pipeline.ErrInvalidInput, confidence)
	}
	band := opts.Band
	if band == nil {
		band = Greenwood{}
	}

	maxPeriod := 0
	for _, r := range records {
		if r.Periods < 0 {
			return nil, fmt.Errorf("%w: negative duration", pipeline.ErrInvalidInput)
		}
		if r.Periods > maxPeriod {
			maxPeriod = r.Periods
		}
	}

	wins := make([]int, maxPeriod+1)
	censored := make([]int, maxPeriod+1)
	totalWins, totalCensored := 0, 0
	for _, r := range records {
		if r.Won {
			wins[r.Periods]++
			totalWins++
		} else {
			censored[r.Periods]++
			totalCensored++
		}
	}

	z := stats.ZScore(confidence)
	curve := &Curve{
		Points:     make([]CurvePoint, 0, maxPeriod+1),
		Confidence: confidence,
		Events:     totalWins,
		Censored:   totalCensored,
	}

	surv := 1.0
	cumVar := 0.0
	atRisk := len(records)

	for t := 0; t <= maxPeriod; t++ {
		d := wins[t]
		if d > 0 && atRisk > 0 {
			surv *= 1 - float64(d)/float64(atRisk)
			// Greenwood variance term; undefined when the whole risk
			// set fails at once (surv is 0 there anyway).
			if atRisk > d {
				cumVar += float64(d) / float64(atRisk*(atRisk-d))
			}
		}

		lower, upper := band.Bounds(surv, cumVar, z)
		curve.Points = append(curve.Points, CurvePoint{
			Period:   t,
			Survival: surv,
			Lower:    lower,
			Upper:    upper,
		})

		// Censored records at t were at risk for this period's events.
		atRisk -= d + censored[t]
	}

	return curve, nil
}

// Survival returns the point-estimate sequence.
func (c *Curve) Survival() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Survival
	}
	return out
}

// WinRateSeries returns the complement series (probability of having
// closed by each period) with the confidence band mirrored accordingly.
func (c *Curve) WinRateSeries() []WinRatePoint {
	out := make([]WinRatePoint, len(c.Points))
	for i, p := range c.Points {
		out[i] = WinRatePoint{
			Period:  p.Period,
			WinRate: 1 - p.Survival,
			Lower:   1 - p.Upper,
			Upper:   1 - p.Lower,
		}
	}
	return out
}
