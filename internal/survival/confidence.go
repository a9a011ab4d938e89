package survival

import "math"

// ConfidenceBand maps a survival estimate and its accumulated Greenwood
// variance term to pointwise bounds. The formula choice only affects the
// band width, never the point estimate, so it is pluggable.
type ConfidenceBand interface {
	Name() string
	Bounds(survival, cumVar, z float64) (lower, upper float64)
}

// Greenwood is the plain Greenwood band: S ± z*S*sqrt(cumVar), clamped
// to [0,1]. Bounds can collapse onto the estimate at tiny risk sets.
type Greenwood struct{}

func (Greenwood) Name() string { return "greenwood" }

func (Greenwood) Bounds(survival, cumVar, z float64) (float64, float64) {
	hw := z * survival * math.Sqrt(cumVar)
	return clamp01(survival - hw), clamp01(survival + hw)
}

// LogLog is the exponential Greenwood band, exp(-exp(log(-log S) ± z*se))
// with se = sqrt(cumVar)/|log S|. It respects the [0,1] range by
// construction and behaves better near the boundaries.
type LogLog struct{}

func (LogLog) Name() string { return "loglog" }

func (LogLog) Bounds(survival, cumVar, z float64) (float64, float64) {
	if survival <= 0 || survival >= 1 || cumVar == 0 {
		return survival, survival
	}
	logS := math.Log(survival)
	theta := math.Log(-logS)
	se := math.Sqrt(cumVar) / math.Abs(logS)
	// Larger theta means smaller survival.
	lower := math.Exp(-math.Exp(theta + z*se))
	upper := math.Exp(-math.Exp(theta - z*se))
	return lower, upper
}

// BandByName resolves a band strategy from its wire name. Unknown names
// select the default Greenwood band.
func BandByName(name string) ConfidenceBand {
	if name == "loglog" {
		return LogLog{}
	}
	return Greenwood{}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
