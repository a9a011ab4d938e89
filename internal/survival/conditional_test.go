package survival

import (
	"errors"
	"math"
	"testing"

	"pipeline-lab/internal/pipeline"
)

func TestConditionalWinRates(t *testing.T) {
	surv := []float64{1.0, 0.8, 0.6, 0.6}

	series, err := ConditionalWinRates(surv, 1)
	if err != nil {
		t.Fatalf("ConditionalWinRates() error = %v", err)
	}

	want := []float64{0.2, 0.25, 0.0, 0.0}
	for i, w := range want {
		if math.Abs(series[i].Probability-w) > 1e-9 {
			t.Errorf("p(%d) = %v, want %v", i, series[i].Probability, w)
		}
	}

	// The last index clamps the look-ahead to itself.
	if series[3].LookAheadTo != 3 {
		t.Errorf("LookAheadTo at tail = %d, want 3", series[3].LookAheadTo)
	}
	if series[0].LookAheadTo != 1 {
		t.Errorf("LookAheadTo at 0 = %d, want 1", series[0].LookAheadTo)
	}
}

func TestConditionalWinRates_ZeroWindow(t *testing.T) {
	series, err := ConditionalWinRates([]float64{1.0, 0.7, 0.4}, 0)
	if err != nil {
		t.Fatalf("ConditionalWinRates() error = %v", err)
	}
	for _, p := range series {
		if p.Probability != 0 {
			t.Errorf("k=0 must give 0 everywhere, got %v at %d", p.Probability, p.Period)
		}
	}
}

func TestConditionalWinRates_Bounded(t *testing.T) {
	surv := []float64{1.0, 0.9, 0.5, 0.2, 0.05, 0.0}
	series, err := ConditionalWinRates(surv, 3)
	if err != nil {
		t.Fatalf("ConditionalWinRates() error = %v", err)
	}
	for _, p := range series {
		if p.Probability < 0 || p.Probability > 1 {
			t.Errorf("p(%d) = %v out of [0,1]", p.Period, p.Probability)
		}
	}

	// A zero survival estimate yields 0, not NaN.
	if got := series[5].Probability; got != 0 {
		t.Errorf("p at S=0 should be 0, got %v", got)
	}
}

func TestConditionalWinRates_Invalid(t *testing.T) {
	if _, err := ConditionalWinRates(nil, 2); !errors.Is(err, pipeline.ErrInvalidInput) {
		t.Errorf("Empty curve error = %v, want ErrInvalidInput", err)
	}
	if _, err := ConditionalWinRates([]float64{1.0}, -1); !errors.Is(err, pipeline.ErrInvalidInput) {
		t.Errorf("Negative look-ahead error = %v, want ErrInvalidInput", err)
	}
}
