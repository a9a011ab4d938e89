package survival

import (
	"errors"
	"math"
	"testing"

	"pipeline-lab/internal/pipeline"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFit_TwoDrops(t *testing.T) {
	// One win at week 1, one censored at week 2, one win at week 3.
	records := []DurationRecord{
		{Periods: 1, Won: true},
		{Periods: 2, Won: false},
		{Periods: 3, Won: true},
	}

	curve, err := Fit(records, Options{})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	want := []float64{1.0, 2.0 / 3.0, 2.0 / 3.0, 0.0}
	surv := curve.Survival()
	if len(surv) != len(want) {
		t.Fatalf("Curve has %d points, want %d", len(surv), len(want))
	}
	for i, w := range want {
		if !almostEqual(surv[i], w) {
			t.Errorf("S(%d) = %v, want %v", i, surv[i], w)
		}
	}

	// The censored record must not produce a drop: exactly two steps.
	drops := 0
	for i := 1; i < len(surv); i++ {
		if surv[i] < surv[i-1] {
			drops++
		}
	}
	if drops != 2 {
		t.Errorf("Expected 2 drops, got %d", drops)
	}

	if curve.Events != 2 || curve.Censored != 1 {
		t.Errorf("Counts = %d events / %d censored, want 2/1", curve.Events, curve.Censored)
	}
}

func TestFit_AllCensored(t *testing.T) {
	records := []DurationRecord{
		{Periods: 2, Won: false},
		{Periods: 5, Won: false},
		{Periods: 9, Won: false},
	}

	curve, err := Fit(records, Options{})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	for _, p := range curve.Points {
		if p.Survival != 1.0 {
			t.Fatalf("S(%d) = %v, want flat 1.0 for all-censored cohort", p.Period, p.Survival)
		}
	}
	for _, wp := range curve.WinRateSeries() {
		if wp.WinRate != 0.0 {
			t.Fatalf("Win rate at %d = %v, want 0.0", wp.Period, wp.WinRate)
		}
	}
}

func TestFit_EmptyCohort(t *testing.T) {
	if _, err := Fit(nil, Options{}); !errors.Is(err, pipeline.ErrEmptyCohort) {
		t.Errorf("Fit(nil) error = %v, want ErrEmptyCohort", err)
	}
}

func TestFit_TiesAggregate(t *testing.T) {
	// Two wins tie at week 2 and must form a single step.
	records := []DurationRecord{
		{Periods: 2, Won: true},
		{Periods: 2, Won: true},
		{Periods: 2, Won: false},
		{Periods: 5, Won: true},
	}

	curve, err := Fit(records, Options{})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	surv := curve.Survival()
	if !almostEqual(surv[2], 0.5) {
		t.Errorf("S(2) = %v, want 0.5 (two events out of four at risk)", surv[2])
	}
	if !almostEqual(surv[5], 0.0) {
		t.Errorf("S(5) = %v, want 0.0 (last at-risk record wins)", surv[5])
	}
}

func TestFit_InstantaneousEvents(t *testing.T) {
	// An event at period 0 pulls S(0) below 1.
	records := []DurationRecord{
		{Periods: 0, Won: true},
		{Periods: 1, Won: true},
		{Periods: 1, Won: false},
	}

	curve, err := Fit(records, Options{})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !almostEqual(curve.Points[0].Survival, 2.0/3.0) {
		t.Errorf("S(0) = %v, want 2/3", curve.Points[0].Survival)
	}
}

func TestFit_Monotonic(t *testing.T) {
	records := []DurationRecord{
		{Periods: 1, Won: true}, {Periods: 2, Won: true}, {Periods: 2, Won: false},
		{Periods: 4, Won: true}, {Periods: 6, Won: false}, {Periods: 7, Won: true},
		{Periods: 9, Won: false}, {Periods: 12, Won: true},
	}

	curve, err := Fit(records, Options{})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	prev := 1.0
	for _, p := range curve.Points {
		if p.Survival < 0 || p.Survival > 1 {
			t.Fatalf("S(%d) = %v out of [0,1]", p.Period, p.Survival)
		}
		if p.Survival > prev+1e-12 {
			t.Fatalf("S(%d) = %v increased from %v", p.Period, p.Survival, prev)
		}
		prev = p.Survival
	}
}

func TestFit_GreenwoodBand(t *testing.T) {
	records := []DurationRecord{
		{Periods: 1, Won: true},
		{Periods: 2, Won: false},
		{Periods: 3, Won: true},
	}

	curve, err := Fit(records, Options{Confidence: 0.95, Band: Greenwood{}})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// At week 1: S = 2/3, cumVar = 1/(3*2), halfwidth = 1.96*S*sqrt(cumVar).
	p := curve.Points[1]
	hw := 1.959964 * (2.0 / 3.0) * math.Sqrt(1.0/6.0)
	if math.Abs(p.Lower-(2.0/3.0-hw)) > 1e-4 {
		t.Errorf("Lower(1) = %v, want %v", p.Lower, 2.0/3.0-hw)
	}
	if p.Upper != 1.0 {
		t.Errorf("Upper(1) = %v, want clamp at 1.0", p.Upper)
	}

	// Band must bracket the estimate everywhere on this dataset.
	for _, pt := range curve.Points {
		if pt.Lower > pt.Survival || pt.Upper < pt.Survival {
			t.Errorf("Band [%v, %v] does not bracket S(%d)=%v", pt.Lower, pt.Upper, pt.Period, pt.Survival)
		}
	}
}

func TestFit_LogLogBand(t *testing.T) {
	records := []DurationRecord{
		{Periods: 1, Won: true}, {Periods: 2, Won: true}, {Periods: 3, Won: false},
		{Periods: 4, Won: true}, {Periods: 5, Won: false}, {Periods: 6, Won: false},
	}

	curve, err := Fit(records, Options{Band: LogLog{}})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	for _, pt := range curve.Points {
		if pt.Lower < 0 || pt.Upper > 1 {
			t.Errorf("LogLog band [%v, %v] escapes [0,1] at period %d", pt.Lower, pt.Upper, pt.Period)
		}
		if pt.Survival > 0 && pt.Survival < 1 {
			if pt.Lower > pt.Survival || pt.Upper < pt.Survival {
				t.Errorf("LogLog band [%v, %v] does not bracket S(%d)=%v", pt.Lower, pt.Upper, pt.Period, pt.Survival)
			}
		}
	}
}

func TestFit_WinRateSeriesMirrorsBand(t *testing.T) {
	records := []DurationRecord{
		{Periods: 1, Won: true},
		{Periods: 3, Won: false},
	}

	curve, err := Fit(records, Options{})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	for i, wp := range curve.WinRateSeries() {
		cp := curve.Points[i]
		if !almostEqual(wp.WinRate, 1-cp.Survival) {
			t.Errorf("WinRate(%d) = %v, want %v", i, wp.WinRate, 1-cp.Survival)
		}
		if !almostEqual(wp.Lower, 1-cp.Upper) || !almostEqual(wp.Upper, 1-cp.Lower) {
			t.Errorf("Win-rate band at %d does not mirror the survival band", i)
		}
	}
}

func TestBandByName(t *testing.T) {
	if BandByName("loglog").Name() != "loglog" {
		t.Errorf("BandByName(loglog) resolved wrong strategy")
	}
	if BandByName("").Name() != "greenwood" {
		t.Errorf("Default band should be greenwood")
	}
	if BandByName("bootstrap").Name() != "greenwood" {
		t.Errorf("Unknown names should fall back to greenwood")
	}
}
