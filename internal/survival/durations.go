package survival

import (
	"fmt"
	"time"

	"pipeline-lab/internal/pipeline"
)

// TimeUnit is the quantization step for durations.
type TimeUnit string

const (
	UnitDay   TimeUnit = "day"
	UnitWeek  TimeUnit = "week"
	UnitMonth TimeUnit = "month"
)

// hours per unit; months use the mean Gregorian month length.
func (u TimeUnit) hours() (float64, error) {
	switch u {
	case UnitDay:
		return 24, nil
	case UnitWeek:
		return 24 * 7, nil
	case UnitMonth:
		return 24 * 30.44, nil
	default:
		return 0, fmt.Errorf("%w: unknown time unit %q", pipeline.ErrInvalidInput, u)
	}
}

// DurationRecord is one observation reduced to what the estimator
// needs: elapsed whole periods and whether the win event was observed.
type DurationRecord struct {
	Periods int
	Won     bool
}

// DurationsFromOpportunities converts dated opportunities into duration
// records. Won deals measure open-to-won; open deals are censored at
// now. The same now must be used for a whole batch, otherwise censored
// durations are not comparable.
//
// Elapsed time is quantized to completed whole units (floor), matching
// the integer period indexing of the survival curve.
func DurationsFromOpportunities(opps []pipeline.Opportunity, now time.Time, unit TimeUnit) ([]DurationRecord, error) {
	unitHours, err := unit.hours()
	if err != nil {
		return nil, err
	}

	records := make([]DurationRecord, 0, len(opps))
	for i, opp := range opps {
		if opp.OpenedAt.IsZero() {
			return nil, fmt.Errorf("%w: opportunity %d: missing open date", pipeline.ErrInvalidInput, i)
		}

		end := now
		if opp.WonAt != nil {
			end = *opp.WonAt
		}
		if end.Before(opp.OpenedAt) {
			return nil, fmt.Errorf("%w: opportunity %d: end date precedes open date", pipeline.ErrInvalidInput, i)
		}

		periods := int(end.Sub(opp.OpenedAt).Hours() / unitHours)
		records = append(records, DurationRecord{Periods: periods, Won: opp.WonAt != nil})
	}

	return records, nil
}
