package domain

import (
	"fmt"

	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/shopspring/decimal"
)

const percentagePlaces = 2

var (
	hundred = decimal.NewFromInt(100)

	// ProgressSteps are the values the manual progress control moves between.
	ProgressSteps = []float64{0, 50, 75, 100}
)

// CompletionPercentage is 100*completed/total rounded to two places, or 0
// when no issues are linked.
func CompletionPercentage(stats IssueStats) float64 {
	if stats.Total <= 0 {
		return 0
	}

	completed := decimal.NewFromInt(int64(stats.Completed))
	total := decimal.NewFromInt(int64(stats.Total))

	return completed.Mul(hundred).Div(total).Round(percentagePlaces).InexactFloat64()
}

// AveragePercentage returns the rounded mean of values. ok is false for an
// empty slice so callers can keep the stored value.
func AveragePercentage(values []float64) (avg float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}

	return sum.Div(decimal.NewFromInt(int64(len(values)))).Round(percentagePlaces).InexactFloat64(), true
}

// StepProgress moves a manual percentage to the neighbouring step in the
// given direction. Values between steps move to the nearest step on that side.
func StepProgress(current float64, direction ProgressDirection) (float64, error) {
	switch direction {
	case ProgressIncrease:
		for _, step := range ProgressSteps {
			if step > current {
				return step, nil
			}
		}

		return current, apperrors.ErrProgressAtMax
	case ProgressDecrease:
		for i := len(ProgressSteps) - 1; i >= 0; i-- {
			if ProgressSteps[i] < current {
				return ProgressSteps[i], nil
			}
		}

		return current, apperrors.ErrProgressAtMin
	default:
		return current, fmt.Errorf("%w: unknown progress direction '%s'", apperrors.ErrValidation, direction)
	}
}
