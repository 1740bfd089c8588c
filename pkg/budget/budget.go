// Package budget classifies overage costs against optional spending caps.
package budget

import "github.com/pario-ai/premiumcalc/pkg/models"

// Classify reports whether cost fits under limit. A nil or non-positive
// limit means there is no cap. A cost equal to the limit is within budget.
func Classify(cost float64, limit *float64) models.BudgetStatus {
	if !Capped(limit) {
		return models.BudgetUnlimited
	}
	if cost <= *limit {
		return models.BudgetWithin
	}
	return models.BudgetOver
}

// Capped reports whether limit describes an actual spending cap.
func Capped(limit *float64) bool {
	return limit != nil && *limit > 0
}

// Headroom returns how much of the limit is left after cost. It is zero when
// there is no cap or when the cap is already exceeded.
func Headroom(cost float64, limit *float64) float64 {
	if !Capped(limit) {
		return 0
	}
	remaining := *limit - cost
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
