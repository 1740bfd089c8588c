// Package pricing computes premium request usage, overage and budget status
// for a subscription plan. Calculate is pure: it reads only the immutable
// catalogs and its input, so it is safe for concurrent use.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/pario-ai/premiumcalc/pkg/budget"
	"github.com/pario-ai/premiumcalc/pkg/catalog"
	"github.com/pario-ai/premiumcalc/pkg/models"
)

// OverageRate is the price in USD of one premium request beyond the allowance.
var OverageRate = decimal.RequireFromString("0.04")

// Calculate validates in and computes the billing estimate.
//
// Validation stops at the first violated rule, in this order: required
// fields, plan, model, ranges. The returned error is always an *Error.
func Calculate(in models.CalculationInput) (models.CalculationResult, error) {
	plan, model, err := validate(in)
	if err != nil {
		return models.CalculationResult{}, err
	}

	requests := *in.Requests
	developers := *in.Developers
	if math.IsNaN(requests) || math.IsInf(requests, 0) {
		return models.CalculationResult{}, internalError("requests is not a finite number")
	}
	if plan.IncludedRequests > 0 && developers > math.MaxInt/plan.IncludedRequests {
		return models.CalculationResult{}, internalError("included requests overflow for %d developers", developers)
	}

	total := decimal.NewFromFloat(requests).
		Mul(decimal.NewFromFloat(model.Multiplier)).
		Mul(decimal.NewFromInt(int64(developers))).
		Round(2)
	included := plan.IncludedRequests * developers
	additional := decimal.Max(decimal.Zero, total.Sub(decimal.NewFromInt(int64(included)))).Round(2)
	cost := additional.Mul(OverageRate).Round(2)

	res := models.CalculationResult{
		TotalPremiumRequests: total.InexactFloat64(),
		IncludedRequests:     included,
		AdditionalRequests:   additional.InexactFloat64(),
		AdditionalCost:       cost.InexactFloat64(),
		Developers:           developers,
	}
	for _, v := range []float64{res.TotalPremiumRequests, res.AdditionalRequests, res.AdditionalCost} {
		if math.IsInf(v, 0) {
			return models.CalculationResult{}, internalError("result out of range")
		}
	}
	res.BudgetStatus = budget.Classify(res.AdditionalCost, in.Budget)
	return res, nil
}

// Estimate runs Calculate and shapes the full response: the calculation, the
// echoed input and the catalog entries it was priced against.
func Estimate(in models.CalculationInput) (models.Estimate, error) {
	res, err := Calculate(in)
	if err != nil {
		return models.Estimate{}, err
	}
	plan, _ := catalog.Plan(in.Subscription)
	model, _ := catalog.Model(in.Model)

	var limit float64
	if in.Budget != nil {
		limit = *in.Budget
	}
	return models.Estimate{
		Calculation: res,
		Input: models.EstimateInput{
			Subscription: in.Subscription,
			Model:        in.Model,
			Requests:     *in.Requests,
			Developers:   *in.Developers,
			Budget:       limit,
		},
		PlanDetails:  plan,
		ModelDetails: model,
	}, nil
}

func validate(in models.CalculationInput) (models.PlanEntry, models.ModelEntry, error) {
	if in.Subscription == "" || in.Model == "" || in.Requests == nil || in.Developers == nil {
		return models.PlanEntry{}, models.ModelEntry{}, ErrMissingFields
	}
	plan, ok := catalog.Plan(in.Subscription)
	if !ok {
		return models.PlanEntry{}, models.ModelEntry{}, ErrInvalidPlan
	}
	model, ok := catalog.Model(in.Model)
	if !ok {
		return models.PlanEntry{}, models.ModelEntry{}, ErrInvalidModel
	}
	if *in.Requests < 0 || *in.Developers < 1 {
		return models.PlanEntry{}, models.ModelEntry{}, ErrInvalidRange
	}
	return plan, model, nil
}
