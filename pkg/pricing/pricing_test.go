package pricing

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pario-ai/premiumcalc/pkg/catalog"
	"github.com/pario-ai/premiumcalc/pkg/models"
)

func f(v float64) *float64 { return &v }
func n(v int) *int         { return &v }

func input(plan, model string, requests float64, developers int) models.CalculationInput {
	return models.CalculationInput{
		Subscription: plan,
		Model:        model,
		Requests:     f(requests),
		Developers:   n(developers),
	}
}

func TestCalculateScenarios(t *testing.T) {
	tests := []struct {
		name       string
		in         models.CalculationInput
		total      float64
		included   int
		additional float64
		cost       float64
	}{
		{"free base model", input("business", "base-gpt-41", 500, 1), 0, 300, 0, 0},
		{"premium overage", input("business", "premium-gpt-41", 500, 1), 500, 300, 200, 8},
		{"team under allowance", input("business", "premium-gpt-41", 200, 3), 600, 900, 0, 0},
		{"enterprise overage", input("enterprise", "premium-gpt-41", 1200, 1), 1200, 1000, 200, 8},
		{"fractional multiplier", input("business", "o3-mini", 1000, 1), 330, 300, 30, 1.2},
		{"zero requests", input("enterprise", "gpt-45", 0, 4), 0, 4000, 0, 0},
		{"heavy multiplier", input("business", "gpt-45", 100, 2), 10000, 600, 9400, 376},
		{"quarter multiplier", input("business", "gemini-20-flash", 1500, 1), 375, 300, 75, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Calculate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.total, res.TotalPremiumRequests)
			assert.Equal(t, tt.included, res.IncludedRequests)
			assert.Equal(t, tt.additional, res.AdditionalRequests)
			assert.Equal(t, tt.cost, res.AdditionalCost)
			assert.Equal(t, models.BudgetUnlimited, res.BudgetStatus)
			assert.Equal(t, *tt.in.Developers, res.Developers)
		})
	}
}

func TestCalculateBudgetStatus(t *testing.T) {
	tests := []struct {
		budget *float64
		want   models.BudgetStatus
	}{
		{nil, models.BudgetUnlimited},
		{f(0), models.BudgetUnlimited},
		{f(-3), models.BudgetUnlimited},
		{f(10), models.BudgetWithin},
		{f(8), models.BudgetWithin},
		{f(5), models.BudgetOver},
	}
	for _, tt := range tests {
		in := input("business", "premium-gpt-41", 500, 1)
		in.Budget = tt.budget
		res, err := Calculate(in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.BudgetStatus, "budget %v", tt.budget)
	}
}

func TestCalculateRounding(t *testing.T) {
	// 333 * 1.25 = 416.25; 7 * 0.33 = 2.31; 0.005 rounds away from zero.
	res, err := Calculate(input("business", "claude-37-sonnet-thinking", 333, 1))
	require.NoError(t, err)
	assert.Equal(t, 416.25, res.TotalPremiumRequests)
	assert.Equal(t, 116.25, res.AdditionalRequests)
	assert.Equal(t, 4.65, res.AdditionalCost)

	res, err = Calculate(input("business", "o4-mini", 7, 1))
	require.NoError(t, err)
	assert.Equal(t, 2.31, res.TotalPremiumRequests)

	res, err = Calculate(input("business", "gemini-20-flash", 0.02, 1))
	require.NoError(t, err)
	assert.Equal(t, 0.01, res.TotalPremiumRequests)
}

func TestCalculateValidation(t *testing.T) {
	tests := []struct {
		name string
		in   models.CalculationInput
		want *Error
		msg  string
	}{
		{"no subscription", models.CalculationInput{Model: "gpt-4o", Requests: f(1), Developers: n(1)}, ErrMissingFields,
			"Missing required fields: subscription, model, requests, developers"},
		{"no model", models.CalculationInput{Subscription: "business", Requests: f(1), Developers: n(1)}, ErrMissingFields, ""},
		{"no requests", models.CalculationInput{Subscription: "business", Model: "gpt-4o", Developers: n(1)}, ErrMissingFields, ""},
		{"no developers", models.CalculationInput{Subscription: "business", Model: "gpt-4o", Requests: f(1)}, ErrMissingFields, ""},
		{"missing beats invalid plan", models.CalculationInput{Subscription: "invalid-plan", Requests: f(1), Developers: n(1)}, ErrMissingFields, ""},
		{"invalid plan", input("invalid-plan", "gpt-4o", 1, 1), ErrInvalidPlan, "Invalid subscription plan"},
		{"plan beats model", input("invalid-plan", "invalid-model", 1, 1), ErrInvalidPlan, ""},
		{"invalid model", input("business", "invalid-model", 1, 1), ErrInvalidModel, "Invalid model"},
		{"model beats range", input("business", "invalid-model", -1, 0), ErrInvalidModel, ""},
		{"negative requests", input("business", "gpt-4o", -1, 1), ErrInvalidRange,
			"Requests must be non-negative and developers must be at least 1"},
		{"zero developers", input("business", "gpt-4o", 1, 0), ErrInvalidRange, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.want.Kind, KindOf(err))
			assert.True(t, KindOf(err).Validation())
			if tt.msg != "" {
				assert.Equal(t, tt.msg, err.Error())
			}
		})
	}
}

func TestCalculateInternalErrors(t *testing.T) {
	_, err := Calculate(input("business", "gpt-4o", math.Inf(1), 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, KindOf(err).Validation())

	_, err = Calculate(input("enterprise", "gpt-4o", 1, math.MaxInt))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)

	var calcErr *Error
	require.True(t, errors.As(err, &calcErr))
	assert.NotNil(t, calcErr.Unwrap())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "invalid_plan", KindInvalidPlan.String())
}

func TestResultRelationsAcrossCatalog(t *testing.T) {
	budgets := []*float64{nil, f(0), f(1), f(50)}
	for _, planID := range catalog.PlanIDs() {
		plan, _ := catalog.Plan(planID)
		for _, modelID := range catalog.ModelIDs() {
			for _, requests := range []float64{0, 1, 299.5, 1234, 10000} {
				for _, devs := range []int{1, 2, 7} {
					for _, b := range budgets {
						in := input(planID, modelID, requests, devs)
						in.Budget = b
						res, err := Calculate(in)
						require.NoError(t, err)

						assert.Equal(t, plan.IncludedRequests*devs, res.IncludedRequests)
						wantAdditional := math.Max(0, res.TotalPremiumRequests-float64(res.IncludedRequests))
						assert.InDelta(t, wantAdditional, res.AdditionalRequests, 0.005)
						assert.InDelta(t, res.AdditionalRequests*0.04, res.AdditionalCost, 0.005)
						if b == nil || *b <= 0 {
							assert.Equal(t, models.BudgetUnlimited, res.BudgetStatus)
						}
						if modelID == "base-gpt-41" {
							assert.Zero(t, res.TotalPremiumRequests)
							assert.Zero(t, res.AdditionalCost)
						}
					}
				}
			}
		}
	}
}

func TestEstimate(t *testing.T) {
	est, err := Estimate(input("business", "premium-gpt-41", 500, 1))
	require.NoError(t, err)
	assert.Equal(t, float64(8), est.Calculation.AdditionalCost)
	assert.Equal(t, float64(0), est.Input.Budget)
	assert.Equal(t, "Business", est.PlanDetails.Name)
	assert.Equal(t, "Premium GPT-4.1", est.ModelDetails.Name)

	in := input("enterprise", "o3", 300, 2)
	in.Budget = f(25)
	est, err = Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, float64(25), est.Input.Budget)
	assert.Equal(t, 2, est.Input.Developers)
	assert.Equal(t, float64(40), est.Calculation.AdditionalCost)
	assert.Equal(t, models.BudgetOver, est.Calculation.BudgetStatus)

	_, err = Estimate(input("business", "invalid-model", 1, 1))
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestCalculateConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := Calculate(input("business", "premium-gpt-41", 500, 1+i%4))
			if err != nil {
				t.Error(err)
				return
			}
			if res.IncludedRequests != 300*(1+i%4) {
				t.Errorf("unexpected included requests %d", res.IncludedRequests)
			}
		}()
	}
	wg.Wait()
}
