package models

// CalculationInput is the untyped-JSON-shaped input to a calculation.
// Nil pointers and empty strings mean the field was absent.
type CalculationInput struct {
	Subscription string   `json:"subscription"`
	Model        string   `json:"model"`
	Requests     *float64 `json:"requests"`
	Developers   *int     `json:"developers"`
	Budget       *float64 `json:"budget,omitempty"`
}

// CalculationResult is the outcome of a premium request calculation.
type CalculationResult struct {
	TotalPremiumRequests float64      `json:"totalPremiumRequests"`
	IncludedRequests     int          `json:"includedRequests"`
	AdditionalRequests   float64      `json:"additionalRequests"`
	AdditionalCost       float64      `json:"additionalCost"`
	BudgetStatus         BudgetStatus `json:"budgetStatus"`
	Developers           int          `json:"developers"`
}

// EstimateInput echoes a validated input. Budget is 0 when none was given.
type EstimateInput struct {
	Subscription string  `json:"subscription"`
	Model        string  `json:"model"`
	Requests     float64 `json:"requests"`
	Developers   int     `json:"developers"`
	Budget       float64 `json:"budget"`
}

// Estimate is the full response for a successful calculation.
type Estimate struct {
	Calculation  CalculationResult `json:"calculation"`
	Input        EstimateInput     `json:"input"`
	PlanDetails  PlanEntry         `json:"planDetails"`
	ModelDetails ModelEntry        `json:"modelDetails"`
}
