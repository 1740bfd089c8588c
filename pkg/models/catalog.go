package models

// ModelEntry describes an AI model and the premium-request multiplier it is billed at.
type ModelEntry struct {
	Name        string  `json:"name" yaml:"name"`
	Multiplier  float64 `json:"multiplier" yaml:"multiplier"`
	Description string  `json:"description" yaml:"description"`
}

// PlanEntry describes a subscription plan. Price is informational only.
type PlanEntry struct {
	Name             string  `json:"name" yaml:"name"`
	Price            float64 `json:"price" yaml:"price"`
	IncludedRequests int     `json:"includedRequests" yaml:"included_requests"`
	Description      string  `json:"description" yaml:"description"`
}
