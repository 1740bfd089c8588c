// Package catalog holds the fixed model and plan reference tables.
//
// Both tables are part of the external billing contract. They are built once
// at package initialization and never modified; accessors hand out copies.
package catalog

import (
	"maps"
	"slices"

	"github.com/pario-ai/premiumcalc/pkg/models"
)

var modelTable = map[string]models.ModelEntry{
	"base-gpt-41":               {Name: "Base model (GPT-4.1)", Multiplier: 0, Description: "Free for paid users"},
	"premium-gpt-41":            {Name: "Premium GPT-4.1", Multiplier: 1, Description: "1× multiplier"},
	"gpt-4o":                    {Name: "GPT-4o", Multiplier: 1, Description: "1× multiplier"},
	"gpt-45":                    {Name: "GPT-4.5", Multiplier: 50, Description: "50× multiplier"},
	"claude-35-sonnet":          {Name: "Claude 3.5 Sonnet", Multiplier: 1, Description: "1× multiplier"},
	"claude-37-sonnet":          {Name: "Claude 3.7 Sonnet", Multiplier: 1, Description: "1× multiplier"},
	"claude-37-sonnet-thinking": {Name: "Claude 3.7 Sonnet Thinking", Multiplier: 1.25, Description: "1.25× multiplier"},
	"claude-sonnet-4":           {Name: "Claude Sonnet 4", Multiplier: 1, Description: "1× multiplier"},
	"claude-opus-4":             {Name: "Claude Opus 4", Multiplier: 10, Description: "10× multiplier"},
	"gemini-20-flash":           {Name: "Gemini 2.0 Flash", Multiplier: 0.25, Description: "0.25× multiplier"},
	"gemini-25-pro":             {Name: "Gemini 2.5 Pro", Multiplier: 1, Description: "1× multiplier"},
	"o1":                        {Name: "o1", Multiplier: 10, Description: "10× multiplier"},
	"o3":                        {Name: "o3", Multiplier: 5, Description: "5× multiplier"},
	"o3-mini":                   {Name: "o3-mini", Multiplier: 0.33, Description: "0.33× multiplier"},
	"o4-mini":                   {Name: "o4-mini", Multiplier: 0.33, Description: "0.33× multiplier"},
}

var planTable = map[string]models.PlanEntry{
	"business": {
		Name:             "Business",
		Price:            19,
		IncludedRequests: 300,
		Description:      "$19/month - 300 premium requests included",
	},
	"enterprise": {
		Name:             "Enterprise",
		Price:            39,
		IncludedRequests: 1000,
		Description:      "$39/month - 1000 premium requests included",
	},
}

// Model looks up a model by identifier.
func Model(id string) (models.ModelEntry, bool) {
	m, ok := modelTable[id]
	return m, ok
}

// Models returns a copy of the model table keyed by identifier.
func Models() map[string]models.ModelEntry {
	return maps.Clone(modelTable)
}

// ModelIDs returns all model identifiers in sorted order.
func ModelIDs() []string {
	return slices.Sorted(maps.Keys(modelTable))
}

// Plan looks up a subscription plan by identifier.
func Plan(id string) (models.PlanEntry, bool) {
	p, ok := planTable[id]
	return p, ok
}

// Plans returns a copy of the plan table keyed by identifier.
func Plans() map[string]models.PlanEntry {
	return maps.Clone(planTable)
}

// PlanIDs returns all plan identifiers in sorted order.
func PlanIDs() []string {
	return slices.Sorted(maps.Keys(planTable))
}
