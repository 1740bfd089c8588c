package models

// BudgetStatus classifies an overage cost against an optional spending cap.
type BudgetStatus string

const (
	BudgetUnlimited BudgetStatus = "unlimited"
	BudgetWithin    BudgetStatus = "within-budget"
	BudgetOver      BudgetStatus = "over-budget"
)
