package models

import "time"

// EstimateSource identifies which front end produced a recorded estimate.
type EstimateSource string

const (
	SourceHTTP EstimateSource = "http"
	SourceCLI  EstimateSource = "cli"
	SourceMCP  EstimateSource = "mcp"
)

// HistoryRecord is a single persisted estimate.
type HistoryRecord struct {
	ID                   string         `json:"id"`
	Subscription         string         `json:"subscription"`
	Model                string         `json:"model"`
	Requests             float64        `json:"requests"`
	Developers           int            `json:"developers"`
	Budget               float64        `json:"budget"`
	TotalPremiumRequests float64        `json:"totalPremiumRequests"`
	IncludedRequests     int            `json:"includedRequests"`
	AdditionalRequests   float64        `json:"additionalRequests"`
	AdditionalCost       float64        `json:"additionalCost"`
	BudgetStatus         BudgetStatus   `json:"budgetStatus"`
	Source               EstimateSource `json:"source"`
	CreatedAt            time.Time      `json:"createdAt"`
}

// NewHistoryRecord flattens an estimate into a record. ID and CreatedAt are
// filled in by the store when left empty.
func NewHistoryRecord(e Estimate, source EstimateSource) HistoryRecord {
	return HistoryRecord{
		Subscription:         e.Input.Subscription,
		Model:                e.Input.Model,
		Requests:             e.Input.Requests,
		Developers:           e.Input.Developers,
		Budget:               e.Input.Budget,
		TotalPremiumRequests: e.Calculation.TotalPremiumRequests,
		IncludedRequests:     e.Calculation.IncludedRequests,
		AdditionalRequests:   e.Calculation.AdditionalRequests,
		AdditionalCost:       e.Calculation.AdditionalCost,
		BudgetStatus:         e.Calculation.BudgetStatus,
		Source:               source,
	}
}

// HistoryConfig controls the estimate history store.
type HistoryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DBPath        string `yaml:"db_path"`
	RetentionDays int    `yaml:"retention_days"`

	// CleanupSchedule is a cron expression for retention runs, "@hourly" if empty.
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

// HistoryQueryOpts specifies filters for querying history records.
type HistoryQueryOpts struct {
	Model        string
	Subscription string
	BudgetStatus BudgetStatus
	Since        time.Time
	Limit        int
}

// HistoryStat aggregates recorded estimates for a model/day combination.
type HistoryStat struct {
	Model     string  `json:"model"`
	Day       string  `json:"day"`
	Count     int     `json:"count"`
	TotalCost float64 `json:"totalCost"`
}
