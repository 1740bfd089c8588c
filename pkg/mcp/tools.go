package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pario-ai/premiumcalc/pkg/models"
	"github.com/pario-ai/premiumcalc/pkg/pricing"
)

const historyTool = "premium_history"

// toolHandler is a function that handles a tool call.
type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

// toolHandlers maps tool names to their handlers.
var toolHandlers = map[string]toolHandler{
	"premium_calculate": handleCalculate,
	"premium_models":    handleModels,
	"premium_plans":     handlePlans,
	historyTool:         handleHistory,
}

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	{
		Name:        "premium_calculate",
		Description: "Estimate premium request usage, overage cost and budget status for a plan, model and team size.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"subscription", "model", "requests", "developers"},
			"properties": map[string]any{
				"subscription": map[string]any{
					"type":        "string",
					"description": "Subscription plan id (business or enterprise)",
				},
				"model": map[string]any{
					"type":        "string",
					"description": "Model id, see premium_models",
				},
				"requests": map[string]any{
					"type":        "number",
					"minimum":     0,
					"description": "Monthly requests per developer",
				},
				"developers": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"description": "Number of developers",
				},
				"budget": map[string]any{
					"type":        "number",
					"description": "Monthly overage budget in USD (optional, 0 or omitted means unlimited)",
				},
			},
		},
	},
	{
		Name:        "premium_models",
		Description: "List the models and their premium request multipliers.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "premium_plans",
		Description: "List the subscription plans with price and included premium requests per developer.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        historyTool,
		Description: "Search recorded estimates, or summarize them per model and day.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"model": map[string]any{
					"type":        "string",
					"description": "Filter by model (optional)",
				},
				"subscription": map[string]any{
					"type":        "string",
					"description": "Filter by subscription plan (optional)",
				},
				"budget_status": map[string]any{
					"type":        "string",
					"enum":        []string{"unlimited", "within-budget", "over-budget"},
					"description": "Filter by budget status (optional)",
				},
				"since": map[string]any{
					"type":        "string",
					"description": "Start date in YYYY-MM-DD format (optional)",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Max records to return (optional, default 50)",
				},
				"stats": map[string]any{
					"type":        "boolean",
					"description": "Return per-model daily totals instead of records",
				},
			},
		},
	},
}

// tools returns the definitions available on this server.
func (s *Server) tools() []ToolDefinition {
	if s.history != nil {
		return allTools
	}
	out := make([]ToolDefinition, 0, len(allTools))
	for _, t := range allTools {
		if t.Name != historyTool {
			out = append(out, t)
		}
	}
	return out
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

func handleCalculate(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var in models.CalculationInput
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &in); err != nil {
			return errorResult("Invalid arguments: " + err.Error())
		}
	}

	est, err := pricing.Estimate(in)
	if err != nil {
		kind := pricing.KindOf(err)
		s.metrics.ObserveError(kind.String())
		var perr *pricing.Error
		if kind.Validation() && errors.As(err, &perr) {
			return errorResult(perr.Message)
		}
		s.log.WithError(err).Error("mcp: calculation failed")
		return errorResult("Internal server error")
	}

	s.metrics.ObserveEstimate(est)
	if s.history != nil {
		if _, err := s.history.Log(ctx, models.NewHistoryRecord(est, models.SourceMCP)); err != nil {
			s.metrics.ObserveHistoryError()
			s.log.WithError(err).Warn("mcp: record estimate")
		}
	}
	return textResult(formatEstimate(est))
}

func handleModels(_ context.Context, _ *Server, _ json.RawMessage) ToolCallResult {
	return textResult(formatModels())
}

func handlePlans(_ context.Context, _ *Server, _ json.RawMessage) ToolCallResult {
	return textResult(formatPlans())
}

type historyArgs struct {
	Model        string `json:"model"`
	Subscription string `json:"subscription"`
	BudgetStatus string `json:"budget_status"`
	Since        string `json:"since"`
	Limit        int    `json:"limit"`
	Stats        bool   `json:"stats"`
}

func handleHistory(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	if s.history == nil {
		return textResult("Estimate history is not configured.")
	}
	var args historyArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}

	if args.Stats {
		stats, err := s.history.Stats(ctx)
		if err != nil {
			return errorResult("Error fetching history stats: " + err.Error())
		}
		return textResult(formatHistoryStats(stats))
	}

	opts := models.HistoryQueryOpts{
		Model:        args.Model,
		Subscription: args.Subscription,
		BudgetStatus: models.BudgetStatus(args.BudgetStatus),
		Limit:        args.Limit,
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if args.Since != "" {
		t, err := time.Parse("2006-01-02", args.Since)
		if err != nil {
			return errorResult("Invalid since date (use YYYY-MM-DD): " + err.Error())
		}
		opts.Since = t
	}

	records, err := s.history.Query(ctx, opts)
	if err != nil {
		return errorResult("Error searching history: " + err.Error())
	}
	return textResult(formatHistory(records))
}
