package mcp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pario-ai/premiumcalc/pkg/budget"
	"github.com/pario-ai/premiumcalc/pkg/catalog"
	"github.com/pario-ai/premiumcalc/pkg/models"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatEstimate formats a single estimate as a text report.
func formatEstimate(e models.Estimate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Premium Request Estimate\n")
	fmt.Fprintf(&b, "  Plan:        %s (%s)\n", e.PlanDetails.Name, e.PlanDetails.Description)
	fmt.Fprintf(&b, "  Model:       %s (%s)\n", e.ModelDetails.Name, e.ModelDetails.Description)
	fmt.Fprintf(&b, "  Developers:  %d\n", e.Calculation.Developers)
	fmt.Fprintf(&b, "  Requests:    %s per developer\n", num(e.Input.Requests))
	b.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&b, "  Premium requests:    %s\n", num(e.Calculation.TotalPremiumRequests))
	fmt.Fprintf(&b, "  Included:            %d\n", e.Calculation.IncludedRequests)
	fmt.Fprintf(&b, "  Additional:          %s\n", num(e.Calculation.AdditionalRequests))
	fmt.Fprintf(&b, "  Additional cost:     $%.2f\n", e.Calculation.AdditionalCost)
	fmt.Fprintf(&b, "  Budget status:       %s\n", e.Calculation.BudgetStatus)
	if e.Input.Budget > 0 {
		limit := e.Input.Budget
		fmt.Fprintf(&b, "  Budget headroom:     $%.2f\n", budget.Headroom(e.Calculation.AdditionalCost, &limit))
	}
	return b.String()
}

// formatModels formats the model catalog as a text table.
func formatModels() string {
	all := catalog.Models()
	var b strings.Builder
	fmt.Fprintf(&b, "%-28s %-28s %10s\n", "ID", "Name", "Multiplier")
	b.WriteString(strings.Repeat("-", 68) + "\n")
	for _, id := range catalog.ModelIDs() {
		m := all[id]
		fmt.Fprintf(&b, "%-28s %-28s %10s\n", id, m.Name, num(m.Multiplier)+"x")
	}
	return b.String()
}

// formatPlans formats the plan catalog as a text table.
func formatPlans() string {
	all := catalog.Plans()
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-12s %8s %10s\n", "ID", "Name", "Price", "Included")
	b.WriteString(strings.Repeat("-", 45) + "\n")
	for _, id := range catalog.PlanIDs() {
		p := all[id]
		fmt.Fprintf(&b, "%-12s %-12s %8s %10d\n", id, p.Name, "$"+num(p.Price), p.IncludedRequests)
	}
	return b.String()
}

// formatHistory formats recorded estimates as a text table.
func formatHistory(records []models.HistoryRecord) string {
	if len(records) == 0 {
		return "No recorded estimates found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-10s %-26s %5s %10s %10s %-13s %-4s\n",
		"Time", "Plan", "Model", "Devs", "Premium", "Cost", "Budget", "Via")
	b.WriteString(strings.Repeat("-", 106) + "\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%-20s %-10s %-26s %5d %10s %10s %-13s %-4s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Subscription, r.Model, r.Developers,
			num(r.TotalPremiumRequests), fmt.Sprintf("$%.2f", r.AdditionalCost),
			r.BudgetStatus, r.Source)
	}
	return b.String()
}

// formatHistoryStats formats per-model daily totals as a text table.
func formatHistoryStats(stats []models.HistoryStat) string {
	if len(stats) == 0 {
		return "No recorded estimates found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-26s %8s %12s\n", "Day", "Model", "Count", "Total Cost")
	b.WriteString(strings.Repeat("-", 61) + "\n")
	for _, st := range stats {
		fmt.Fprintf(&b, "%-12s %-26s %8d %12s\n", st.Day, st.Model, st.Count, fmt.Sprintf("$%.2f", st.TotalCost))
	}
	return b.String()
}
