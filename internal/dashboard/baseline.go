package dashboard

import (
	"github.com/ignite/agentops-portal/internal/domain"
)

// Known baseline metric keys. Every resolved baseline map contains all of
// them, persisted rows or not.
const (
	KeyBaselineMinutesPerRequest = "baseline_minutes_per_request"
	KeyCostPerHour               = "cost_per_hour"
	KeySLALatencyMS              = "sla_latency_ms"
	KeyInvestmentCost            = "investment_cost"
	KeyTotalRoles                = "total_roles"
	KeyRolesRedefined            = "roles_redefined"
	KeyCustomerNPSDelta          = "customer_nps_delta"
	KeyErrorReductionPct         = "error_reduction_pct"
	KeyDecisionSpeedImprovement  = "decision_speed_improvement_pct"
)

// Resolved is one baseline value after override resolution.
type Resolved struct {
	Value       float64
	Unit        string
	Description string
}

type defaultBaseline struct {
	value       float64
	unit        string
	description string
}

// defaultBaselines is the compiled-in default table. It is the only place
// these defaults live; call sites go through ResolveBaselines.
var defaultBaselines = map[string]defaultBaseline{
	KeyBaselineMinutesPerRequest: {12, "min", "Manual handling time per request before automation"},
	KeyCostPerHour:               {45000, "currency/h", "Fully loaded hourly labor cost"},
	KeySLALatencyMS:              {2000, "ms", "Latency budget for SLA compliance"},
	KeyInvestmentCost:            {0, "currency", "Total platform investment for the window"},
	KeyTotalRoles:                {0, "count", "Roles in scope for redesign tracking"},
	KeyRolesRedefined:            {0, "count", "Roles redefined since adoption"},
	KeyCustomerNPSDelta:          {0, "points", "Customer NPS change attributed to the platform"},
	KeyErrorReductionPct:         {0, "%", "Operator-assessed error reduction"},
	KeyDecisionSpeedImprovement:  {0, "%", "Operator-assessed decision speed improvement"},
}

// DefaultBaselines returns the compiled-in defaults as a resolved map. Used
// when even the baseline store read fails.
func DefaultBaselines() map[string]Resolved {
	out := make(map[string]Resolved, len(defaultBaselines))
	for k, d := range defaultBaselines {
		out[k] = Resolved{Value: d.value, Unit: d.unit, Description: d.description}
	}
	return out
}

// KnownBaselineKey reports whether key is part of the compiled-in table.
func KnownBaselineKey(key string) bool {
	_, ok := defaultBaselines[key]
	return ok
}

// ResolveBaselines merges persisted rows with the compiled-in defaults for
// the requested scope. Rows scoped to a different business or agent type are
// ignored; nil scopes match everything. Duplicate keys keep the last row
// seen, so callers ordering rows global-first get most-specific-wins for
// free. The result always contains every known key.
func ResolveBaselines(rows []domain.BaselineEntry, businessType, agentType string) map[string]Resolved {
	out := DefaultBaselines()
	for _, row := range rows {
		if !scopeMatches(row.BusinessType, businessType) || !scopeMatches(row.AgentType, agentType) {
			continue
		}
		r := Resolved{Value: row.Value, Unit: row.Unit, Description: row.Description}
		if d, ok := defaultBaselines[row.MetricKey]; ok {
			if r.Unit == "" {
				r.Unit = d.unit
			}
			if r.Description == "" {
				r.Description = d.description
			}
		}
		out[row.MetricKey] = r
	}
	return out
}

func scopeMatches(rowScope *string, requested string) bool {
	if rowScope == nil {
		return true
	}
	return requested != "" && *rowScope == requested
}
