package dashboard

import (
	"sort"

	"github.com/ignite/agentops-portal/internal/domain"
	"github.com/ignite/agentops-portal/internal/numeric"
)

const dateLayout = "2006-01-02"

// Assemble merges raw pass-through fields, derived metrics and resolved
// baselines into the final payload, applying two-decimal rounding to every
// percentage and money field at this boundary.
func Assemble(period string, w Window, raw domain.RawAggregate, d Derived, baselines map[string]Resolved) *Payload {
	p := &Payload{
		Period:   period,
		DateFrom: w.From.Format(dateLayout),
		DateTo:   w.To.Format(dateLayout),

		TotalRequests:     raw.TotalRequests,
		PrevTotalRequests: raw.PrevTotalRequests,
		GrowthRatePct:     fixed(d.GrowthRatePct),
		CompletedRequests: raw.CompletedRequests,
		PendingRequests:   raw.PendingRequests,
		RequestsProcessed: raw.RequestsProcessed,

		AvgLatencyMS:     fixed(raw.AvgLatencyMS),
		ErrorRatePct:     fixed(d.ErrorRatePct),
		QualityScore:     fixed(d.QualityScore),
		StabilityScore:   fixed(d.StabilityScore),
		AvgQueueTimeMS:   fixed(raw.AvgQueueTimeMS),
		TaskSuccessPct:   fixed(d.TaskSuccessPct),
		TaskErrorPct:     fixed(d.TaskErrorPct),
		SLACompliancePct: fixed(d.SLACompliancePct),
		UserCoveragePct:  fixed(d.UserCoveragePct),

		Breakdown: []StatusCount{
			{Status: "completed", Count: raw.CompletedRequests},
			{Status: "pending", Count: raw.PendingRequests},
			{Status: "processed", Count: raw.RequestsProcessed},
		},

		Collaboration: CollaborationPayload{
			DecisionAccuracyPct:       fixed(d.CollabDecisionAccuracyPct),
			OverrideRatePct:           fixed(d.CollabOverrideRatePct),
			CognitiveLoadReductionPct: fixed(d.CollabCognitiveReductionPct),
			HandoffTimeSeconds:        fixed(d.CollabHandoffSeconds),
			TeamSatisfactionScore:     fixed(d.CollabSatisfaction),
			InnovationCount:           d.CollabInnovationCount,
		},
		Risk: RiskPayload{
			RiskExposureScore:     fixed(d.RiskExposureScore),
			AuditRequiredRatePct:  fixed(d.AuditRequiredRatePct),
			AuditCompletedRatePct: fixed(d.AuditCompletedRatePct),
			HumanReviewRatePct:    fixed(d.HumanReviewRatePct),
			TotalRiskItems:        raw.TotalRiskItems,
		},
		Value: ValuePayload{
			RoleRedesignRatioPct:        fixed(d.RoleRedesignRatioPct),
			CustomerNPSDelta:            fixed(d.CustomerNPSDelta),
			ErrorReductionPct:           fixed(d.ErrorReductionPct),
			DecisionSpeedImprovementPct: fixed(d.DecisionSpeedImprovementPct),
		},
		Savings: SavingsPayload{
			BaselineMinutesPerRequest: fixed(d.BaselineMinutesPerRequest),
			AvgResponseMinutes:        fixed(d.AvgResponseMinutes),
			TimeSavingsMinutes:        fixed(d.TimeSavingsMinutes),
			CostSavings:               fixed(d.CostSavings),
			BaselineCost:              fixed(d.BaselineCost),
			InvestmentCost:            fixed(d.InvestmentCost),
			ROIRatioPct:               fixed(d.ROIRatioPct),
			SLALatencyMS:              fixed(d.SLALatencyMS),
		},
	}

	p.DomainStats = make([]DomainStatPayload, 0, len(raw.DomainBreakdown))
	for _, ds := range raw.DomainBreakdown {
		p.DomainStats = append(p.DomainStats, DomainStatPayload{
			Domain:         ds.Domain,
			RequestCount:   ds.RequestCount,
			CompletedCount: ds.CompletedCount,
		})
	}

	p.DomainPenetration = make([]PenetrationPayload, 0, len(d.DomainPenetration))
	for _, dp := range d.DomainPenetration {
		p.DomainPenetration = append(p.DomainPenetration, PenetrationPayload{
			Domain:         dp.Domain,
			RequestCount:   dp.RequestCount,
			PenetrationPct: fixed(dp.PenetrationPct),
		})
	}

	p.FunnelStats = make([]FunnelStagePayload, 0, len(raw.FunnelBreakdown))
	for _, fs := range raw.FunnelBreakdown {
		p.FunnelStats = append(p.FunnelStats, FunnelStagePayload{
			Stage:     fs.Stage,
			UserCount: fs.UserCount,
		})
	}

	p.Baselines = BaselineList(baselines)
	return p
}

// BaselineList flattens a resolved baseline map into a key-sorted slice so
// payloads are deterministic.
func BaselineList(baselines map[string]Resolved) []BaselinePayload {
	out := make([]BaselinePayload, 0, len(baselines))
	for key, r := range baselines {
		out = append(out, BaselinePayload{
			MetricKey:   key,
			Value:       r.Value,
			Unit:        r.Unit,
			Description: r.Description,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MetricKey < out[j].MetricKey })
	return out
}

func fixed(v float64) string {
	return numeric.ToFixed(v, 2, "0.00")
}
