package dashboard

import (
	"github.com/ignite/agentops-portal/internal/domain"
)

// Overrides carries the most-specific task baseline and labor cost rows the
// service selected for the requested business type. Either may be nil.
type Overrides struct {
	TaskBaseline *domain.TaskBaseline
	LaborCost    *domain.LaborCost
}

// Derived holds every figure computed from one RawAggregate plus resolved
// baselines. Percentages are 0-100; rounding happens at the assembly
// boundary, not here.
type Derived struct {
	GrowthRatePct    float64
	ErrorRatePct     float64
	QualityScore     float64
	StabilityScore   float64
	TaskSuccessPct   float64
	TaskErrorPct     float64
	SLACompliancePct float64
	UserCoveragePct  float64

	BaselineMinutesPerRequest float64
	CostPerHour               float64
	AvgResponseMinutes        float64
	TimeSavingsMinutes        float64
	CostSavings               float64
	BaselineCost              float64
	InvestmentCost            float64
	ROIRatioPct               float64
	SLALatencyMS              float64

	CollabDecisionAccuracyPct   float64
	CollabOverrideRatePct       float64
	CollabCognitiveReductionPct float64
	CollabHandoffSeconds        float64
	CollabSatisfaction          float64
	CollabInnovationCount       int64

	RiskExposureScore     float64
	AuditRequiredRatePct  float64
	AuditCompletedRatePct float64
	HumanReviewRatePct    float64

	RoleRedesignRatioPct        float64
	CustomerNPSDelta            float64
	ErrorReductionPct           float64
	DecisionSpeedImprovementPct float64

	DomainPenetration []DomainPenetration
}

// DomainPenetration is one domain's share of total request volume.
type DomainPenetration struct {
	Domain         string
	RequestCount   int64
	PenetrationPct float64
}

// Compute derives the full metric set from one raw aggregate. It is a pure
// function: no I/O, no shared state, and it never fails — malformed inputs
// were already coerced away by the providers.
func Compute(raw domain.RawAggregate, baselines map[string]Resolved, ov Overrides) Derived {
	d := Derived{}

	// Error rate may be stored as a fraction (0-1) or a percentage (0-100)
	// depending on the sample source. Values above 1 are assumed to already
	// be percentages. A genuine anomaly rate capped at 150% is misread as a
	// fraction by this test; preserved as-is because the sample sources
	// disagree on the encoding.
	normalized := raw.AvgErrorRate
	if normalized > 1 {
		normalized = normalized / 100
	}
	if normalized < 0 {
		normalized = 0
	}
	d.ErrorRatePct = normalized * 100
	d.QualityScore = clampMin((1-normalized)*5, 0)
	d.StabilityScore = clampMin(100-d.ErrorRatePct, 0)

	if raw.TotalTasks > 0 {
		d.TaskSuccessPct = float64(raw.SuccessTasks) / float64(raw.TotalTasks) * 100
		d.TaskErrorPct = float64(raw.ErrorTasks) / float64(raw.TotalTasks) * 100
	}

	d.SLALatencyMS = baselineValue(baselines, KeySLALatencyMS)
	latencyTotal := raw.AvgLatencyMS + raw.AvgQueueTimeMS
	if latencyTotal <= d.SLALatencyMS || d.SLALatencyMS <= 0 {
		d.SLACompliancePct = 100
	} else {
		d.SLACompliancePct = clampMin(100-(latencyTotal-d.SLALatencyMS)/d.SLALatencyMS*100, 0)
	}

	if raw.PrevTotalRequests > 0 {
		d.GrowthRatePct = float64(raw.TotalRequests-raw.PrevTotalRequests) / float64(raw.PrevTotalRequests) * 100
	}
	if raw.TotalUsers > 0 {
		d.UserCoveragePct = float64(raw.MappedUsers) / float64(raw.TotalUsers) * 100
	}

	d.computeSavings(raw, baselines, ov)
	d.computeCollaboration(raw)
	d.computeRisk(raw)
	d.computeValue(baselines)
	d.computePenetration(raw)
	return d
}

// computeSavings resolves the minutes-per-request and hourly cost baselines
// with their override precedence, then derives time savings, cost savings,
// baseline cost and the ROI ratio.
func (d *Derived) computeSavings(raw domain.RawAggregate, baselines map[string]Resolved, ov Overrides) {
	d.BaselineMinutesPerRequest = baselineValue(baselines, KeyBaselineMinutesPerRequest)
	if ov.TaskBaseline != nil && ov.TaskBaseline.BeforeTimeMin > 0 {
		d.BaselineMinutesPerRequest = ov.TaskBaseline.BeforeTimeMin
	}

	d.CostPerHour = baselineValue(baselines, KeyCostPerHour)
	if ov.LaborCost != nil && ov.LaborCost.HourlyCost > 0 {
		d.CostPerHour = ov.LaborCost.HourlyCost
	}

	d.AvgResponseMinutes = (raw.AvgLatencyMS + raw.AvgQueueTimeMS) / 1000 / 60
	completed := float64(raw.CompletedRequests)
	d.TimeSavingsMinutes = clampMin((d.BaselineMinutesPerRequest-d.AvgResponseMinutes)*completed, 0)
	d.CostSavings = d.TimeSavingsMinutes / 60 * d.CostPerHour

	if ov.TaskBaseline != nil && ov.TaskBaseline.BeforeCost > 0 {
		d.BaselineCost = ov.TaskBaseline.BeforeCost * completed
	} else {
		d.BaselineCost = d.BaselineMinutesPerRequest / 60 * completed * d.CostPerHour
	}

	// A zero configured investment would make every ROI meaningless, so the
	// baseline cost stands in for it.
	d.InvestmentCost = baselineValue(baselines, KeyInvestmentCost)
	if d.InvestmentCost <= 0 {
		d.InvestmentCost = d.BaselineCost
	}
	if d.InvestmentCost > 0 {
		d.ROIRatioPct = d.CostSavings / d.InvestmentCost * 100
	}
}

// computeCollaboration prefers direct collaboration samples and falls back to
// estimates derived from agent telemetry when no sample exists in the window.
func (d *Derived) computeCollaboration(raw domain.RawAggregate) {
	if raw.CollabDecisionAccuracyPct != nil {
		d.CollabDecisionAccuracyPct = *raw.CollabDecisionAccuracyPct
	} else if raw.AIAssistedDecisions > 0 {
		d.CollabDecisionAccuracyPct = float64(raw.AIValidatedDecisions) / float64(raw.AIAssistedDecisions) * 100
	}

	if raw.CollabOverrideRatePct != nil {
		d.CollabOverrideRatePct = *raw.CollabOverrideRatePct
	} else if raw.AIRecommendations > 0 {
		d.CollabOverrideRatePct = float64(raw.DecisionsOverridden) / float64(raw.AIRecommendations) * 100
	}

	if raw.CollabCognitiveReductionPct != nil {
		d.CollabCognitiveReductionPct = *raw.CollabCognitiveReductionPct
	} else if raw.AvgCognitiveBefore > 0 {
		d.CollabCognitiveReductionPct = (raw.AvgCognitiveBefore - raw.AvgCognitiveAfter) / raw.AvgCognitiveBefore * 100
	}

	if raw.CollabHandoffSeconds != nil {
		d.CollabHandoffSeconds = *raw.CollabHandoffSeconds
	} else {
		d.CollabHandoffSeconds = raw.AvgHandoffSeconds
	}

	if raw.CollabSatisfaction != nil {
		d.CollabSatisfaction = *raw.CollabSatisfaction
	} else {
		d.CollabSatisfaction = raw.AvgTeamSatisfaction
	}

	if raw.CollabInnovationCount != nil {
		d.CollabInnovationCount = int64(*raw.CollabInnovationCount)
	} else {
		d.CollabInnovationCount = raw.InnovationCount
	}
}

func (d *Derived) computeRisk(raw domain.RawAggregate) {
	// avg_risk_score is already a composite of the four sub-scores; pass it
	// through untouched.
	d.RiskExposureScore = raw.AvgRiskScore
	if raw.TotalRiskItems > 0 {
		total := float64(raw.TotalRiskItems)
		d.AuditRequiredRatePct = float64(raw.AuditRequiredCount) / total * 100
		d.AuditCompletedRatePct = float64(raw.AuditCompletedCount) / total * 100
		d.HumanReviewRatePct = float64(raw.HumanReviewedCount) / total * 100
	}
}

// computeValue handles the operator-entered value metrics; all but the role
// redesign ratio are baseline pass-throughs.
func (d *Derived) computeValue(baselines map[string]Resolved) {
	totalRoles := baselineValue(baselines, KeyTotalRoles)
	if totalRoles > 0 {
		d.RoleRedesignRatioPct = baselineValue(baselines, KeyRolesRedefined) / totalRoles * 100
	}
	d.CustomerNPSDelta = baselineValue(baselines, KeyCustomerNPSDelta)
	d.ErrorReductionPct = baselineValue(baselines, KeyErrorReductionPct)
	d.DecisionSpeedImprovementPct = baselineValue(baselines, KeyDecisionSpeedImprovement)
}

func (d *Derived) computePenetration(raw domain.RawAggregate) {
	d.DomainPenetration = make([]DomainPenetration, 0, len(raw.DomainBreakdown))
	for _, ds := range raw.DomainBreakdown {
		p := DomainPenetration{Domain: ds.Domain, RequestCount: ds.RequestCount}
		if raw.TotalRequests > 0 {
			p.PenetrationPct = float64(ds.RequestCount) / float64(raw.TotalRequests) * 100
		}
		d.DomainPenetration = append(d.DomainPenetration, p)
	}
}

func baselineValue(baselines map[string]Resolved, key string) float64 {
	return baselines[key].Value
}

func clampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}
