package domain

import (
	"time"
)

// RawAggregate is the flat, backend-agnostic bag of sums/averages/counts an
// aggregate provider returns for one reporting window. Any field may be absent
// in the underlying store; providers coerce missing values to zero except the
// collaboration sample fields, where nil means "no sample" and selects the
// derived fallback formula instead.
type RawAggregate struct {
	TotalRequests     int64 `json:"total_requests" db:"total_requests"`
	PrevTotalRequests int64 `json:"prev_total_requests" db:"prev_total_requests"`
	CompletedRequests int64 `json:"completed_requests" db:"completed_requests"`
	PendingRequests   int64 `json:"pending_requests" db:"pending_requests"`
	RequestsProcessed int64 `json:"requests_processed" db:"requests_processed"`

	AvgLatencyMS   float64 `json:"avg_latency_ms" db:"avg_latency_ms"`
	AvgErrorRate   float64 `json:"avg_error_rate" db:"avg_error_rate"`
	AvgQueueTimeMS float64 `json:"avg_queue_time_ms" db:"avg_queue_time_ms"`

	AIAssistedDecisions  int64   `json:"ai_assisted_decisions" db:"ai_assisted_decisions"`
	AIValidatedDecisions int64   `json:"ai_validated_decisions" db:"ai_validated_decisions"`
	AIRecommendations    int64   `json:"ai_recommendations" db:"ai_recommendations"`
	DecisionsOverridden  int64   `json:"decisions_overridden" db:"decisions_overridden"`
	AvgCognitiveBefore   float64 `json:"avg_cognitive_load_before" db:"avg_cognitive_load_before"`
	AvgCognitiveAfter    float64 `json:"avg_cognitive_load_after" db:"avg_cognitive_load_after"`
	AvgHandoffSeconds    float64 `json:"avg_handoff_time_seconds" db:"avg_handoff_time_seconds"`
	AvgTeamSatisfaction  float64 `json:"avg_team_satisfaction_score" db:"avg_team_satisfaction_score"`
	InnovationCount      int64   `json:"innovation_count" db:"innovation_count"`

	TotalTasks   int64 `json:"total_tasks" db:"total_tasks"`
	SuccessTasks int64 `json:"success_tasks" db:"success_tasks"`
	ErrorTasks   int64 `json:"error_tasks" db:"error_tasks"`

	TotalUsers  int64 `json:"total_users" db:"total_users"`
	MappedUsers int64 `json:"mapped_users" db:"mapped_users"`

	// Direct collaboration samples. Nil when no sample row existed in the
	// window, which is not the same thing as a measured zero.
	CollabDecisionAccuracyPct   *float64 `json:"collaboration_decision_accuracy_pct" db:"collaboration_decision_accuracy_pct"`
	CollabOverrideRatePct       *float64 `json:"collaboration_override_rate_pct" db:"collaboration_override_rate_pct"`
	CollabCognitiveReductionPct *float64 `json:"collaboration_cognitive_reduction_pct" db:"collaboration_cognitive_reduction_pct"`
	CollabHandoffSeconds        *float64 `json:"collaboration_handoff_seconds" db:"collaboration_handoff_seconds"`
	CollabSatisfaction          *float64 `json:"collaboration_satisfaction" db:"collaboration_satisfaction"`
	CollabInnovationCount       *float64 `json:"collaboration_innovation_count" db:"collaboration_innovation_count"`

	TotalRiskItems      int64   `json:"total_risk_items" db:"total_risk_items"`
	AvgRiskScore        float64 `json:"avg_risk_score" db:"avg_risk_score"`
	AuditRequiredCount  int64   `json:"audit_required_count" db:"audit_required_count"`
	AuditCompletedCount int64   `json:"audit_completed_count" db:"audit_completed_count"`
	HumanReviewedCount  int64   `json:"human_reviewed_count" db:"human_reviewed_count"`

	DomainBreakdown []DomainStat  `json:"domain_breakdown"`
	FunnelBreakdown []FunnelStage `json:"funnel_breakdown"`
}

// DomainStat is one business domain's slice of the request volume.
type DomainStat struct {
	Domain         string `json:"domain" db:"domain"`
	RequestCount   int64  `json:"request_count" db:"request_count"`
	CompletedCount int64  `json:"completed_count" db:"completed_count"`
}

// FunnelStage is one stage of the adoption funnel with its user count.
type FunnelStage struct {
	Stage     string `json:"stage" db:"stage"`
	UserCount int64  `json:"user_count" db:"user_count"`
}

// BaselineEntry is one operator-configured metric input. Nil BusinessType or
// AgentType denotes the global scope for that dimension.
type BaselineEntry struct {
	ID           string    `json:"id" db:"id"`
	MetricKey    string    `json:"metric_key" db:"metric_key"`
	Value        float64   `json:"value" db:"value"`
	Unit         string    `json:"unit" db:"unit"`
	Description  string    `json:"description" db:"description"`
	BusinessType *string   `json:"business_type" db:"business_type"`
	AgentType    *string   `json:"agent_type" db:"agent_type"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TaskBaseline captures the pre-automation effort for one business domain,
// used to override the minutes-per-request baseline and to price the
// comparison cost in the ROI formula.
type TaskBaseline struct {
	Domain        string  `json:"domain" db:"domain"`
	BeforeTimeMin float64 `json:"before_time_min" db:"before_time_min"`
	BeforeCost    float64 `json:"before_cost" db:"before_cost"`
}

// LaborCost is an operator-entered hourly labor rate, optionally scoped to a
// business type. Scoped rows win over scope-less ones.
type LaborCost struct {
	Role         string  `json:"role" db:"role"`
	HourlyCost   float64 `json:"hourly_cost" db:"hourly_cost"`
	Currency     string  `json:"currency" db:"currency"`
	BusinessType *string `json:"business_type" db:"business_type"`
}

// ROIMetricRecord is the single cached row of derived ROI figures per
// (window, filter) key. Upserts are last-writer-wins.
type ROIMetricRecord struct {
	PeriodStart  time.Time `json:"period_start" db:"period_start"`
	PeriodEnd    time.Time `json:"period_end" db:"period_end"`
	BusinessType *string   `json:"business_type" db:"business_type"`
	AgentType    *string   `json:"agent_type" db:"agent_type"`
	SavedHours   float64   `json:"saved_hours" db:"saved_hours"`
	SavedCost    float64   `json:"saved_cost" db:"saved_cost"`
	ROIRatioPct  float64   `json:"roi_ratio_pct" db:"roi_ratio_pct"`
}
