package dashboard

// Payload is the full dashboard response. Percentage and money fields are
// fixed to two decimals as strings at assembly time; counts stay integers.
// The shape is stable: every field is always present, computed or fallback.
type Payload struct {
	Period   string `json:"period"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`

	TotalRequests     int64  `json:"total_requests"`
	PrevTotalRequests int64  `json:"prev_total_requests"`
	GrowthRatePct     string `json:"growth_rate_pct"`
	CompletedRequests int64  `json:"completed_requests"`
	PendingRequests   int64  `json:"pending_requests"`
	RequestsProcessed int64  `json:"requests_processed"`

	AvgLatencyMS     string `json:"avg_latency_ms"`
	ErrorRatePct     string `json:"error_rate_pct"`
	QualityScore     string `json:"quality_score"`
	StabilityScore   string `json:"stability_score"`
	AvgQueueTimeMS   string `json:"avg_queue_time_ms"`
	TaskSuccessPct   string `json:"task_success_rate_pct"`
	TaskErrorPct     string `json:"task_error_rate_pct"`
	SLACompliancePct string `json:"sla_compliance_pct"`
	UserCoveragePct  string `json:"user_coverage_pct"`

	Breakdown         []StatusCount        `json:"breakdown"`
	DomainStats       []DomainStatPayload  `json:"domain_stats"`
	DomainPenetration []PenetrationPayload `json:"domain_penetration"`
	FunnelStats       []FunnelStagePayload `json:"funnel_stats"`
	Baselines         []BaselinePayload    `json:"baselines"`

	Collaboration CollaborationPayload `json:"collaboration"`
	Risk          RiskPayload          `json:"risk"`
	Value         ValuePayload         `json:"value"`
	Savings       SavingsPayload       `json:"savings"`
}

// StatusCount is one slice of the request status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DomainStatPayload echoes one raw domain breakdown row.
type DomainStatPayload struct {
	Domain         string `json:"domain"`
	RequestCount   int64  `json:"request_count"`
	CompletedCount int64  `json:"completed_count"`
}

// PenetrationPayload is one domain's share of request volume.
type PenetrationPayload struct {
	Domain         string `json:"domain"`
	RequestCount   int64  `json:"request_count"`
	PenetrationPct string `json:"penetration_pct"`
}

// FunnelStagePayload is one adoption funnel stage.
type FunnelStagePayload struct {
	Stage     string `json:"stage"`
	UserCount int64  `json:"user_count"`
}

// BaselinePayload is one resolved baseline echoed back to the UI.
type BaselinePayload struct {
	MetricKey   string  `json:"metric_key"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
}

// CollaborationPayload groups the human-AI collaboration figures.
type CollaborationPayload struct {
	DecisionAccuracyPct       string `json:"decision_accuracy_pct"`
	OverrideRatePct           string `json:"override_rate_pct"`
	CognitiveLoadReductionPct string `json:"cognitive_load_reduction_pct"`
	HandoffTimeSeconds        string `json:"handoff_time_seconds"`
	TeamSatisfactionScore     string `json:"team_satisfaction_score"`
	InnovationCount           int64  `json:"innovation_count"`
}

// RiskPayload groups the risk exposure figures.
type RiskPayload struct {
	RiskExposureScore     string `json:"risk_exposure_score"`
	AuditRequiredRatePct  string `json:"audit_required_rate_pct"`
	AuditCompletedRatePct string `json:"audit_completed_rate_pct"`
	HumanReviewRatePct    string `json:"human_review_rate_pct"`
	TotalRiskItems        int64  `json:"total_risk_items"`
}

// ValuePayload groups the operator-assessed value figures.
type ValuePayload struct {
	RoleRedesignRatioPct        string `json:"role_redesign_ratio_pct"`
	CustomerNPSDelta            string `json:"customer_nps_delta"`
	ErrorReductionPct           string `json:"error_reduction_pct"`
	DecisionSpeedImprovementPct string `json:"decision_speed_improvement_pct"`
}

// SavingsPayload groups the time/cost savings and ROI figures.
type SavingsPayload struct {
	BaselineMinutesPerRequest string `json:"baseline_minutes_per_request"`
	AvgResponseMinutes        string `json:"avg_response_minutes"`
	TimeSavingsMinutes        string `json:"time_savings_minutes"`
	CostSavings               string `json:"cost_savings"`
	BaselineCost              string `json:"baseline_cost"`
	InvestmentCost            string `json:"investment_cost"`
	ROIRatioPct               string `json:"roi_ratio_pct"`
	SLALatencyMS              string `json:"sla_latency_ms"`
}
