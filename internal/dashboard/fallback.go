package dashboard

// BuildFallback produces a structurally complete, zero-valued payload for the
// soft-degrade path. baselines should be whatever resolution succeeded before
// the failure; pass DefaultBaselines() when even the store read failed. A
// dashboard full of zeros beats a broken page.
func BuildFallback(period string, w Window, baselines map[string]Resolved) *Payload {
	const zero = "0.00"
	if baselines == nil {
		baselines = DefaultBaselines()
	}
	return &Payload{
		Period:   period,
		DateFrom: w.From.Format(dateLayout),
		DateTo:   w.To.Format(dateLayout),

		GrowthRatePct:    zero,
		AvgLatencyMS:     zero,
		ErrorRatePct:     zero,
		QualityScore:     zero,
		StabilityScore:   zero,
		AvgQueueTimeMS:   zero,
		TaskSuccessPct:   zero,
		TaskErrorPct:     zero,
		SLACompliancePct: zero,
		UserCoveragePct:  zero,

		Breakdown:         []StatusCount{},
		DomainStats:       []DomainStatPayload{},
		DomainPenetration: []PenetrationPayload{},
		FunnelStats:       []FunnelStagePayload{},
		Baselines:         BaselineList(baselines),

		Collaboration: CollaborationPayload{
			DecisionAccuracyPct:       zero,
			OverrideRatePct:           zero,
			CognitiveLoadReductionPct: zero,
			HandoffTimeSeconds:        zero,
			TeamSatisfactionScore:     zero,
		},
		Risk: RiskPayload{
			RiskExposureScore:     zero,
			AuditRequiredRatePct:  zero,
			AuditCompletedRatePct: zero,
			HumanReviewRatePct:    zero,
		},
		Value: ValuePayload{
			RoleRedesignRatioPct:        zero,
			CustomerNPSDelta:            zero,
			ErrorReductionPct:           zero,
			DecisionSpeedImprovementPct: zero,
		},
		Savings: SavingsPayload{
			BaselineMinutesPerRequest: zero,
			AvgResponseMinutes:        zero,
			TimeSavingsMinutes:        zero,
			CostSavings:               zero,
			BaselineCost:              zero,
			InvestmentCost:            zero,
			ROIRatioPct:               zero,
			SLALatencyMS:              zero,
		},
	}
}
