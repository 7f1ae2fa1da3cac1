package snowflake

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/agentops-portal/internal/dashboard"
	"github.com/ignite/agentops-portal/internal/domain"
	"github.com/ignite/agentops-portal/internal/numeric"
)

// AggregateRepo implements dashboard.AggregateProvider against Snowflake.
// Identical field contract to the Postgres provider; only the dialect
// differs. NUMBER aggregates come back from gosnowflake as strings or
// big-number values, so every column goes through the numeric package.
type AggregateRepo struct{ db *sql.DB }

// NewAggregateRepo creates a Snowflake-backed raw aggregate provider.
func NewAggregateRepo(db *sql.DB) *AggregateRepo { return &AggregateRepo{db: db} }

func (r *AggregateRepo) Fetch(ctx context.Context, cur, prev dashboard.Window, businessType, agentType string) (*domain.RawAggregate, error) {
	agg := &domain.RawAggregate{}

	if err := r.fetchRequests(ctx, agg, cur, prev, businessType, agentType); err != nil {
		return nil, err
	}
	if err := r.fetchTelemetry(ctx, agg, cur, businessType, agentType); err != nil {
		return nil, err
	}
	if err := r.fetchCollaboration(ctx, agg, cur, businessType, agentType); err != nil {
		return nil, err
	}
	if err := r.fetchTasks(ctx, agg, cur, businessType, agentType); err != nil {
		return nil, err
	}
	if err := r.fetchUsers(ctx, agg); err != nil {
		return nil, err
	}
	if err := r.fetchRisk(ctx, agg, cur, businessType, agentType); err != nil {
		return nil, err
	}
	if err := r.fetchDomainBreakdown(ctx, agg, cur, agentType); err != nil {
		return nil, err
	}
	if err := r.fetchFunnel(ctx, agg, cur); err != nil {
		return nil, err
	}
	return agg, nil
}

func scopeClause(q string, args []interface{}, businessType, agentType string) (string, []interface{}) {
	if businessType != "" {
		q += " AND BUSINESS_TYPE = ?"
		args = append(args, businessType)
	}
	if agentType != "" {
		q += " AND AGENT_TYPE = ?"
		args = append(args, agentType)
	}
	return q, args
}

func (r *AggregateRepo) fetchRequests(ctx context.Context, agg *domain.RawAggregate, cur, prev dashboard.Window, businessType, agentType string) error {
	q := `
		SELECT COUNT(*),
		       COUNT_IF(STATUS = 'completed'),
		       COUNT_IF(STATUS = 'pending'),
		       COUNT_IF(STATUS IN ('completed', 'failed')),
		       COALESCE(AVG(LATENCY_MS), 0),
		       COALESCE(AVG(ERROR_RATE), 0),
		       COALESCE(AVG(QUEUE_TIME_MS), 0)
		FROM AGENT_REQUESTS
		WHERE CREATED_AT >= ? AND CREATED_AT < ?`
	args := []interface{}{cur.From, cur.To}
	q, args = scopeClause(q, args, businessType, agentType)

	var total, completed, pending, processed, latency, errRate, queueTime interface{}
	err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&total, &completed, &pending, &processed, &latency, &errRate, &queueTime,
	)
	if err != nil {
		return fmt.Errorf("aggregate requests: %w", err)
	}
	agg.TotalRequests = int64(numeric.ToFloat(total, 0))
	agg.CompletedRequests = int64(numeric.ToFloat(completed, 0))
	agg.PendingRequests = int64(numeric.ToFloat(pending, 0))
	agg.RequestsProcessed = int64(numeric.ToFloat(processed, 0))
	agg.AvgLatencyMS = numeric.ToFloat(latency, 0)
	agg.AvgErrorRate = numeric.ToFloat(errRate, 0)
	agg.AvgQueueTimeMS = numeric.ToFloat(queueTime, 0)

	prevQ := `
		SELECT COUNT(*)
		FROM AGENT_REQUESTS
		WHERE CREATED_AT >= ? AND CREATED_AT < ?`
	prevArgs := []interface{}{prev.From, prev.To}
	prevQ, prevArgs = scopeClause(prevQ, prevArgs, businessType, agentType)

	var prevTotal interface{}
	if err := r.db.QueryRowContext(ctx, prevQ, prevArgs...).Scan(&prevTotal); err != nil {
		return fmt.Errorf("aggregate previous requests: %w", err)
	}
	agg.PrevTotalRequests = int64(numeric.ToFloat(prevTotal, 0))
	return nil
}

func (r *AggregateRepo) fetchTelemetry(ctx context.Context, agg *domain.RawAggregate, cur dashboard.Window, businessType, agentType string) error {
	q := `
		SELECT COALESCE(SUM(AI_ASSISTED_DECISIONS), 0),
		       COALESCE(SUM(AI_VALIDATED_DECISIONS), 0),
		       COALESCE(SUM(AI_RECOMMENDATIONS), 0),
		       COALESCE(SUM(DECISIONS_OVERRIDDEN), 0),
		       COALESCE(AVG(COGNITIVE_LOAD_BEFORE), 0),
		       COALESCE(AVG(COGNITIVE_LOAD_AFTER), 0),
		       COALESCE(AVG(HANDOFF_TIME_SECONDS), 0),
		       COALESCE(AVG(TEAM_SATISFACTION_SCORE), 0),
		       COALESCE(SUM(INNOVATION_COUNT), 0)
		FROM AGENT_TELEMETRY
		WHERE SAMPLED_AT >= ? AND SAMPLED_AT < ?`
	args := []interface{}{cur.From, cur.To}
	q, args = scopeClause(q, args, businessType, agentType)

	var assisted, validated, recs, overridden, cogBefore, cogAfter, handoff, satisfaction, innovation interface{}
	err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&assisted, &validated, &recs, &overridden,
		&cogBefore, &cogAfter, &handoff, &satisfaction, &innovation,
	)
	if err != nil {
		return fmt.Errorf("aggregate telemetry: %w", err)
	}
	agg.AIAssistedDecisions = int64(numeric.ToFloat(assisted, 0))
	agg.AIValidatedDecisions = int64(numeric.ToFloat(validated, 0))
	agg.AIRecommendations = int64(numeric.ToFloat(recs, 0))
	agg.DecisionsOverridden = int64(numeric.ToFloat(overridden, 0))
	agg.AvgCognitiveBefore = numeric.ToFloat(cogBefore, 0)
	agg.AvgCognitiveAfter = numeric.ToFloat(cogAfter, 0)
	agg.AvgHandoffSeconds = numeric.ToFloat(handoff, 0)
	agg.AvgTeamSatisfaction = numeric.ToFloat(satisfaction, 0)
	agg.InnovationCount = int64(numeric.ToFloat(innovation, 0))
	return nil
}

func (r *AggregateRepo) fetchCollaboration(ctx context.Context, agg *domain.RawAggregate, cur dashboard.Window, businessType, agentType string) error {
	// NULL means "no sample in the window"; downstream falls back to the
	// telemetry-derived estimates, so no COALESCE here.
	q := `
		SELECT AVG(DECISION_ACCURACY_PCT),
		       AVG(OVERRIDE_RATE_PCT),
		       AVG(COGNITIVE_REDUCTION_PCT),
		       AVG(HANDOFF_SECONDS),
		       AVG(SATISFACTION_SCORE),
		       SUM(INNOVATION_COUNT)
		FROM COLLABORATION_SAMPLES
		WHERE RECORDED_AT >= ? AND RECORDED_AT < ?`
	args := []interface{}{cur.From, cur.To}
	q, args = scopeClause(q, args, businessType, agentType)

	var accuracy, override, cognitive, handoff, satisfaction, innovation interface{}
	err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&accuracy, &override, &cognitive, &handoff, &satisfaction, &innovation,
	)
	if err != nil {
		return fmt.Errorf("aggregate collaboration: %w", err)
	}
	agg.CollabDecisionAccuracyPct = nullableFloat(accuracy)
	agg.CollabOverrideRatePct = nullableFloat(override)
	agg.CollabCognitiveReductionPct = nullableFloat(cognitive)
	agg.CollabHandoffSeconds = nullableFloat(handoff)
	agg.CollabSatisfaction = nullableFloat(satisfaction)
	agg.CollabInnovationCount = nullableFloat(innovation)
	return nil
}

func (r *AggregateRepo) fetchTasks(ctx context.Context, agg *domain.RawAggregate, cur dashboard.Window, businessType, agentType string) error {
	q := `
		SELECT COUNT(*),
		       COUNT_IF(OUTCOME = 'success'),
		       COUNT_IF(OUTCOME = 'error')
		FROM AGENT_TASKS
		WHERE FINISHED_AT >= ? AND FINISHED_AT < ?`
	args := []interface{}{cur.From, cur.To}
	q, args = scopeClause(q, args, businessType, agentType)

	var total, success, errored interface{}
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&total, &success, &errored); err != nil {
		return fmt.Errorf("aggregate tasks: %w", err)
	}
	agg.TotalTasks = int64(numeric.ToFloat(total, 0))
	agg.SuccessTasks = int64(numeric.ToFloat(success, 0))
	agg.ErrorTasks = int64(numeric.ToFloat(errored, 0))
	return nil
}

func (r *AggregateRepo) fetchUsers(ctx context.Context, agg *domain.RawAggregate) error {
	var total, mapped interface{}
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT_IF(AGENT_MAPPING IS NOT NULL)
		FROM PORTAL_USERS
		WHERE ACTIVE = TRUE
	`).Scan(&total, &mapped)
	if err != nil {
		return fmt.Errorf("aggregate users: %w", err)
	}
	agg.TotalUsers = int64(numeric.ToFloat(total, 0))
	agg.MappedUsers = int64(numeric.ToFloat(mapped, 0))
	return nil
}

func (r *AggregateRepo) fetchRisk(ctx context.Context, agg *domain.RawAggregate, cur dashboard.Window, businessType, agentType string) error {
	q := `
		SELECT COUNT(*),
		       COALESCE(AVG(RISK_SCORE), 0),
		       COUNT_IF(AUDIT_REQUIRED),
		       COUNT_IF(AUDIT_COMPLETED),
		       COUNT_IF(HUMAN_REVIEWED)
		FROM RISK_ASSESSMENTS
		WHERE ASSESSED_AT >= ? AND ASSESSED_AT < ?`
	args := []interface{}{cur.From, cur.To}
	q, args = scopeClause(q, args, businessType, agentType)

	var total, score, auditReq, auditDone, reviewed interface{}
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&total, &score, &auditReq, &auditDone, &reviewed)
	if err != nil {
		return fmt.Errorf("aggregate risk: %w", err)
	}
	agg.TotalRiskItems = int64(numeric.ToFloat(total, 0))
	agg.AvgRiskScore = numeric.ToFloat(score, 0)
	agg.AuditRequiredCount = int64(numeric.ToFloat(auditReq, 0))
	agg.AuditCompletedCount = int64(numeric.ToFloat(auditDone, 0))
	agg.HumanReviewedCount = int64(numeric.ToFloat(reviewed, 0))
	return nil
}

func (r *AggregateRepo) fetchDomainBreakdown(ctx context.Context, agg *domain.RawAggregate, cur dashboard.Window, agentType string) error {
	q := `
		SELECT BUSINESS_TYPE,
		       COUNT(*),
		       COUNT_IF(STATUS = 'completed')
		FROM AGENT_REQUESTS
		WHERE CREATED_AT >= ? AND CREATED_AT < ? AND BUSINESS_TYPE IS NOT NULL`
	args := []interface{}{cur.From, cur.To}
	if agentType != "" {
		q += " AND AGENT_TYPE = ?"
		args = append(args, agentType)
	}
	q += " GROUP BY BUSINESS_TYPE ORDER BY COUNT(*) DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("aggregate domain breakdown: %w", err)
	}
	defer rows.Close()

	agg.DomainBreakdown = []domain.DomainStat{}
	for rows.Next() {
		var name string
		var count, completed interface{}
		if err := rows.Scan(&name, &count, &completed); err != nil {
			return fmt.Errorf("scan domain breakdown: %w", err)
		}
		agg.DomainBreakdown = append(agg.DomainBreakdown, domain.DomainStat{
			Domain:         name,
			RequestCount:   int64(numeric.ToFloat(count, 0)),
			CompletedCount: int64(numeric.ToFloat(completed, 0)),
		})
	}
	return rows.Err()
}

func (r *AggregateRepo) fetchFunnel(ctx context.Context, agg *domain.RawAggregate, cur dashboard.Window) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT STAGE, COUNT(DISTINCT USER_ID)
		FROM ADOPTION_FUNNEL_EVENTS
		WHERE OCCURRED_AT >= ? AND OCCURRED_AT < ?
		GROUP BY STAGE
		ORDER BY MIN(STAGE_ORDER)
	`, cur.From, cur.To)
	if err != nil {
		return fmt.Errorf("aggregate funnel: %w", err)
	}
	defer rows.Close()

	agg.FunnelBreakdown = []domain.FunnelStage{}
	for rows.Next() {
		var stage string
		var users interface{}
		if err := rows.Scan(&stage, &users); err != nil {
			return fmt.Errorf("scan funnel stage: %w", err)
		}
		agg.FunnelBreakdown = append(agg.FunnelBreakdown, domain.FunnelStage{
			Stage:     stage,
			UserCount: int64(numeric.ToFloat(users, 0)),
		})
	}
	return rows.Err()
}

func nullableFloat(v interface{}) *float64 {
	if v == nil {
		return nil
	}
	f := numeric.ToFloat(v, 0)
	return &f
}
