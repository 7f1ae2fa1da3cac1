package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/agentops-portal/internal/dashboard"
	"github.com/ignite/agentops-portal/internal/domain"
	"github.com/ignite/agentops-portal/internal/numeric"
)

// AggregateRepo implements dashboard.AggregateProvider against PostgreSQL.
// Every numeric column is scanned loosely and coerced through the numeric
// package: lib/pq hands back NUMERIC aggregates as []byte, and a malformed
// value must degrade one figure, not abort the fetch.
type AggregateRepo struct{ db *sql.DB }

// NewAggregateRepo creates a Postgres-backed raw aggregate provider.
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

// scopeClause appends optional business/agent filters with the next
// placeholder indexes and returns the extended query, args and index.
func scopeClause(q string, args []interface{}, idx int, businessType, agentType string) (string, []interface{}, int) {
	if businessType != "" {
		q += fmt.Sprintf(" AND business_type = $%d", idx)
		args = append(args, businessType)
		idx++
	}
	if agentType != "" {
		q += fmt.Sprintf(" AND agent_type = $%d", idx)
		args = append(args, agentType)
		idx++
	}
	return q, args, idx
}

func (r *AggregateRepo) fetchRequests(ctx context.Context, agg *domain.RawAggregate, cur, prev dashboard.Window, businessType, agentType string) error {
	q := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status IN ('completed', 'failed')),
		       COALESCE(AVG(latency_ms), 0),
		       COALESCE(AVG(error_rate), 0),
		       COALESCE(AVG(queue_time_ms), 0)
		FROM agent_requests
		WHERE created_at >= $1 AND created_at < $2`
	args := []interface{}{cur.From, cur.To}
	q, args, _ = scopeClause(q, args, 3, businessType, agentType)

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
		FROM agent_requests
		WHERE created_at >= $1 AND created_at < $2`
	prevArgs := []interface{}{prev.From, prev.To}
	prevQ, prevArgs, _ = scopeClause(prevQ, prevArgs, 3, businessType, agentType)

	var prevTotal interface{}
	if err := r.db.QueryRowContext(ctx, prevQ, prevArgs...).Scan(&prevTotal); err != nil {
		return fmt.Errorf("aggregate previous requests: %w", err)
	}
	agg.PrevTotalRequests = int64(numeric.ToFloat(prevTotal, 0))
	return nil
}

func (r *AggregateRepo) fetchTelemetry(ctx context.Context, agg *domain.RawAggregate, cur dashboard.Window, businessType, agentType string) error {
	q := `
		SELECT COALESCE(SUM(ai_assisted_decisions), 0),
		       COALESCE(SUM(ai_validated_decisions), 0),
		       COALESCE(SUM(ai_recommendations), 0),
		       COALESCE(SUM(decisions_overridden), 0),
		       COALESCE(AVG(cognitive_load_before), 0),
		       COALESCE(AVG(cognitive_load_after), 0),
		       COALESCE(AVG(handoff_time_seconds), 0),
		       COALESCE(AVG(team_satisfaction_score), 0),
		       COALESCE(SUM(innovation_count), 0)
		FROM agent_telemetry
		WHERE sampled_at >= $1 AND sampled_at < $2`
	args := []interface{}{cur.From, cur.To}
	q, args, _ = scopeClause(q, args, 3, businessType, agentType)

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
	// No COALESCE here on purpose: NULL means "no sample in the window" and
	// selects the telemetry-derived fallback formula downstream.
	q := `
		SELECT AVG(decision_accuracy_pct),
		       AVG(override_rate_pct),
		       AVG(cognitive_reduction_pct),
		       AVG(handoff_seconds),
		       AVG(satisfaction_score),
		       SUM(innovation_count)
		FROM collaboration_samples
		WHERE recorded_at >= $1 AND recorded_at < $2`
	args := []interface{}{cur.From, cur.To}
	q, args, _ = scopeClause(q, args, 3, businessType, agentType)

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
		       COUNT(*) FILTER (WHERE outcome = 'success'),
		       COUNT(*) FILTER (WHERE outcome = 'error')
		FROM agent_tasks
		WHERE finished_at >= $1 AND finished_at < $2`
	args := []interface{}{cur.From, cur.To}
	q, args, _ = scopeClause(q, args, 3, businessType, agentType)

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
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE agent_mapping IS NOT NULL)
		FROM portal_users
		WHERE active = true
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
		       COALESCE(AVG(risk_score), 0),
		       COUNT(*) FILTER (WHERE audit_required),
		       COUNT(*) FILTER (WHERE audit_completed),
		       COUNT(*) FILTER (WHERE human_reviewed)
		FROM risk_assessments
		WHERE assessed_at >= $1 AND assessed_at < $2`
	args := []interface{}{cur.From, cur.To}
	q, args, _ = scopeClause(q, args, 3, businessType, agentType)

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
		SELECT business_type,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'completed')
		FROM agent_requests
		WHERE created_at >= $1 AND created_at < $2 AND business_type IS NOT NULL`
	args := []interface{}{cur.From, cur.To}
	if agentType != "" {
		q += " AND agent_type = $3"
		args = append(args, agentType)
	}
	q += " GROUP BY business_type ORDER BY COUNT(*) DESC"

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
		SELECT stage, COUNT(DISTINCT user_id)
		FROM adoption_funnel_events
		WHERE occurred_at >= $1 AND occurred_at < $2
		GROUP BY stage
		ORDER BY MIN(stage_order)
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

// nullableFloat distinguishes "no sample" (SQL NULL) from a measured zero.
func nullableFloat(v interface{}) *float64 {
	if v == nil {
		return nil
	}
	f := numeric.ToFloat(v, 0)
	return &f
}
