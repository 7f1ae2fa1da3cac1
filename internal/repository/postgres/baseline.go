package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/agentops-portal/internal/domain"
)

// BaselineRepo implements dashboard.BaselineStore against PostgreSQL.
type BaselineRepo struct{ db *sql.DB }

// NewBaselineRepo creates a Postgres-backed baseline store.
func NewBaselineRepo(db *sql.DB) *BaselineRepo { return &BaselineRepo{db: db} }

// ListBaselines returns entries visible to the requested scope, global rows
// first so that the resolver's last-seen-wins rule yields most-specific-wins.
func (r *BaselineRepo) ListBaselines(ctx context.Context, businessType, agentType string) ([]domain.BaselineEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, metric_key, value, COALESCE(unit, ''), COALESCE(description, ''),
		       business_type, agent_type, updated_at
		FROM metric_baselines
		WHERE (business_type IS NULL OR business_type = $1)
		  AND (agent_type IS NULL OR agent_type = $2)
		ORDER BY (business_type IS NOT NULL), (agent_type IS NOT NULL), updated_at
	`, businessType, agentType)
	if err != nil {
		return nil, fmt.Errorf("list baselines: %w", err)
	}
	defer rows.Close()

	var out []domain.BaselineEntry
	for rows.Next() {
		var e domain.BaselineEntry
		if err := rows.Scan(
			&e.ID, &e.MetricKey, &e.Value, &e.Unit, &e.Description,
			&e.BusinessType, &e.AgentType, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan baseline: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListTaskBaselines returns pre-automation task effort rows, optionally
// filtered to one business domain.
func (r *BaselineRepo) ListTaskBaselines(ctx context.Context, businessType string) ([]domain.TaskBaseline, error) {
	q := `
		SELECT domain, COALESCE(before_time_min, 0), COALESCE(before_cost, 0)
		FROM task_baselines`
	args := []interface{}{}
	if businessType != "" {
		q += " WHERE domain = $1"
		args = append(args, businessType)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list task baselines: %w", err)
	}
	defer rows.Close()

	var out []domain.TaskBaseline
	for rows.Next() {
		var tb domain.TaskBaseline
		if err := rows.Scan(&tb.Domain, &tb.BeforeTimeMin, &tb.BeforeCost); err != nil {
			return nil, fmt.Errorf("scan task baseline: %w", err)
		}
		out = append(out, tb)
	}
	return out, rows.Err()
}

// ListLaborCosts returns hourly labor rates; rows scoped to the requested
// business type come first.
func (r *BaselineRepo) ListLaborCosts(ctx context.Context, businessType string) ([]domain.LaborCost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT role, hourly_cost, COALESCE(currency, ''), business_type
		FROM labor_costs
		WHERE business_type IS NULL OR business_type = $1
		ORDER BY (business_type IS NULL)
	`, businessType)
	if err != nil {
		return nil, fmt.Errorf("list labor costs: %w", err)
	}
	defer rows.Close()

	var out []domain.LaborCost
	for rows.Next() {
		var lc domain.LaborCost
		if err := rows.Scan(&lc.Role, &lc.HourlyCost, &lc.Currency, &lc.BusinessType); err != nil {
			return nil, fmt.Errorf("scan labor cost: %w", err)
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

// UpsertBaseline writes one operator-configured entry, keyed by metric_key
// and scope.
func (r *BaselineRepo) UpsertBaseline(ctx context.Context, e domain.BaselineEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metric_baselines
			(id, metric_key, value, unit, description, business_type, agent_type, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (metric_key, COALESCE(business_type, ''), COALESCE(agent_type, ''))
		DO UPDATE SET value = EXCLUDED.value,
		              unit = EXCLUDED.unit,
		              description = EXCLUDED.description,
		              updated_at = NOW()
	`, e.ID, e.MetricKey, e.Value, e.Unit, e.Description, e.BusinessType, e.AgentType)
	if err != nil {
		return fmt.Errorf("upsert baseline: %w", err)
	}
	return nil
}
