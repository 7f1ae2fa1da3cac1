package snowflake

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/agentops-portal/internal/domain"
)

// BaselineRepo implements dashboard.BaselineStore against Snowflake.
type BaselineRepo struct{ db *sql.DB }

// NewBaselineRepo creates a Snowflake-backed baseline store.
func NewBaselineRepo(db *sql.DB) *BaselineRepo { return &BaselineRepo{db: db} }

// ListBaselines returns entries visible to the requested scope, global rows
// first so the resolver's last-seen-wins rule yields most-specific-wins.
func (r *BaselineRepo) ListBaselines(ctx context.Context, businessType, agentType string) ([]domain.BaselineEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ID, METRIC_KEY, VALUE, COALESCE(UNIT, ''), COALESCE(DESCRIPTION, ''),
		       BUSINESS_TYPE, AGENT_TYPE, UPDATED_AT
		FROM METRIC_BASELINES
		WHERE (BUSINESS_TYPE IS NULL OR BUSINESS_TYPE = ?)
		  AND (AGENT_TYPE IS NULL OR AGENT_TYPE = ?)
		ORDER BY IFF(BUSINESS_TYPE IS NULL, 0, 1), IFF(AGENT_TYPE IS NULL, 0, 1), UPDATED_AT
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
		SELECT DOMAIN, COALESCE(BEFORE_TIME_MIN, 0), COALESCE(BEFORE_COST, 0)
		FROM TASK_BASELINES`
	args := []interface{}{}
	if businessType != "" {
		q += " WHERE DOMAIN = ?"
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

// ListLaborCosts returns hourly labor rates, scoped rows first.
func (r *BaselineRepo) ListLaborCosts(ctx context.Context, businessType string) ([]domain.LaborCost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ROLE, HOURLY_COST, COALESCE(CURRENCY, ''), BUSINESS_TYPE
		FROM LABOR_COSTS
		WHERE BUSINESS_TYPE IS NULL OR BUSINESS_TYPE = ?
		ORDER BY IFF(BUSINESS_TYPE IS NULL, 1, 0)
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

// UpsertBaseline writes one operator-configured entry via MERGE on the
// metric key plus scope.
func (r *BaselineRepo) UpsertBaseline(ctx context.Context, e domain.BaselineEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		MERGE INTO METRIC_BASELINES t
		USING (SELECT ? AS ID, ? AS METRIC_KEY, ? AS VALUE, ? AS UNIT, ? AS DESCRIPTION,
		              ? AS BUSINESS_TYPE, ? AS AGENT_TYPE) s
		ON t.METRIC_KEY = s.METRIC_KEY
		   AND COALESCE(t.BUSINESS_TYPE, '') = COALESCE(s.BUSINESS_TYPE, '')
		   AND COALESCE(t.AGENT_TYPE, '') = COALESCE(s.AGENT_TYPE, '')
		WHEN MATCHED THEN UPDATE SET
		   VALUE = s.VALUE, UNIT = s.UNIT, DESCRIPTION = s.DESCRIPTION,
		   UPDATED_AT = CURRENT_TIMESTAMP()
		WHEN NOT MATCHED THEN INSERT
		   (ID, METRIC_KEY, VALUE, UNIT, DESCRIPTION, BUSINESS_TYPE, AGENT_TYPE, UPDATED_AT)
		   VALUES (s.ID, s.METRIC_KEY, s.VALUE, s.UNIT, s.DESCRIPTION,
		           s.BUSINESS_TYPE, s.AGENT_TYPE, CURRENT_TIMESTAMP())
	`, e.ID, e.MetricKey, e.Value, e.Unit, e.Description, e.BusinessType, e.AgentType)
	if err != nil {
		return fmt.Errorf("upsert baseline: %w", err)
	}
	return nil
}

// ROIRepo implements dashboard.ROIStore against Snowflake. Last-writer-wins
// on the natural key, same as the Postgres ON CONFLICT upsert.
type ROIRepo struct{ db *sql.DB }

// NewROIRepo creates a Snowflake-backed ROI cache store.
func NewROIRepo(db *sql.DB) *ROIRepo { return &ROIRepo{db: db} }

func (r *ROIRepo) Upsert(ctx context.Context, rec domain.ROIMetricRecord) error {
	_, err := r.db.ExecContext(ctx, `
		MERGE INTO ROI_METRICS t
		USING (SELECT ? AS PERIOD_START, ? AS PERIOD_END,
		              ? AS BUSINESS_TYPE, ? AS AGENT_TYPE,
		              ? AS SAVED_HOURS, ? AS SAVED_COST, ? AS ROI_RATIO_PCT) s
		ON t.PERIOD_START = s.PERIOD_START AND t.PERIOD_END = s.PERIOD_END
		   AND COALESCE(t.BUSINESS_TYPE, '') = COALESCE(s.BUSINESS_TYPE, '')
		   AND COALESCE(t.AGENT_TYPE, '') = COALESCE(s.AGENT_TYPE, '')
		WHEN MATCHED THEN UPDATE SET
		   SAVED_HOURS = s.SAVED_HOURS, SAVED_COST = s.SAVED_COST,
		   ROI_RATIO_PCT = s.ROI_RATIO_PCT, COMPUTED_AT = CURRENT_TIMESTAMP()
		WHEN NOT MATCHED THEN INSERT
		   (PERIOD_START, PERIOD_END, BUSINESS_TYPE, AGENT_TYPE,
		    SAVED_HOURS, SAVED_COST, ROI_RATIO_PCT, COMPUTED_AT)
		   VALUES (s.PERIOD_START, s.PERIOD_END, s.BUSINESS_TYPE, s.AGENT_TYPE,
		           s.SAVED_HOURS, s.SAVED_COST, s.ROI_RATIO_PCT, CURRENT_TIMESTAMP())
	`, rec.PeriodStart, rec.PeriodEnd, rec.BusinessType, rec.AgentType,
		rec.SavedHours, rec.SavedCost, rec.ROIRatioPct)
	if err != nil {
		return fmt.Errorf("upsert roi metrics: %w", err)
	}
	return nil
}
