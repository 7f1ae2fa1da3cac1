package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/agentops-portal/internal/domain"
)

// ROIRepo implements dashboard.ROIStore against PostgreSQL. One row per
// (window, filter) natural key; a repeated upsert overwrites the value
// fields, so concurrent writers settle on last-writer-wins.
type ROIRepo struct{ db *sql.DB }

// NewROIRepo creates a Postgres-backed ROI cache store.
func NewROIRepo(db *sql.DB) *ROIRepo { return &ROIRepo{db: db} }

func (r *ROIRepo) Upsert(ctx context.Context, rec domain.ROIMetricRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO roi_metrics
			(period_start, period_end, business_type, agent_type,
			 saved_hours, saved_cost, roi_ratio_pct, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (period_start, period_end, COALESCE(business_type, ''), COALESCE(agent_type, ''))
		DO UPDATE SET saved_hours = EXCLUDED.saved_hours,
		              saved_cost = EXCLUDED.saved_cost,
		              roi_ratio_pct = EXCLUDED.roi_ratio_pct,
		              computed_at = NOW()
	`, rec.PeriodStart, rec.PeriodEnd, rec.BusinessType, rec.AgentType,
		rec.SavedHours, rec.SavedCost, rec.ROIRatioPct)
	if err != nil {
		return fmt.Errorf("upsert roi metrics: %w", err)
	}
	return nil
}
