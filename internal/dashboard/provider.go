package dashboard

import (
	"context"

	"github.com/ignite/agentops-portal/internal/domain"
)

// AggregateProvider executes the windowed queries against one operational
// store and returns the flat aggregate bag. The formula layer depends only on
// this contract; Postgres and Snowflake each supply an implementation. Fetch
// failing is the dashboard's single hard-error path.
type AggregateProvider interface {
	Fetch(ctx context.Context, cur, prev Window, businessType, agentType string) (*domain.RawAggregate, error)
}

// BaselineStore reads and writes operator-configured metric inputs.
// ListTaskBaselines returns only rows for the given business domain (all rows
// when it is empty); the service uses the first row returned.
type BaselineStore interface {
	ListBaselines(ctx context.Context, businessType, agentType string) ([]domain.BaselineEntry, error)
	ListTaskBaselines(ctx context.Context, businessType string) ([]domain.TaskBaseline, error)
	ListLaborCosts(ctx context.Context, businessType string) ([]domain.LaborCost, error)
	UpsertBaseline(ctx context.Context, entry domain.BaselineEntry) error
}

// ROIStore persists the single cached ROI row per (window, filter) key.
// Upserts are idempotent and last-writer-wins.
type ROIStore interface {
	Upsert(ctx context.Context, rec domain.ROIMetricRecord) error
}

// PayloadCache is an optional short-TTL cache of assembled payloads. Both
// sides are best-effort: errors are logged by the service, never surfaced.
type PayloadCache interface {
	Get(ctx context.Context, key string) (*Payload, error)
	Set(ctx context.Context, key string, p *Payload) error
}
