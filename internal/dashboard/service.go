package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/agentops-portal/internal/domain"
	"github.com/ignite/agentops-portal/internal/pkg/logger"
)

// Query identifies one dashboard request: a reporting period plus optional
// business and agent type filters.
type Query struct {
	Period       string
	BusinessType string
	AgentType    string
}

// Service runs the derivation pipeline: fetch, resolve, compute, best-effort
// ROI cache write, assemble. It holds no mutable state, so concurrent calls
// are safe; the only shared resource is the ROI row, whose upsert is
// last-writer-wins in the store.
type Service struct {
	provider AggregateProvider
	store    BaselineStore
	roi      ROIStore
	cache    PayloadCache
	policy   PeriodPolicy

	nowFn func() time.Time
}

// NewService creates a dashboard service over one backend's adapters.
func NewService(provider AggregateProvider, store BaselineStore, roi ROIStore, policy PeriodPolicy) *Service {
	return &Service{
		provider: provider,
		store:    store,
		roi:      roi,
		policy:   policy,
		nowFn:    time.Now,
	}
}

// SetCache attaches an optional best-effort payload cache.
func (s *Service) SetCache(c PayloadCache) { s.cache = c }

// Dashboard computes the full payload for q. A raw-fetch failure is the only
// error returned; every failure after the fetch soft-degrades to the fallback
// payload with a 200-shaped result.
func (s *Service) Dashboard(ctx context.Context, q Query) (*Payload, error) {
	cur, prev, err := ResolveWindow(q.Period, s.nowFn(), s.policy)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:%s:%s:%s", q.Period, q.BusinessType, q.AgentType)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err != nil {
			logger.Debug("payload cache read failed", "key", cacheKey, "error", err.Error())
		} else if cached != nil {
			return cached, nil
		}
	}

	raw, err := s.provider.Fetch(ctx, cur, prev, q.BusinessType, q.AgentType)
	if err != nil {
		return nil, fmt.Errorf("fetch raw aggregate: %w", err)
	}

	payload, derived, computed := s.derive(ctx, q, cur, *raw)

	if computed && s.roi != nil {
		rec := domain.ROIMetricRecord{
			PeriodStart:  cur.From,
			PeriodEnd:    cur.To,
			BusinessType: optional(q.BusinessType),
			AgentType:    optional(q.AgentType),
			SavedHours:   derived.TimeSavingsMinutes / 60,
			SavedCost:    derived.CostSavings,
			ROIRatioPct:  derived.ROIRatioPct,
		}
		if err := s.roi.Upsert(ctx, rec); err != nil {
			logger.Warn("roi cache write failed", "period", q.Period, "error", err.Error())
		}
	}

	// Fallback payloads stay out of the cache: a transient derivation
	// failure must not pin zeros on the key for a full TTL.
	if computed && s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, payload); err != nil {
			logger.Debug("payload cache write failed", "key", cacheKey, "error", err.Error())
		}
	}
	return payload, nil
}

// derive is the catch boundary: everything after a successful raw fetch runs
// inside it, and any error or panic is replaced by the fallback payload. The
// recovered value is logged by type only, never by content.
func (s *Service) derive(ctx context.Context, q Query, cur Window, raw domain.RawAggregate) (payload *Payload, derived Derived, computed bool) {
	baselines := DefaultBaselines()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("dashboard derivation failed",
				"period", q.Period,
				"business_type", q.BusinessType,
				"agent_type", q.AgentType,
				"panic_type", fmt.Sprintf("%T", r))
			payload = BuildFallback(q.Period, cur, baselines)
			derived = Derived{}
			computed = false
		}
	}()

	rows, err := s.store.ListBaselines(ctx, q.BusinessType, q.AgentType)
	if err != nil {
		logger.Warn("baseline read failed, using defaults", "error", err.Error())
	} else {
		baselines = ResolveBaselines(rows, q.BusinessType, q.AgentType)
	}

	ov := s.loadOverrides(ctx, q.BusinessType)
	derived = Compute(raw, baselines, ov)
	payload = Assemble(q.Period, cur, raw, derived, baselines)
	return payload, derived, true
}

// loadOverrides picks the most specific task baseline and labor cost for the
// requested business type. Store failures degrade to no override.
func (s *Service) loadOverrides(ctx context.Context, businessType string) Overrides {
	var ov Overrides

	if businessType != "" {
		// ListTaskBaselines is already scoped to the domain by the store.
		tbs, err := s.store.ListTaskBaselines(ctx, businessType)
		if err != nil {
			logger.Warn("task baseline read failed", "error", err.Error())
		} else if len(tbs) > 0 {
			ov.TaskBaseline = &tbs[0]
		}
	}

	lcs, err := s.store.ListLaborCosts(ctx, businessType)
	if err != nil {
		logger.Warn("labor cost read failed", "error", err.Error())
		return ov
	}
	// Scoped rate first, scope-less rate as fallback.
	for i := range lcs {
		if businessType != "" && lcs[i].BusinessType != nil && *lcs[i].BusinessType == businessType {
			ov.LaborCost = &lcs[i]
			return ov
		}
	}
	for i := range lcs {
		if lcs[i].BusinessType == nil {
			ov.LaborCost = &lcs[i]
			break
		}
	}
	return ov
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
