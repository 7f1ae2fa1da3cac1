package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/agentops-portal/internal/domain"
)

type fakeProvider struct {
	raw *domain.RawAggregate
	err error

	gotCur, gotPrev Window
	gotBusiness     string
	gotAgent        string
}

func (f *fakeProvider) Fetch(ctx context.Context, cur, prev Window, businessType, agentType string) (*domain.RawAggregate, error) {
	f.gotCur, f.gotPrev = cur, prev
	f.gotBusiness, f.gotAgent = businessType, agentType
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

type fakeStore struct {
	baselines   []domain.BaselineEntry
	baselineErr error
	taskBases   []domain.TaskBaseline
	taskErr     error
	laborCosts  []domain.LaborCost
	laborErr    error
	upserted    []domain.BaselineEntry
}

func (f *fakeStore) ListBaselines(ctx context.Context, businessType, agentType string) ([]domain.BaselineEntry, error) {
	return f.baselines, f.baselineErr
}

func (f *fakeStore) ListTaskBaselines(ctx context.Context, businessType string) ([]domain.TaskBaseline, error) {
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	// Real stores filter by domain in SQL.
	var out []domain.TaskBaseline
	for _, tb := range f.taskBases {
		if businessType == "" || tb.Domain == businessType {
			out = append(out, tb)
		}
	}
	return out, nil
}

func (f *fakeStore) ListLaborCosts(ctx context.Context, businessType string) ([]domain.LaborCost, error) {
	return f.laborCosts, f.laborErr
}

func (f *fakeStore) UpsertBaseline(ctx context.Context, entry domain.BaselineEntry) error {
	f.upserted = append(f.upserted, entry)
	return nil
}

type fakeROIStore struct {
	records []domain.ROIMetricRecord
	err     error
}

func (f *fakeROIStore) Upsert(ctx context.Context, rec domain.ROIMetricRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

type fakeCache struct {
	entries map[string]*Payload
	getErr  error
	setErr  error
	gets    []string
}

func (f *fakeCache) Get(ctx context.Context, key string) (*Payload, error) {
	f.gets = append(f.gets, key)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key string, p *Payload) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.entries == nil {
		f.entries = map[string]*Payload{}
	}
	f.entries[key] = p
	return nil
}

func newTestService(p AggregateProvider, st BaselineStore, roi ROIStore) *Service {
	s := NewService(p, st, roi, PeriodPolicy{})
	s.nowFn = func() time.Time {
		return time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	}
	return s
}

func TestDashboardHappyPath(t *testing.T) {
	provider := &fakeProvider{raw: &domain.RawAggregate{
		TotalRequests:     120,
		PrevTotalRequests: 100,
		CompletedRequests: 100,
		AvgLatencyMS:      1500,
		AvgQueueTimeMS:    800,
	}}
	store := &fakeStore{}
	roi := &fakeROIStore{}
	s := newTestService(provider, store, roi)

	p, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek, BusinessType: "claims"})
	require.NoError(t, err)

	assert.Equal(t, "week", p.Period)
	assert.Equal(t, "20.00", p.GrowthRatePct)
	assert.Equal(t, "85.00", p.SLACompliancePct)
	assert.Equal(t, "claims", provider.gotBusiness)
	assert.Equal(t, 7, provider.gotCur.Days)
	// The previous window abuts the current one.
	assert.True(t, provider.gotPrev.To.Equal(provider.gotCur.From))
}

func TestDashboardUnknownPeriod(t *testing.T) {
	s := newTestService(&fakeProvider{}, &fakeStore{}, &fakeROIStore{})
	_, err := s.Dashboard(context.Background(), Query{Period: "quarter"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestDashboardFetchFailureIsHard(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	s := newTestService(provider, &fakeStore{}, &fakeROIStore{})

	p, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek})
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "fetch raw aggregate")
}

func TestDashboardBaselineFailureSoftDegrades(t *testing.T) {
	provider := &fakeProvider{raw: &domain.RawAggregate{TotalRequests: 10, PrevTotalRequests: 5}}
	store := &fakeStore{baselineErr: errors.New("relation does not exist")}
	s := newTestService(provider, store, &fakeROIStore{})

	p, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek})
	require.NoError(t, err)

	// Compiled-in defaults carry the payload through.
	assert.Equal(t, "100.00", p.GrowthRatePct)
	assert.Equal(t, "2000.00", p.Savings.SLALatencyMS)
	assert.Len(t, p.Baselines, 9)
}

func TestDashboardROIUpsert(t *testing.T) {
	provider := &fakeProvider{raw: &domain.RawAggregate{CompletedRequests: 100}}
	roi := &fakeROIStore{}
	s := newTestService(provider, &fakeStore{}, roi)

	_, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek, BusinessType: "claims", AgentType: "triage"})
	require.NoError(t, err)

	require.Len(t, roi.records, 1)
	rec := roi.records[0]
	require.NotNil(t, rec.BusinessType)
	assert.Equal(t, "claims", *rec.BusinessType)
	require.NotNil(t, rec.AgentType)
	assert.Equal(t, "triage", *rec.AgentType)
	// 12 min saved per request, 100 requests, in hours.
	assert.InDelta(t, 20.0, rec.SavedHours, 1e-9)
	assert.True(t, rec.PeriodEnd.After(rec.PeriodStart))
}

func TestDashboardROIUpsertUnscopedKey(t *testing.T) {
	provider := &fakeProvider{raw: &domain.RawAggregate{CompletedRequests: 1}}
	roi := &fakeROIStore{}
	s := newTestService(provider, &fakeStore{}, roi)

	_, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek})
	require.NoError(t, err)

	require.Len(t, roi.records, 1)
	assert.Nil(t, roi.records[0].BusinessType)
	assert.Nil(t, roi.records[0].AgentType)
}

func TestDashboardROIUpsertFailureSwallowed(t *testing.T) {
	provider := &fakeProvider{raw: &domain.RawAggregate{CompletedRequests: 10}}
	roi := &fakeROIStore{err: errors.New("deadlock detected")}
	s := newTestService(provider, &fakeStore{}, roi)

	p, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek})
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestDashboardOverrideSelection(t *testing.T) {
	scoped := "claims"
	provider := &fakeProvider{raw: &domain.RawAggregate{CompletedRequests: 100}}
	store := &fakeStore{
		taskBases: []domain.TaskBaseline{
			{Domain: "underwriting", BeforeTimeMin: 99},
			{Domain: "claims", BeforeTimeMin: 30, BeforeCost: 500},
		},
		laborCosts: []domain.LaborCost{
			{Role: "ops", HourlyCost: 40000},
			{Role: "analyst", HourlyCost: 70000, BusinessType: &scoped},
		},
	}
	s := newTestService(provider, store, &fakeROIStore{})

	p, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek, BusinessType: "claims"})
	require.NoError(t, err)

	// Domain-matched task baseline and scoped labor cost both apply.
	assert.Equal(t, "30.00", p.Savings.BaselineMinutesPerRequest)
	assert.Equal(t, "50000.00", p.Savings.BaselineCost)
	// 30 min * 100 requests = 50h at the scoped 70000/h rate.
	assert.Equal(t, "3500000.00", p.Savings.CostSavings)
}

func TestDashboardScopelessLaborCostFallback(t *testing.T) {
	provider := &fakeProvider{raw: &domain.RawAggregate{CompletedRequests: 60}}
	store := &fakeStore{
		laborCosts: []domain.LaborCost{{Role: "ops", HourlyCost: 30000}},
	}
	s := newTestService(provider, store, &fakeROIStore{})

	p, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek, BusinessType: "claims"})
	require.NoError(t, err)

	// No claims-scoped rate exists, so the scope-less row applies:
	// 12 min * 60 requests = 12h at 30000/h.
	assert.Equal(t, "360000.00", p.Savings.CostSavings)
}

// panicStore blows up inside the derivation boundary.
type panicStore struct{ fakeStore }

func (p *panicStore) ListTaskBaselines(ctx context.Context, businessType string) ([]domain.TaskBaseline, error) {
	panic("corrupt baseline row")
}

func TestDashboardPanicYieldsFallback(t *testing.T) {
	provider := &fakeProvider{raw: &domain.RawAggregate{TotalRequests: 500}}
	roi := &fakeROIStore{}
	s := newTestService(provider, &panicStore{}, roi)

	p, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek, BusinessType: "claims"})
	require.NoError(t, err)
	require.NotNil(t, p)

	// Fallback shape: zeros everywhere, but structurally complete.
	assert.Equal(t, "0.00", p.GrowthRatePct)
	assert.Equal(t, int64(0), p.TotalRequests)
	assert.Len(t, p.Baselines, 9)
	// Nothing was computed, so no ROI row is written.
	assert.Empty(t, roi.records)
}

// flakyStore panics inside the derivation boundary on the first call only.
type flakyStore struct {
	fakeStore
	calls int
}

func (f *flakyStore) ListTaskBaselines(ctx context.Context, businessType string) ([]domain.TaskBaseline, error) {
	f.calls++
	if f.calls == 1 {
		panic("corrupt baseline row")
	}
	return f.fakeStore.ListTaskBaselines(ctx, businessType)
}

func TestDashboardFallbackNotCached(t *testing.T) {
	cache := &fakeCache{}
	provider := &fakeProvider{raw: &domain.RawAggregate{TotalRequests: 500, PrevTotalRequests: 250}}
	s := newTestService(provider, &flakyStore{}, &fakeROIStore{})
	s.SetCache(cache)

	q := Query{Period: PeriodWeek, BusinessType: "claims"}

	// First call hits the panic and soft-degrades.
	p1, err := s.Dashboard(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p1.TotalRequests)
	assert.Equal(t, "0.00", p1.GrowthRatePct)

	// The retry must recompute: the fallback never entered the cache.
	p2, err := s.Dashboard(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(500), p2.TotalRequests)
	assert.Equal(t, "100.00", p2.GrowthRatePct)

	// And the recomputed payload is what got cached.
	assert.Same(t, p2, cache.entries["dashboard:week:claims:"])
}

func TestDashboardCacheHit(t *testing.T) {
	cached := &Payload{Period: "week", GrowthRatePct: "42.00"}
	cache := &fakeCache{entries: map[string]*Payload{
		"dashboard:week:claims:": cached,
	}}
	provider := &fakeProvider{err: errors.New("should not be called")}
	s := newTestService(provider, &fakeStore{}, &fakeROIStore{})
	s.SetCache(cache)

	p, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek, BusinessType: "claims"})
	require.NoError(t, err)
	assert.Same(t, cached, p)
}

func TestDashboardCacheMissPopulates(t *testing.T) {
	cache := &fakeCache{}
	provider := &fakeProvider{raw: &domain.RawAggregate{TotalRequests: 3}}
	s := newTestService(provider, &fakeStore{}, &fakeROIStore{})
	s.SetCache(cache)

	p, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek})
	require.NoError(t, err)
	assert.Same(t, p, cache.entries["dashboard:week::"])
}

func TestDashboardCacheFailureIgnored(t *testing.T) {
	cache := &fakeCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	provider := &fakeProvider{raw: &domain.RawAggregate{TotalRequests: 3}}
	s := newTestService(provider, &fakeStore{}, &fakeROIStore{})
	s.SetCache(cache)

	p, err := s.Dashboard(context.Background(), Query{Period: PeriodWeek})
	require.NoError(t, err)
	assert.NotNil(t, p)
}
