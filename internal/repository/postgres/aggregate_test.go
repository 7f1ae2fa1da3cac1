package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ignite/agentops-portal/internal/dashboard"
)

func testWindows() (dashboard.Window, dashboard.Window) {
	from := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	cur := dashboard.Window{From: from, To: to, Days: 7}
	prev := dashboard.Window{From: from.AddDate(0, 0, -7), To: from, Days: 7}
	return cur, prev
}

func expectFetchQueries(mock sqlmock.Sqlmock, cur, prev dashboard.Window) {
	mock.ExpectQuery("FROM agent_requests").
		WithArgs(cur.From, cur.To).
		WillReturnRows(sqlmock.NewRows([]string{
			"count", "completed", "pending", "processed", "latency", "error_rate", "queue_time",
		}).AddRow(120, 100, 15, 105, []byte("1500.5"), []byte("0.42"), []byte("800")))

	mock.ExpectQuery("FROM agent_requests").
		WithArgs(prev.From, prev.To).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(100))

	mock.ExpectQuery("FROM agent_telemetry").
		WithArgs(cur.From, cur.To).
		WillReturnRows(sqlmock.NewRows([]string{
			"assisted", "validated", "recs", "overridden",
			"cog_before", "cog_after", "handoff", "satisfaction", "innovation",
		}).AddRow(200, 150, 100, 8, []byte("80"), []byte("60"), []byte("45"), []byte("3.9"), 11))

	mock.ExpectQuery("FROM collaboration_samples").
		WithArgs(cur.From, cur.To).
		WillReturnRows(sqlmock.NewRows([]string{
			"accuracy", "override", "cognitive", "handoff", "satisfaction", "innovation",
		}).AddRow(nil, nil, nil, nil, nil, nil))

	mock.ExpectQuery("FROM agent_tasks").
		WithArgs(cur.From, cur.To).
		WillReturnRows(sqlmock.NewRows([]string{"total", "success", "error"}).AddRow(200, 150, 30))

	mock.ExpectQuery("FROM portal_users").
		WillReturnRows(sqlmock.NewRows([]string{"total", "mapped"}).AddRow(50, 20))

	mock.ExpectQuery("FROM risk_assessments").
		WithArgs(cur.From, cur.To).
		WillReturnRows(sqlmock.NewRows([]string{
			"total", "score", "audit_req", "audit_done", "reviewed",
		}).AddRow(40, []byte("6.25"), 10, 8, 20))

	mock.ExpectQuery("GROUP BY business_type").
		WithArgs(cur.From, cur.To).
		WillReturnRows(sqlmock.NewRows([]string{"business_type", "count", "completed"}).
			AddRow("claims", 90, 80).
			AddRow("underwriting", 30, 25))

	mock.ExpectQuery("FROM adoption_funnel_events").
		WithArgs(cur.From, cur.To).
		WillReturnRows(sqlmock.NewRows([]string{"stage", "users"}).
			AddRow("invited", 50).
			AddRow("activated", 30).
			AddRow("weekly_active", 12))
}

func TestAggregateRepoFetch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	cur, prev := testWindows()
	expectFetchQueries(mock, cur, prev)

	repo := NewAggregateRepo(db)
	agg, err := repo.Fetch(context.Background(), cur, prev, "", "")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if agg.TotalRequests != 120 {
		t.Errorf("TotalRequests = %d, want 120", agg.TotalRequests)
	}
	if agg.PrevTotalRequests != 100 {
		t.Errorf("PrevTotalRequests = %d, want 100", agg.PrevTotalRequests)
	}
	// NUMERIC aggregates arrive as []byte and must be coerced.
	if agg.AvgLatencyMS != 1500.5 {
		t.Errorf("AvgLatencyMS = %v, want 1500.5", agg.AvgLatencyMS)
	}
	if agg.AvgErrorRate != 0.42 {
		t.Errorf("AvgErrorRate = %v, want 0.42", agg.AvgErrorRate)
	}
	if agg.AIAssistedDecisions != 200 {
		t.Errorf("AIAssistedDecisions = %d, want 200", agg.AIAssistedDecisions)
	}
	if agg.TotalTasks != 200 || agg.SuccessTasks != 150 || agg.ErrorTasks != 30 {
		t.Errorf("task counts = %d/%d/%d, want 200/150/30", agg.TotalTasks, agg.SuccessTasks, agg.ErrorTasks)
	}
	if agg.TotalUsers != 50 || agg.MappedUsers != 20 {
		t.Errorf("user counts = %d/%d, want 50/20", agg.TotalUsers, agg.MappedUsers)
	}
	if agg.AvgRiskScore != 6.25 {
		t.Errorf("AvgRiskScore = %v, want 6.25", agg.AvgRiskScore)
	}

	// NULL collaboration aggregates mean "no sample", not zero.
	if agg.CollabDecisionAccuracyPct != nil {
		t.Errorf("CollabDecisionAccuracyPct = %v, want nil", *agg.CollabDecisionAccuracyPct)
	}
	if agg.CollabSatisfaction != nil {
		t.Errorf("CollabSatisfaction = %v, want nil", *agg.CollabSatisfaction)
	}

	if len(agg.DomainBreakdown) != 2 {
		t.Fatalf("DomainBreakdown len = %d, want 2", len(agg.DomainBreakdown))
	}
	if agg.DomainBreakdown[0].Domain != "claims" || agg.DomainBreakdown[0].RequestCount != 90 {
		t.Errorf("DomainBreakdown[0] = %+v", agg.DomainBreakdown[0])
	}
	if len(agg.FunnelBreakdown) != 3 {
		t.Fatalf("FunnelBreakdown len = %d, want 3", len(agg.FunnelBreakdown))
	}
	if agg.FunnelBreakdown[0].Stage != "invited" || agg.FunnelBreakdown[0].UserCount != 50 {
		t.Errorf("FunnelBreakdown[0] = %+v", agg.FunnelBreakdown[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %s", err)
	}
}

func TestAggregateRepoFetchCollaborationSamples(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	cur, prev := testWindows()

	mock.ExpectQuery("FROM agent_requests").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"}).
			AddRow(0, 0, 0, 0, 0, 0, 0))
	mock.ExpectQuery("FROM agent_requests").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("FROM agent_telemetry").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9"}).
			AddRow(0, 0, 0, 0, 0, 0, 0, 0, 0))
	mock.ExpectQuery("FROM collaboration_samples").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3", "c4", "c5", "c6"}).
			AddRow([]byte("91.5"), []byte("4.25"), []byte("33"), []byte("12.5"), []byte("4.4"), 7))
	mock.ExpectQuery("FROM agent_tasks").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3"}).AddRow(0, 0, 0))
	mock.ExpectQuery("FROM portal_users").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2"}).AddRow(0, 0))
	mock.ExpectQuery("FROM risk_assessments").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3", "c4", "c5"}).AddRow(0, 0, 0, 0, 0))
	mock.ExpectQuery("GROUP BY business_type").
		WillReturnRows(sqlmock.NewRows([]string{"business_type", "count", "completed"}))
	mock.ExpectQuery("FROM adoption_funnel_events").
		WillReturnRows(sqlmock.NewRows([]string{"stage", "users"}))

	repo := NewAggregateRepo(db)
	agg, err := repo.Fetch(context.Background(), cur, prev, "", "")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if agg.CollabDecisionAccuracyPct == nil || *agg.CollabDecisionAccuracyPct != 91.5 {
		t.Errorf("CollabDecisionAccuracyPct = %v, want 91.5", agg.CollabDecisionAccuracyPct)
	}
	if agg.CollabInnovationCount == nil || *agg.CollabInnovationCount != 7 {
		t.Errorf("CollabInnovationCount = %v, want 7", agg.CollabInnovationCount)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %s", err)
	}
}

func TestAggregateRepoFetchScoped(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	cur, prev := testWindows()

	// Scope filters extend the arg list in placeholder order.
	mock.ExpectQuery("FROM agent_requests").
		WithArgs(cur.From, cur.To, "claims", "triage").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"}).
			AddRow(10, 8, 1, 9, 0, 0, 0))
	mock.ExpectQuery("FROM agent_requests").
		WithArgs(prev.From, prev.To, "claims", "triage").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("FROM agent_telemetry").
		WithArgs(cur.From, cur.To, "claims", "triage").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9"}).
			AddRow(0, 0, 0, 0, 0, 0, 0, 0, 0))
	mock.ExpectQuery("FROM collaboration_samples").
		WithArgs(cur.From, cur.To, "claims", "triage").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3", "c4", "c5", "c6"}).
			AddRow(nil, nil, nil, nil, nil, nil))
	mock.ExpectQuery("FROM agent_tasks").
		WithArgs(cur.From, cur.To, "claims", "triage").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3"}).AddRow(0, 0, 0))
	mock.ExpectQuery("FROM portal_users").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2"}).AddRow(0, 0))
	mock.ExpectQuery("FROM risk_assessments").
		WithArgs(cur.From, cur.To, "claims", "triage").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3", "c4", "c5"}).AddRow(0, 0, 0, 0, 0))
	mock.ExpectQuery("GROUP BY business_type").
		WithArgs(cur.From, cur.To, "triage").
		WillReturnRows(sqlmock.NewRows([]string{"business_type", "count", "completed"}))
	mock.ExpectQuery("FROM adoption_funnel_events").
		WithArgs(cur.From, cur.To).
		WillReturnRows(sqlmock.NewRows([]string{"stage", "users"}))

	repo := NewAggregateRepo(db)
	agg, err := repo.Fetch(context.Background(), cur, prev, "claims", "triage")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if agg.TotalRequests != 10 || agg.PrevTotalRequests != 5 {
		t.Errorf("request counts = %d/%d, want 10/5", agg.TotalRequests, agg.PrevTotalRequests)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %s", err)
	}
}

func TestAggregateRepoFetchQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	cur, prev := testWindows()
	mock.ExpectQuery("FROM agent_requests").
		WillReturnError(errors.New("connection refused"))

	repo := NewAggregateRepo(db)
	if _, err := repo.Fetch(context.Background(), cur, prev, "", ""); err == nil {
		t.Error("Fetch() expected error when the request query fails")
	}
}
