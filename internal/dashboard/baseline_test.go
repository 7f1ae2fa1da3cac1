package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/agentops-portal/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestResolveBaselinesDefaultsOnly(t *testing.T) {
	resolved := ResolveBaselines(nil, "", "")

	assert.Len(t, resolved, 9)
	assert.Equal(t, float64(12), resolved[KeyBaselineMinutesPerRequest].Value)
	assert.Equal(t, float64(45000), resolved[KeyCostPerHour].Value)
	assert.Equal(t, float64(2000), resolved[KeySLALatencyMS].Value)
	assert.Equal(t, float64(0), resolved[KeyInvestmentCost].Value)
}

func TestResolveBaselinesScopedOverridesGlobal(t *testing.T) {
	rows := []domain.BaselineEntry{
		{MetricKey: KeyCostPerHour, Value: 50000},
		{MetricKey: KeyCostPerHour, Value: 62000, BusinessType: strPtr("claims")},
	}

	resolved := ResolveBaselines(rows, "claims", "")
	assert.Equal(t, float64(62000), resolved[KeyCostPerHour].Value)

	// Without the business filter the scoped row is invisible.
	resolved = ResolveBaselines(rows, "", "")
	assert.Equal(t, float64(50000), resolved[KeyCostPerHour].Value)
}

func TestResolveBaselinesIgnoresForeignScope(t *testing.T) {
	rows := []domain.BaselineEntry{
		{MetricKey: KeyCostPerHour, Value: 99999, BusinessType: strPtr("underwriting")},
		{MetricKey: KeySLALatencyMS, Value: 3000, AgentType: strPtr("voice")},
	}

	resolved := ResolveBaselines(rows, "claims", "chat")
	assert.Equal(t, float64(45000), resolved[KeyCostPerHour].Value)
	assert.Equal(t, float64(2000), resolved[KeySLALatencyMS].Value)
}

func TestResolveBaselinesFillsUnitFromDefaults(t *testing.T) {
	rows := []domain.BaselineEntry{
		{MetricKey: KeySLALatencyMS, Value: 1500},
	}
	resolved := ResolveBaselines(rows, "", "")
	assert.Equal(t, float64(1500), resolved[KeySLALatencyMS].Value)
	assert.Equal(t, "ms", resolved[KeySLALatencyMS].Unit)
	assert.NotEmpty(t, resolved[KeySLALatencyMS].Description)
}

func TestResolveBaselinesAlwaysComplete(t *testing.T) {
	resolved := ResolveBaselines([]domain.BaselineEntry{{MetricKey: KeyTotalRoles, Value: 10}}, "x", "y")
	for key := range defaultBaselines {
		_, ok := resolved[key]
		assert.True(t, ok, "missing key %s", key)
	}
}

func TestKnownBaselineKey(t *testing.T) {
	assert.True(t, KnownBaselineKey(KeyCostPerHour))
	assert.False(t, KnownBaselineKey("made_up_metric"))
}
