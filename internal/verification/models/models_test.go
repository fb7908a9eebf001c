package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictRiskTier(t *testing.T) {
	tests := []struct {
		name         string
		verdict      Verdict
		wantTier     RiskTier
		wantDegraded bool
	}{
		{"critical", Verdict{"overall_risk": "critical"}, RiskCritical, false},
		{"high", Verdict{"overall_risk": "high"}, RiskHigh, false},
		{"medium", Verdict{"overall_risk": "medium"}, RiskMedium, false},
		{"low", Verdict{"overall_risk": "low"}, RiskLow, false},
		{"explicit unknown", Verdict{"overall_risk": "unknown"}, RiskUnknown, false},
		{"missing", Verdict{"findings": []any{}}, RiskUnknown, true},
		{"nil verdict", nil, RiskUnknown, true},
		{"not a string", Verdict{"overall_risk": 0.9}, RiskUnknown, true},
		{"unrecognized tier", Verdict{"overall_risk": "HIGH"}, RiskUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, degraded := tt.verdict.RiskTier()
			assert.Equal(t, tt.wantTier, tier)
			assert.Equal(t, tt.wantDegraded, degraded)
		})
	}
}

func TestVerdictClone_LeavesOriginalUntouched(t *testing.T) {
	original := Verdict{"overall_risk": "low"}
	clone := original.Clone()
	clone["escrow_recommendations"] = []string{"x"}

	assert.NotContains(t, original, "escrow_recommendations")
	assert.Equal(t, "low", clone["overall_risk"])
}

func TestDomainRecommendationsKey(t *testing.T) {
	assert.Equal(t, "escrow_recommendations", DomainEscrow.RecommendationsKey())
	assert.Equal(t, "voting_recommendations", DomainVoting.RecommendationsKey())
}
