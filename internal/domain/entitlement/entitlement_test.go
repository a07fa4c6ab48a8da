package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateQuota(t *testing.T) {
	tests := []struct {
		name          string
		isPremium     bool
		countThisWeek int
		wantAllowed   bool
		wantReason    Reason
	}{
		{
			name:          "free user under limit",
			countThisWeek: 0,
			wantAllowed:   true,
		},
		{
			name:          "free user one below limit is allowed",
			countThisWeek: FreeWeeklyImageLimit - 1,
			wantAllowed:   true,
		},
		{
			name:          "free user at limit is denied",
			countThisWeek: FreeWeeklyImageLimit,
			wantAllowed:   false,
			wantReason:    ReasonLimitReached,
		},
		{
			name:          "free user over limit is denied",
			countThisWeek: FreeWeeklyImageLimit + 5,
			wantAllowed:   false,
			wantReason:    ReasonLimitReached,
		},
		{
			name:          "premium user at limit is allowed",
			isPremium:     true,
			countThisWeek: FreeWeeklyImageLimit,
			wantAllowed:   true,
		},
		{
			name:          "premium user far over limit is allowed",
			isPremium:     true,
			countThisWeek: 10000,
			wantAllowed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := EvaluateQuota(tt.isPremium, tt.countThisWeek, FreeWeeklyImageLimit)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantReason, d.Reason)
		})
	}
}

func TestEvaluateQuotaRemaining(t *testing.T) {
	d := EvaluateQuota(false, 1, FreeWeeklyImageLimit)
	assert.Equal(t, FreeWeeklyImageLimit-1, d.Remaining)
	assert.Equal(t, FreeWeeklyImageLimit, d.Limit)

	d = EvaluateQuota(true, 1, FreeWeeklyImageLimit)
	assert.Equal(t, UnlimitedSentinel, d.Limit)
}

func TestEvaluateFeatureIndependentOfQuota(t *testing.T) {
	// A free user with zero usage is still denied the premium-only path,
	// and with the feature reason, not the quota reason.
	d := EvaluateFeature(false)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonPremiumRequired, d.Reason)

	d = EvaluateFeature(true)
	assert.True(t, d.Allowed)
}

func TestWeeklyLimitFor(t *testing.T) {
	assert.Equal(t, FreeWeeklyImageLimit, WeeklyLimitFor(false))
	assert.Equal(t, UnlimitedSentinel, WeeklyLimitFor(true))
}
