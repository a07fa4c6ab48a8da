// Package entitlement decides whether a user may perform a billable action
// right now. It is pure: callers load the subscription and the weekly usage
// count, this package only does the math.
package entitlement

// FreeWeeklyImageLimit is the number of images a free user may produce per
// trailing 7-day window.
const FreeWeeklyImageLimit = 3

// UnlimitedSentinel stands in for "no limit" in wire fields that are
// otherwise a finite count.
const UnlimitedSentinel = 999

type Reason string

const (
	// ReasonLimitReached: free-tier weekly quota exhausted.
	ReasonLimitReached Reason = "LIMIT_REACHED"
	// ReasonPremiumRequired: the requested feature is premium-only,
	// independent of remaining quota.
	ReasonPremiumRequired Reason = "PREMIUM_REQUIRED"
)

type Decision struct {
	Allowed   bool
	Reason    Reason
	Limit     int
	Remaining int
}

// EvaluateQuota applies the weekly limit. Premium users always pass.
func EvaluateQuota(isPremium bool, countThisWeek, limit int) Decision {
	if isPremium {
		return Decision{Allowed: true, Limit: UnlimitedSentinel, Remaining: UnlimitedSentinel}
	}

	remaining := limit - countThisWeek
	if remaining < 0 {
		remaining = 0
	}

	if countThisWeek < limit {
		return Decision{Allowed: true, Limit: limit, Remaining: remaining}
	}
	return Decision{Allowed: false, Reason: ReasonLimitReached, Limit: limit}
}

// EvaluateFeature gates premium-only features (cloud generation). A free
// user is denied with PREMIUM_REQUIRED even with quota to spare, so clients
// can pick the right upsell message.
func EvaluateFeature(isPremium bool) Decision {
	if isPremium {
		return Decision{Allowed: true, Limit: UnlimitedSentinel, Remaining: UnlimitedSentinel}
	}
	return Decision{Allowed: false, Reason: ReasonPremiumRequired, Limit: FreeWeeklyImageLimit}
}

// WeeklyLimitFor is the limit reported to clients (me endpoint, headroom).
func WeeklyLimitFor(isPremium bool) int {
	if isPremium {
		return UnlimitedSentinel
	}
	return FreeWeeklyImageLimit
}
