package stripe

import (
	"strings"

	"pixeljournal/internal/domain/subscriptions"
)

// NormalizeStatus maps Stripe's subscription status vocabulary onto the
// values the subscriptions table carries.
func NormalizeStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "":
		return subscriptions.StatusInactive
	case "active", "trialing":
		return subscriptions.StatusActive
	case "past_due", "unpaid":
		return subscriptions.StatusPastDue
	case "canceled", "incomplete_expired":
		return subscriptions.StatusCanceled
	default:
		return strings.TrimSpace(s)
	}
}
