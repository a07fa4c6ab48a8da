package subscriptions

import "time"

// Plan identifiers (single source of truth)
const (
	PlanFree           = "free"
	PlanPremiumMonthly = "premium_monthly"
	PlanPremiumYearly  = "premium_yearly"
)

// Status values mirror Stripe's subscription vocabulary. "inactive" is the
// local pre-checkout state; Stripe never reports it.
const (
	StatusInactive = "inactive"
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusPastDue  = "past_due"
)

type Subscription struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;uniqueIndex:idx_subscriptions_user_id"`

	StripeCustomerID     *string `gorm:"column:stripe_customer_id;index:idx_subscriptions_stripe_customer_id"`
	StripeSubscriptionID *string `gorm:"column:stripe_subscription_id"`

	Plan   string `gorm:"not null;default:'free'"`
	Status string `gorm:"not null;default:'inactive'"`

	// Epoch millis; nil until the first checkout completes.
	CurrentPeriodEnd *int64 `gorm:"column:current_period_end"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPremium is the sole premium gate: only an active status counts,
// regardless of which plan the row carries.
func (s *Subscription) IsPremium() bool {
	return s != nil && s.Status == StatusActive
}

// ValidCheckoutPlan reports whether a client-supplied plan selector is one
// users can actually buy.
func ValidCheckoutPlan(plan string) bool {
	return plan == PlanPremiumMonthly || plan == PlanPremiumYearly
}
