package stripewebhooks

import (
	"errors"

	"pixeljournal/internal/domain/subscriptions"
	stripeinfra "pixeljournal/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// applySubscriptionUpdated mirrors Stripe's status and period end onto the
// local row, keyed by the customer id embedded in the event. An event for a
// customer we do not track is dropped, not an error, so Stripe stops
// redelivering it.
func applySubscriptionUpdated(db *gorm.DB, sub *stripe.Subscription) error {
	if sub.ID == "" || sub.Customer == nil || sub.Customer.ID == "" {
		return nil
	}

	var existing subscriptions.Subscription
	err := db.Where("stripe_customer_id = ?", sub.Customer.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	periodEnd := sub.CurrentPeriodEnd * 1000

	return db.Model(&subscriptions.Subscription{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"status":                 stripeinfra.NormalizeStatus(string(sub.Status)),
			"stripe_subscription_id": sub.ID,
			"current_period_end":     periodEnd,
		}).Error
}
