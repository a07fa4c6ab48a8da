package stripewebhooks

import (
	"errors"

	"pixeljournal/internal/domain/subscriptions"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// applySubscriptionDeleted marks the local row canceled. Same
// no-op-on-unknown-customer rule as updates.
func applySubscriptionDeleted(db *gorm.DB, sub *stripe.Subscription) error {
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

	return db.Model(&subscriptions.Subscription{}).
		Where("id = ?", existing.ID).
		Update("status", subscriptions.StatusCanceled).Error
}
