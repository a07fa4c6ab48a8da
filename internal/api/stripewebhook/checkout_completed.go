package stripewebhooks

import (
	"errors"
	"fmt"
	"strconv"

	"pixeljournal/internal/domain/subscriptions"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/subscription"
	"gorm.io/gorm"
)

// fetchSubscription fetches the authoritative subscription record from
// Stripe; the period end on the wire event is never trusted. Var so tests
// can stub it.
var fetchSubscription = func(id string) (*stripe.Subscription, error) {
	return subscription.Get(id, nil)
}

// applyCheckoutCompleted activates the user's subscription. Keyed by the
// user id carried in the checkout metadata, so applying the same event
// twice lands on the same row with the same values.
func applyCheckoutCompleted(db *gorm.DB, session *stripe.CheckoutSession) error {
	if session.Subscription == nil || session.Subscription.ID == "" {
		return errors.New("checkout session missing subscription")
	}
	subscriptionID := session.Subscription.ID

	userID, plan, err := checkoutIdentity(session)
	if err != nil {
		return err
	}
	if !subscriptions.ValidCheckoutPlan(plan) {
		return fmt.Errorf("checkout session carries unknown plan %q", plan)
	}

	subData, err := fetchSubscription(subscriptionID)
	if err != nil || subData == nil {
		return fmt.Errorf("failed to fetch subscription %s: %w", subscriptionID, err)
	}
	periodEnd := subData.CurrentPeriodEnd * 1000

	updates := map[string]interface{}{
		"plan":                   plan,
		"status":                 subscriptions.StatusActive,
		"stripe_subscription_id": subscriptionID,
		"current_period_end":     periodEnd,
	}
	if session.Customer != nil && session.Customer.ID != "" {
		updates["stripe_customer_id"] = session.Customer.ID
	}

	var existing subscriptions.Subscription
	err = db.Where("user_id = ?", userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row := subscriptions.Subscription{
			UserID:               userID,
			Plan:                 plan,
			Status:               subscriptions.StatusActive,
			StripeSubscriptionID: &subscriptionID,
			CurrentPeriodEnd:     &periodEnd,
		}
		if session.Customer != nil && session.Customer.ID != "" {
			row.StripeCustomerID = &session.Customer.ID
		}
		return db.Create(&row).Error
	}
	if err != nil {
		return fmt.Errorf("failed to load subscription row: %w", err)
	}

	return db.Model(&subscriptions.Subscription{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error
}

// checkoutIdentity extracts the user and plan the checkout was started for.
// user_id falls back to ClientReferenceID; plan must be in metadata.
func checkoutIdentity(session *stripe.CheckoutSession) (uint, string, error) {
	userIDStr := ""
	plan := ""
	if session.Metadata != nil {
		userIDStr = session.Metadata["user_id"]
		plan = session.Metadata["plan"]
	}
	if userIDStr == "" {
		userIDStr = session.ClientReferenceID
	}
	if userIDStr == "" {
		return 0, "", errors.New("missing user_id (metadata.user_id or client_reference_id)")
	}
	if plan == "" {
		return 0, "", errors.New("missing plan in checkout metadata")
	}

	uid64, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid user_id %q: %w", userIDStr, err)
	}
	return uint(uid64), plan, nil
}
