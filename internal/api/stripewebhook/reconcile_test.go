package stripewebhooks

import (
	"testing"

	"pixeljournal/internal/domain/subscriptions"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&subscriptions.Subscription{}))
	return db
}

func stubFetchSubscription(t *testing.T, periodEnd int64) {
	t.Helper()
	orig := fetchSubscription
	fetchSubscription = func(id string) (*stripe.Subscription, error) {
		return &stripe.Subscription{ID: id, CurrentPeriodEnd: periodEnd}, nil
	}
	t.Cleanup(func() { fetchSubscription = orig })
}

func completedSession() *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		Subscription: &stripe.Subscription{ID: "sub_123"},
		Customer:     &stripe.Customer{ID: "cus_123"},
		Metadata: map[string]string{
			"user_id": "42",
			"plan":    subscriptions.PlanPremiumMonthly,
		},
	}
}

func TestCheckoutCompletedActivatesSubscription(t *testing.T) {
	db := newTestDB(t)
	stubFetchSubscription(t, 1750000000)

	require.NoError(t, applyCheckoutCompleted(db, completedSession()))

	var sub subscriptions.Subscription
	require.NoError(t, db.Where("user_id = ?", 42).First(&sub).Error)

	assert.Equal(t, subscriptions.StatusActive, sub.Status)
	assert.Equal(t, subscriptions.PlanPremiumMonthly, sub.Plan)
	assert.Equal(t, "sub_123", *sub.StripeSubscriptionID)
	assert.Equal(t, "cus_123", *sub.StripeCustomerID)
	// Authoritative period end comes from the provider fetch, in millis.
	assert.Equal(t, int64(1750000000000), *sub.CurrentPeriodEnd)
	assert.True(t, sub.IsPremium())
}

func TestCheckoutCompletedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	stubFetchSubscription(t, 1750000000)

	require.NoError(t, applyCheckoutCompleted(db, completedSession()))
	require.NoError(t, applyCheckoutCompleted(db, completedSession()))

	var count int64
	require.NoError(t, db.Model(&subscriptions.Subscription{}).Where("user_id = ?", 42).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var sub subscriptions.Subscription
	require.NoError(t, db.Where("user_id = ?", 42).First(&sub).Error)
	assert.Equal(t, subscriptions.StatusActive, sub.Status)
	assert.Equal(t, int64(1750000000000), *sub.CurrentPeriodEnd)
}

func TestCheckoutCompletedUpdatesLazyRow(t *testing.T) {
	db := newTestDB(t)
	stubFetchSubscription(t, 1750000000)

	// Row created lazily by the checkout handler before the webhook lands.
	customerID := "cus_123"
	require.NoError(t, db.Create(&subscriptions.Subscription{
		UserID:           42,
		Plan:             subscriptions.PlanFree,
		Status:           subscriptions.StatusInactive,
		StripeCustomerID: &customerID,
	}).Error)

	require.NoError(t, applyCheckoutCompleted(db, completedSession()))

	var sub subscriptions.Subscription
	require.NoError(t, db.Where("user_id = ?", 42).First(&sub).Error)
	assert.Equal(t, subscriptions.StatusActive, sub.Status)
	assert.Equal(t, subscriptions.PlanPremiumMonthly, sub.Plan)
}

func TestCheckoutCompletedRequiresMetadata(t *testing.T) {
	db := newTestDB(t)
	stubFetchSubscription(t, 1750000000)

	sess := completedSession()
	sess.Metadata = nil
	sess.ClientReferenceID = ""
	assert.Error(t, applyCheckoutCompleted(db, sess))

	// user id can fall back to the client reference, but plan cannot.
	sess.ClientReferenceID = "42"
	assert.Error(t, applyCheckoutCompleted(db, sess))

	var count int64
	require.NoError(t, db.Model(&subscriptions.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSubscriptionUpdatedMirrorsStatus(t *testing.T) {
	db := newTestDB(t)

	customerID := "cus_123"
	require.NoError(t, db.Create(&subscriptions.Subscription{
		UserID:           42,
		Plan:             subscriptions.PlanPremiumMonthly,
		Status:           subscriptions.StatusActive,
		StripeCustomerID: &customerID,
	}).Error)

	event := &stripe.Subscription{
		ID:               "sub_123",
		Customer:         &stripe.Customer{ID: "cus_123"},
		Status:           stripe.SubscriptionStatusPastDue,
		CurrentPeriodEnd: 1760000000,
	}
	require.NoError(t, applySubscriptionUpdated(db, event))

	var sub subscriptions.Subscription
	require.NoError(t, db.Where("user_id = ?", 42).First(&sub).Error)
	assert.Equal(t, subscriptions.StatusPastDue, sub.Status)
	assert.Equal(t, int64(1760000000000), *sub.CurrentPeriodEnd)
	assert.False(t, sub.IsPremium())
}

func TestSubscriptionUpdatedUnknownCustomerIsNoOp(t *testing.T) {
	db := newTestDB(t)

	event := &stripe.Subscription{
		ID:               "sub_999",
		Customer:         &stripe.Customer{ID: "cus_unknown"},
		Status:           stripe.SubscriptionStatusPastDue,
		CurrentPeriodEnd: 1760000000,
	}
	require.NoError(t, applySubscriptionUpdated(db, event))

	var count int64
	require.NoError(t, db.Model(&subscriptions.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSubscriptionDeletedCancels(t *testing.T) {
	db := newTestDB(t)

	customerID := "cus_123"
	require.NoError(t, db.Create(&subscriptions.Subscription{
		UserID:           42,
		Plan:             subscriptions.PlanPremiumYearly,
		Status:           subscriptions.StatusActive,
		StripeCustomerID: &customerID,
	}).Error)

	event := &stripe.Subscription{
		ID:       "sub_123",
		Customer: &stripe.Customer{ID: "cus_123"},
	}
	require.NoError(t, applySubscriptionDeleted(db, event))

	var sub subscriptions.Subscription
	require.NoError(t, db.Where("user_id = ?", 42).First(&sub).Error)
	assert.Equal(t, subscriptions.StatusCanceled, sub.Status)
	assert.False(t, sub.IsPremium())
}

func TestSubscriptionDeletedUnknownCustomerIsNoOp(t *testing.T) {
	db := newTestDB(t)

	event := &stripe.Subscription{
		ID:       "sub_999",
		Customer: &stripe.Customer{ID: "cus_unknown"},
	}
	require.NoError(t, applySubscriptionDeleted(db, event))
}
