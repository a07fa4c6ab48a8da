package billing

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"pixeljournal/config"
	"pixeljournal/database"
	"pixeljournal/internal/app/http/httpx"
	"pixeljournal/internal/domain/subscriptions"
	"pixeljournal/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	portalSession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	customer "github.com/stripe/stripe-go/v75/customer"
	"gorm.io/gorm"
)

func priceIDForPlan(plan string) string {
	switch plan {
	case subscriptions.PlanPremiumMonthly:
		return config.STRIPE_PRICE_PREMIUM_MONTHLY
	case subscriptions.PlanPremiumYearly:
		return config.STRIPE_PRICE_PREMIUM_YEARLY
	}
	return ""
}

// POST /api/subscription/checkout
func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		Plan string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Plan == "" {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeMissingField, "Missing plan")
		return
	}

	if !subscriptions.ValidCheckoutPlan(body.Plan) {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidPlan, "Unknown plan: "+body.Plan)
		return
	}
	priceID := priceIDForPlan(body.Plan)

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Stripe key not configured")
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "User not identified")
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "User not found")
		return
	}

	// Lazy subscription row: created on the first checkout attempt as an
	// inactive free record, activated later by the webhook.
	var sub subscriptions.Subscription
	err := database.DB.Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub = subscriptions.Subscription{
			UserID: userID,
			Plan:   subscriptions.PlanFree,
			Status: subscriptions.StatusInactive,
		}
		if err := database.DB.Create(&sub).Error; err != nil {
			httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to create subscription record")
			return
		}
	} else if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to load subscription record")
		return
	}

	// Lazy Stripe customer
	if sub.StripeCustomerID == nil || *sub.StripeCustomerID == "" {
		cus, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Metadata: map[string]string{
				"user_id": fmt.Sprint(user.ID),
				"app_env": os.Getenv("APP_ENV"),
			},
		})
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to create Stripe customer")
			return
		}

		if err := database.DB.Model(&subscriptions.Subscription{}).
			Where("id = ?", sub.ID).
			Update("stripe_customer_id", cus.ID).Error; err != nil {
			httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to store Stripe customer")
			return
		}

		sub.StripeCustomerID = stripe.String(cus.ID)
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(config.APP_URL + "/account"),
		CancelURL:  stripe.String(config.APP_URL + "/account?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(*sub.StripeCustomerID),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),

		Metadata: map[string]string{
			"user_id": fmt.Sprint(user.ID),
			"plan":    body.Plan,
		},

		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id": fmt.Sprint(user.ID),
				"plan":    body.Plan,
			},
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to create checkout session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": s.URL})
}

// POST /api/subscription/portal
func CreateBillingPortal(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Stripe key not configured")
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "User not identified")
		return
	}

	var sub subscriptions.Subscription
	if err := database.DB.Where("user_id = ?", userID).First(&sub).Error; err != nil ||
		sub.StripeCustomerID == nil || *sub.StripeCustomerID == "" {
		httpx.Fail(c, http.StatusConflict, httpx.CodeInvalidBody, "No Stripe customer yet (subscribe first)")
		return
	}

	portal, err := portalSession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*sub.StripeCustomerID),
		ReturnURL: stripe.String(config.APP_URL + "/account"),
	})
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Could not create billing portal session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"portal_url": portal.URL})
}
