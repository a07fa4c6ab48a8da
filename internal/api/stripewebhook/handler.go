package stripewebhooks

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"pixeljournal/database"
	"pixeljournal/internal/app/http/httpx"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

// POST /api/webhooks/stripe
//
// Signature verification happens before anything touches the database; an
// invalid signature is rejected with zero state mutation. Unknown event
// types are acked with 200 so Stripe stops redelivering them.
func StripeWebhook(c *gin.Context) {
	// Stripe key is required for follow-up API calls (subscription.Get).
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "STRIPE_SECRET_KEY not configured")
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if endpointSecret == "" {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "STRIPE_WEBHOOK_SECRET not configured")
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		httpx.Fail(c, http.StatusServiceUnavailable, httpx.CodeInternalError, "Error reading request body")
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		fmt.Println("❌ Stripe signature verification failed:", err)
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidSignature, "Signature verification failed")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Failed to parse session")
			return
		}
		if err := applyCheckoutCompleted(database.DB, &session); err != nil {
			// 500 tells Stripe to redeliver; there is no local retry.
			httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, err.Error())
			return
		}

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Failed to parse subscription")
			return
		}
		if err := applySubscriptionUpdated(database.DB, &sub); err != nil {
			httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, err.Error())
			return
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Failed to parse subscription")
			return
		}
		if err := applySubscriptionDeleted(database.DB, &sub); err != nil {
			httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, err.Error())
			return
		}

	default:
		// Stripe sends many event kinds this system does not act on.
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
