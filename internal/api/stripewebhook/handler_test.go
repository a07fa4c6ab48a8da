package stripewebhooks

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pixeljournal/database"
	"pixeljournal/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75/webhook"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test_secret"

func webhookRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)

	router := gin.New()
	router.POST("/api/webhooks/stripe", StripeWebhook)
	return db, router
}

func signedHeader(payload []byte) string {
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func postWebhook(router *gin.Engine, payload, sigHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", sigHeader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookInvalidSignatureRejectedWithoutMutation(t *testing.T) {
	db, router := webhookRouter(t)

	payload := `{"id":"evt_1","object":"event","type":"customer.subscription.deleted","data":{"object":{"id":"sub_123","customer":"cus_123"}}}`
	w := postWebhook(router, payload, "t=12345,v1=deadbeef")

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_SIGNATURE", resp.Error.Code)

	// Zero state mutation.
	var count int64
	require.NoError(t, db.Model(&subscriptions.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestWebhookUnknownEventTypeAcked(t *testing.T) {
	_, router := webhookRouter(t)

	payload := `{"id":"evt_2","object":"event","type":"invoice.paid","data":{"object":{}}}`
	w := postWebhook(router, payload, signedHeader([]byte(payload)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Received bool `json:"received"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Received)
}

func TestWebhookDispatchesSubscriptionDeleted(t *testing.T) {
	db, router := webhookRouter(t)

	customerID := "cus_123"
	require.NoError(t, db.Create(&subscriptions.Subscription{
		UserID:           42,
		Plan:             subscriptions.PlanPremiumMonthly,
		Status:           subscriptions.StatusActive,
		StripeCustomerID: &customerID,
	}).Error)

	payload := `{"id":"evt_3","object":"event","type":"customer.subscription.deleted","data":{"object":{"id":"sub_123","customer":"cus_123"}}}`
	w := postWebhook(router, payload, signedHeader([]byte(payload)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sub subscriptions.Subscription
	require.NoError(t, db.Where("user_id = ?", 42).First(&sub).Error)
	assert.Equal(t, subscriptions.StatusCanceled, sub.Status)
}
