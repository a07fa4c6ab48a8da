package routes

import (
	authapi "pixeljournal/internal/api/auth"
	"pixeljournal/internal/api/billing"
	entriesapi "pixeljournal/internal/api/entries"
	imagesapi "pixeljournal/internal/api/images"
	stripewebhooks "pixeljournal/internal/api/stripewebhook"
	usersapi "pixeljournal/internal/api/users"
	"pixeljournal/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Users  *usersapi.Handler
	Images *imagesapi.Handler
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	// Webhook route stays outside auth and sanitization: Stripe signs the
	// raw body, so it must reach the verifier byte for byte.
	r.POST("/api/webhooks/stripe", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeInputMiddleware())

	public.POST("/api/auth/register", authapi.Register)
	public.POST("/api/auth/login", authapi.Login)
	public.GET("/api/auth/google", authapi.GoogleStart)
	public.GET("/api/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeInputMiddleware())

	auth.GET("/api/user/me", deps.Users.GetCurrentUser)
	auth.POST("/api/auth/change-password", authapi.ChangePassword)

	auth.POST("/api/subscription/checkout", billing.CreateCheckoutSession)
	auth.POST("/api/subscription/portal", billing.CreateBillingPortal)

	auth.POST("/api/entries", entriesapi.CreateEntry)
	auth.GET("/api/entries", entriesapi.ListEntries)
	auth.GET("/api/entries/:id", entriesapi.GetEntry)
	auth.PUT("/api/entries/:id", entriesapi.UpdateEntry)
	auth.DELETE("/api/entries/:id", entriesapi.DeleteEntry)

	auth.POST("/api/images/upload", deps.Images.Upload)
	auth.POST("/api/images/generate-cloud", deps.Images.GenerateCloud)
}
