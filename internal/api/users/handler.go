package users

import (
	"errors"
	"net/http"

	"pixeljournal/internal/app/http/httpx"
	"pixeljournal/internal/domain/entitlement"
	"pixeljournal/internal/domain/subscriptions"
	"pixeljournal/internal/domain/usage"
	"pixeljournal/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB     *gorm.DB
	Ledger *usage.Ledger
}

func NewHandler(db *gorm.DB, ledger *usage.Ledger) *Handler {
	return &Handler{DB: db, Ledger: ledger}
}

// GET /api/user/me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized")
		return
	}

	var user users.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		httpx.Fail(c, http.StatusNotFound, httpx.CodeNotFound, "User not found")
		return
	}

	// A missing subscription row means the user never started a checkout;
	// treated the same as an inactive one.
	var subDTO *SubscriptionDTO
	isPremium := false
	var sub subscriptions.Subscription
	err := h.DB.Where("user_id = ?", userID).First(&sub).Error
	switch {
	case err == nil:
		isPremium = sub.IsPremium()
		subDTO = &SubscriptionDTO{
			Plan:             sub.Plan,
			Status:           sub.Status,
			CurrentPeriodEnd: sub.CurrentPeriodEnd,
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		subDTO = &SubscriptionDTO{
			Plan:   subscriptions.PlanFree,
			Status: subscriptions.StatusInactive,
		}
	default:
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to load subscription")
		return
	}

	count, err := h.Ledger.CountThisWeek(userID, usage.QuotaActions)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to load usage")
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User: UserDTO{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			CreatedAt: user.CreatedAt,
		},
		Subscription: subDTO,
		Usage: UsageDTO{
			ImagesThisWeek: count,
			Limit:          entitlement.WeeklyLimitFor(isPremium),
		},
	})
}
