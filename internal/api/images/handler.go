// Package images holds the two billable endpoints: direct image upload and
// cloud generation. Both run the same sequence: load subscription, count
// weekly usage, evaluate entitlement, do the work, record the ledger fact
// only after the work succeeded.
package images

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"pixeljournal/internal/app/http/httpx"
	"pixeljournal/internal/domain/entitlement"
	"pixeljournal/internal/domain/entries"
	"pixeljournal/internal/domain/subscriptions"
	"pixeljournal/internal/domain/usage"
	"pixeljournal/internal/genai"
	"pixeljournal/internal/infra/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type Handler struct {
	DB        *gorm.DB
	Ledger    *usage.Ledger
	Generator *genai.Orchestrator
	Store     *storage.Store
}

func NewHandler(db *gorm.DB, ledger *usage.Ledger, generator *genai.Orchestrator, store *storage.Store) *Handler {
	return &Handler{DB: db, Ledger: ledger, Generator: generator, Store: store}
}

// isPremium loads the subscription fresh on every request; usage and
// subscription state can change between calls.
func (h *Handler) isPremium(userID uint) (bool, error) {
	var sub subscriptions.Subscription
	err := h.DB.Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sub.IsPremium(), nil
}

// POST /api/images/upload
func (h *Handler) Upload(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized")
		return
	}

	entryIDStr := c.PostForm("entry_id")
	if entryIDStr == "" {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeMissingField, "Missing entry_id")
		return
	}
	entryID64, err := strconv.ParseUint(entryIDStr, 10, 64)
	if err != nil || entryID64 == 0 {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Invalid entry_id")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeMissingField, "Missing image file")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Image too large")
		return
	}

	var entry entries.Entry
	if err := h.DB.Where("user_id = ? AND id = ?", userID, entryID64).First(&entry).Error; err != nil {
		httpx.Fail(c, http.StatusNotFound, httpx.CodeNotFound, "Entry not found")
		return
	}

	premium, err := h.isPremium(userID)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to load subscription")
		return
	}
	count, err := h.Ledger.CountThisWeek(userID, usage.QuotaActions)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to load usage")
		return
	}

	decision := entitlement.EvaluateQuota(premium, count, entitlement.FreeWeeklyImageLimit)
	if !decision.Allowed {
		httpx.Fail(c, http.StatusForbidden, string(decision.Reason), "Weekly image limit reached")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Could not read image")
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Could not read image")
		return
	}

	imageURL, err := h.Store.SaveImage(data, filepath.Ext(fileHeader.Filename))
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to store image")
		return
	}

	if err := h.DB.Model(&entry).Update("image_url", imageURL).Error; err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to attach image")
		return
	}

	// Ledger write comes last: the image must actually exist before it
	// costs quota. A crash in between under-counts, which is the lesser
	// error.
	if err := h.Ledger.Record(userID, usage.ActionImageGenerated); err != nil {
		log.Println("usage record failed after upload:", err)
	}

	c.JSON(http.StatusOK, gin.H{"image_url": imageURL})
}

// POST /api/images/generate-cloud
func (h *Handler) GenerateCloud(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		EntryText string `json:"entry_text"`
		JournalID uint   `json:"journal_id"`
		Style     string `json:"style"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, err.Error())
		return
	}
	if body.EntryText == "" {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeMissingField, "Missing entry_text")
		return
	}

	premium, err := h.isPremium(userID)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to load subscription")
		return
	}

	// Cloud generation is premium-only, independent of remaining quota.
	if feature := entitlement.EvaluateFeature(premium); !feature.Allowed {
		httpx.Fail(c, http.StatusForbidden, string(feature.Reason), "Cloud generation requires a premium subscription")
		return
	}

	count, err := h.Ledger.CountThisWeek(userID, usage.QuotaActions)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to load usage")
		return
	}
	if decision := entitlement.EvaluateQuota(premium, count, entitlement.FreeWeeklyImageLimit); !decision.Allowed {
		httpx.Fail(c, http.StatusForbidden, string(decision.Reason), "Weekly image limit reached")
		return
	}

	result, err := h.Generator.Generate(c.Request.Context(), body.EntryText, body.Style)
	if err != nil {
		log.Println("cloud generation failed:", err)
		httpx.Fail(c, http.StatusServiceUnavailable, httpx.CodeAIGenerationFailed, "Image generation is temporarily unavailable, please retry")
		return
	}

	imageURL, err := h.Store.SaveImage(result.Data, ".png")
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to store image")
		return
	}

	if body.JournalID != 0 {
		// Attach to the entry when it belongs to the caller; a stale id is
		// not worth failing a generation the user already paid for.
		if err := h.DB.Model(&entries.Entry{}).
			Where("user_id = ? AND id = ?", userID, body.JournalID).
			Update("image_url", imageURL).Error; err != nil {
			log.Println("entry attach failed:", err)
		}
	}

	if err := h.Ledger.Record(userID, usage.ActionCloudImageGenerated); err != nil {
		log.Println("usage record failed after generation:", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"image_url":          imageURL,
		"generation_time_ms": result.Duration.Milliseconds(),
	})
}
