package entries

import (
	"net/http"
	"strconv"

	"pixeljournal/database"
	"pixeljournal/internal/app/http/httpx"
	"pixeljournal/internal/domain/entries"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized")
		return 0, false
	}
	return userID, true
}

func userEntriesQuery(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&entries.Entry{}).Where("user_id = ?", userID)
}

func entryIDParam(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Invalid entry id")
		return 0, false
	}
	return uint(id64), true
}

// POST /api/entries
func CreateEntry(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var input entryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, err.Error())
		return
	}

	content := input.NormalizedContent()
	if content == "" {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeMissingField, "Missing content")
		return
	}

	entry := entries.Entry{UserID: userID, Content: content}
	if err := database.DB.Create(&entry).Error; err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to create entry")
		return
	}

	c.JSON(http.StatusCreated, toEntryDTO(entry))
}

// GET /api/entries
func ListEntries(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var list []entries.Entry
	if err := userEntriesQuery(database.DB, userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to load entries")
		return
	}

	out := make([]EntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, toEntryDTO(e))
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}

// GET /api/entries/:id
func GetEntry(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := entryIDParam(c)
	if !ok {
		return
	}

	var entry entries.Entry
	if err := userEntriesQuery(database.DB, userID).Where("id = ?", id).First(&entry).Error; err != nil {
		httpx.Fail(c, http.StatusNotFound, httpx.CodeNotFound, "Entry not found")
		return
	}
	c.JSON(http.StatusOK, toEntryDTO(entry))
}

// PUT /api/entries/:id
func UpdateEntry(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := entryIDParam(c)
	if !ok {
		return
	}

	var input entryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, err.Error())
		return
	}
	content := input.NormalizedContent()
	if content == "" {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeMissingField, "Missing content")
		return
	}

	var entry entries.Entry
	if err := userEntriesQuery(database.DB, userID).Where("id = ?", id).First(&entry).Error; err != nil {
		httpx.Fail(c, http.StatusNotFound, httpx.CodeNotFound, "Entry not found")
		return
	}

	if err := database.DB.Model(&entry).Update("content", content).Error; err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to update entry")
		return
	}
	c.JSON(http.StatusOK, toEntryDTO(entry))
}

// DELETE /api/entries/:id
func DeleteEntry(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := entryIDParam(c)
	if !ok {
		return
	}

	res := database.DB.Where("user_id = ? AND id = ?", userID, id).Delete(&entries.Entry{})
	if res.Error != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to delete entry")
		return
	}
	if res.RowsAffected == 0 {
		httpx.Fail(c, http.StatusNotFound, httpx.CodeNotFound, "Entry not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
