package entries

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pixeljournal/database"
	"pixeljournal/internal/domain/entries"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T, userID uint) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entries.Entry{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("user_id", userID) })
	router.POST("/api/entries", CreateEntry)
	router.GET("/api/entries", ListEntries)
	router.GET("/api/entries/:id", GetEntry)
	router.PUT("/api/entries/:id", UpdateEntry)
	router.DELETE("/api/entries/:id", DeleteEntry)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateEntryCanonicalField(t *testing.T) {
	router := setupRouter(t, 1)

	w := postJSON(t, router, "/api/entries", `{"content":"first snow of the year"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var dto EntryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "first snow of the year", dto.Content)
}

func TestCreateEntryLegacyFieldName(t *testing.T) {
	router := setupRouter(t, 1)

	// Older clients send entry_text; it normalizes to the same content.
	w := postJSON(t, router, "/api/entries", `{"entry_text":"first snow of the year"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var dto EntryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "first snow of the year", dto.Content)
}

func TestCreateEntryMissingContent(t *testing.T) {
	router := setupRouter(t, 1)

	w := postJSON(t, router, "/api/entries", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntryOwnershipScoping(t *testing.T) {
	router := setupRouter(t, 1)

	other := entries.Entry{UserID: 2, Content: "someone else's day"}
	require.NoError(t, database.DB.Create(&other).Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/entries/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/entries/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndListEntries(t *testing.T) {
	router := setupRouter(t, 1)

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/entries", `{"content":"draft"}`).Code)

	req := httptest.NewRequest(http.MethodPut, "/api/entries/1", strings.NewReader(`{"content":"final"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/entries", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []EntryDTO `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "final", resp.Entries[0].Content)
}
