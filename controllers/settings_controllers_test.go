package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/cafepos/pos-app/controllers"
	"github.com/cafepos/pos-app/models"
	"github.com/cafepos/pos-app/pricing"
)

func setupSettingsRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	settingsCtrl := controllers.NewSettingsController(db, nil)
	r.Use(fakeAuth(1, "admin"))
	r.GET("/api/settings", settingsCtrl.GetSettings)
	r.PATCH("/api/settings", settingsCtrl.UpdateSettings)
	return r
}

func TestGetSettingsCreatesDefaults(t *testing.T) {
	db := setupTestDB(t)
	r := setupSettingsRouter(db)

	w := doJSON(t, r, "GET", "/api/settings", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data models.Settings `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "USD", resp.Data.Currency)
	assert.True(t, resp.Data.TaxRate.Equal(pricing.DefaultTaxRate))

	var count int64
	db.Model(&models.Settings{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateSettingsPartial(t *testing.T) {
	db := setupTestDB(t)
	r := setupSettingsRouter(db)

	w := doJSON(t, r, "PATCH", "/api/settings", gin.H{"tax_rate": "0.05"})
	assert.Equal(t, http.StatusOK, w.Code)

	var settings models.Settings
	assert.NoError(t, db.First(&settings).Error)
	assert.True(t, settings.TaxRate.Equal(d("0.05")))
	assert.Equal(t, "USD", settings.Currency, "untouched fields keep their defaults")

	// A second patch must not grow a second row.
	w = doJSON(t, r, "PATCH", "/api/settings", gin.H{"store_name": "Corner Cafe"})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Settings{}).Count(&count)
	assert.Equal(t, int64(1), count)

	db.First(&settings)
	assert.Equal(t, "Corner Cafe", settings.StoreName)
	assert.True(t, settings.TaxRate.Equal(d("0.05")), "earlier patch survives")
}
