package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cafepos/pos-app/models"
	"github.com/cafepos/pos-app/pricing"
	"github.com/cafepos/pos-app/realtime"
	"github.com/cafepos/pos-app/utils"
)

type SettingsController struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewSettingsController(db *gorm.DB, hub *realtime.Hub) *SettingsController {
	return &SettingsController{DB: db, Hub: hub}
}

// GetSettings returns the single settings row, creating it with defaults on
// first access.
func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.loadOrCreate()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings", settings)
}

// UpdateSettings -> admin only (enforced by route middleware); other
// terminals receive the new record over the hub.
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	settings, err := sc.loadOrCreate()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var req struct {
		StoreName     *string          `json:"store_name"`
		Currency      *string          `json:"currency"`
		TaxRate       *decimal.Decimal `json:"tax_rate"`
		ReceiptFooter *string          `json:"receipt_footer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.StoreName != nil {
		settings.StoreName = *req.StoreName
	}
	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	if req.TaxRate != nil {
		settings.TaxRate = *req.TaxRate
	}
	if req.ReceiptFooter != nil {
		settings.ReceiptFooter = *req.ReceiptFooter
	}

	if err := sc.DB.Save(&settings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sc.Hub.BroadcastSettingsUpdate(settings, c.GetUint("user_id"))

	utils.RespondJSON(c, http.StatusOK, "Settings updated", settings)
}

func (sc *SettingsController) loadOrCreate() (models.Settings, error) {
	var settings models.Settings
	err := sc.DB.First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = models.Settings{
			StoreName: "POS",
			Currency:  "USD",
			TaxRate:   pricing.DefaultTaxRate,
		}
		err = sc.DB.Create(&settings).Error
	}
	return settings, err
}
