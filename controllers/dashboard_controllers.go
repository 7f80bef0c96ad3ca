package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cafepos/pos-app/models"
	"github.com/cafepos/pos-app/utils"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetStats aggregates order counts and revenue for the dashboard.
func (dc *DashboardController) GetStats(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalOrders  int64   `json:"total_orders"`
		TodayOrders  int64   `json:"today_orders"`
		TotalRevenue float64 `json:"total_revenue"`
		TodayRevenue float64 `json:"today_revenue"`
		PaymentTypes []struct {
			PaymentType string  `json:"payment_type"`
			Count       int64   `json:"count"`
			Revenue     float64 `json:"revenue"`
		} `json:"payment_types"`
		TopItems []struct {
			ItemID   uint    `json:"item_id"`
			ItemName string  `json:"item_name"`
			Count    int     `json:"count"`
			Revenue  float64 `json:"revenue"`
		} `json:"top_items"`
	}

	dc.DB.Model(&models.Order{}).Count(&stats.TotalOrders)
	dc.DB.Model(&models.Order{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayOrders)

	dc.DB.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&stats.TotalRevenue)
	dc.DB.Model(&models.Order{}).
		Where("DATE(created_at) = ?", today).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&stats.TodayRevenue)

	dc.DB.Raw(`
		SELECT payment_type, COUNT(*) as count, COALESCE(SUM(total), 0) as revenue
		FROM orders
		GROUP BY payment_type
	`).Scan(&stats.PaymentTypes)

	dc.DB.Raw(`
		SELECT i.id as item_id, i.name as item_name,
		COALESCE(SUM(oi.quantity), 0) as count, COALESCE(SUM(oi.subtotal), 0) as revenue
		FROM order_items oi
		JOIN items i ON oi.item_id = i.id
		GROUP BY i.id, i.name
		ORDER BY count DESC
		LIMIT 10
	`).Scan(&stats.TopItems)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
