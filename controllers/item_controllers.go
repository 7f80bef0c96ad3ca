package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cafepos/pos-app/models"
	"github.com/cafepos/pos-app/realtime"
	"github.com/cafepos/pos-app/utils"
)

type ItemController struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewItemController(db *gorm.DB, hub *realtime.Hub) *ItemController {
	return &ItemController{DB: db, Hub: hub}
}

// GetAllItems -> terminals load the full menu from here
func (ic *ItemController) GetAllItems(c *gin.Context) {
	var items []models.Item
	if err := ic.DB.Preload("Category").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of items", items)
}

// GetItemByID
func (ic *ItemController) GetItemByID(c *gin.Context) {
	itemID := c.Param("item_id")

	var item models.Item
	if err := ic.DB.Preload("Category").First(&item, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item detail", item)
}

// GetItemsByCategory
func (ic *ItemController) GetItemsByCategory(c *gin.Context) {
	categoryID := c.Query("category_id")
	if categoryID == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("category_id is required"))
		return
	}

	var items []models.Item
	if err := ic.DB.Preload("Category").Where("category_id = ?", categoryID).Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Items by category", items)
}

// CreateItem
func (ic *ItemController) CreateItem(c *gin.Context) {
	var req struct {
		CategoryID  uint            `json:"category_id" binding:"required"`
		Name        string          `json:"name" binding:"required"`
		Price       decimal.Decimal `json:"price"`
		Available   *bool           `json:"available"`
		Description string          `json:"description"`
		ImageURL    string          `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Price.IsNegative() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must not be negative"))
		return
	}

	var category models.Category
	if err := ic.DB.First(&category, req.CategoryID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("category not found"))
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item := models.Item{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Price:       req.Price,
		Available:   available,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	if err := ic.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	item.Category = category

	ic.Hub.BroadcastItemUpdate(item, c.GetUint("user_id"))

	utils.RespondJSON(c, http.StatusCreated, "Item created", item)
}

// UpdateItem -> partial update; other terminals learn about it via the hub
func (ic *ItemController) UpdateItem(c *gin.Context) {
	itemID := c.Param("item_id")

	var item models.Item
	if err := ic.DB.Preload("Category").First(&item, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		CategoryID  *uint            `json:"category_id"`
		Name        *string          `json:"name"`
		Price       *decimal.Decimal `json:"price"`
		Available   *bool            `json:"available"`
		Description *string          `json:"description"`
		ImageURL    *string          `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := ic.DB.First(&category, *req.CategoryID).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("category not found"))
			return
		}
		item.CategoryID = *req.CategoryID
		item.Category = category
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must not be negative"))
			return
		}
		item.Price = *req.Price
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}

	// Last write wins; concurrent menu edits are not version-checked.
	if err := ic.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	ic.Hub.BroadcastItemUpdate(item, c.GetUint("user_id"))

	utils.RespondJSON(c, http.StatusOK, "Item updated", item)
}

// DeleteItem -> rejected once the item appears on any order
func (ic *ItemController) DeleteItem(c *gin.Context) {
	itemID := c.Param("item_id")

	var count int64
	ic.DB.Model(&models.OrderItem{}).Where("item_id = ?", itemID).Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("item appears on existing orders; mark it unavailable instead"))
		return
	}

	if err := ic.DB.Delete(&models.Item{}, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item deleted", gin.H{"item_id": itemID})
}
