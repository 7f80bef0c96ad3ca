package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/cafepos/pos-app/controllers"
	"github.com/cafepos/pos-app/models"
)

func setupItemRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	itemCtrl := controllers.NewItemController(db, nil)
	r.Use(fakeAuth(1, "staff"))
	r.GET("/api/items", itemCtrl.GetAllItems)
	r.POST("/api/items", itemCtrl.CreateItem)
	r.PATCH("/api/items/:item_id", itemCtrl.UpdateItem)
	r.DELETE("/api/items/:item_id", itemCtrl.DeleteItem)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, path, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateItem(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)

	w := doJSON(t, r, "POST", "/api/items", gin.H{
		"category_id": 1,
		"name":        "Latte",
		"price":       "4.50",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data models.Item `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Latte", resp.Data.Name)
	assert.True(t, resp.Data.Available, "availability defaults to true")
	assert.Equal(t, "Drinks", resp.Data.Category.Name)
}

func TestCreateItemRejectsNegativePrice(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)

	w := doJSON(t, r, "POST", "/api/items", gin.H{
		"category_id": 1,
		"name":        "Bad",
		"price":       "-1.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateItemRejectsUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)

	w := doJSON(t, r, "POST", "/api/items", gin.H{
		"category_id": 99,
		"name":        "Orphan",
		"price":       "1.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateItemPartial(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)

	w := doJSON(t, r, "PATCH", "/api/items/1", gin.H{"available": false})
	assert.Equal(t, http.StatusOK, w.Code)

	var item models.Item
	assert.NoError(t, db.First(&item, 1).Error)
	assert.False(t, item.Available)
	assert.Equal(t, "Coffee", item.Name, "untouched fields survive a partial update")
	assert.True(t, item.Price.Equal(d("10.00")))
}

func TestUpdateItemRejectsNegativePrice(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)

	w := doJSON(t, r, "PATCH", "/api/items/1", gin.H{"price": "-5.00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var item models.Item
	db.First(&item, 1)
	assert.True(t, item.Price.Equal(d("10.00")), "rejected update must not change the row")
}

func TestDeleteItemBlockedByOrders(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)

	order := models.Order{OrderNumber: "ORD-T-1", UserID: 1, PaymentType: models.PaymentCash,
		Subtotal: d("10.00"), Total: d("10.00"), Status: models.OrderStatusCompleted}
	assert.NoError(t, db.Create(&order).Error)
	assert.NoError(t, db.Create(&models.OrderItem{OrderID: order.ID, ItemID: 1, Quantity: 1,
		Price: d("10.00"), Subtotal: d("10.00")}).Error)

	w := doJSON(t, r, "DELETE", "/api/items/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	db.Model(&models.Item{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteItem(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)

	w := doJSON(t, r, "DELETE", "/api/items/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Item{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
