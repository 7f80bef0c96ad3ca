package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cafepos/pos-app/models"
	"github.com/cafepos/pos-app/realtime"
	"github.com/cafepos/pos-app/utils"
)

type OrderController struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewOrderController(db *gorm.DB, hub *realtime.Hub) *OrderController {
	return &OrderController{DB: db, Hub: hub}
}

type orderLineRequest struct {
	ItemID   uint            `json:"item_id" binding:"required"`
	Quantity int             `json:"quantity" binding:"required,gt=0"`
	Price    decimal.Decimal `json:"price"`
}

type createOrderRequest struct {
	Items          []orderLineRequest `json:"items" binding:"required,min=1,dive"`
	PaymentType    string             `json:"payment_type" binding:"required"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Tax            decimal.Decimal    `json:"tax"`
	Discount       decimal.Decimal    `json:"discount"`
	Total          decimal.Decimal    `json:"total"`
	Notes          string             `json:"notes"`
	IdempotencyKey string             `json:"idempotency_key"`
}

// CreateOrder persists a submitted cart as an immutable order. The order and
// all of its lines are written in one transaction; a replayed idempotency key
// returns the order created by the first attempt.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("no authenticated user"))
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !models.ValidPaymentType(req.PaymentType) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid payment type %q", req.PaymentType))
		return
	}

	// Replay of a committed submission: hand back the original order.
	if req.IdempotencyKey != "" {
		var existing models.Order
		err := oc.DB.Preload("OrderItems").Where("idempotency_key = ?", req.IdempotencyKey).First(&existing).Error
		if err == nil {
			utils.RespondJSON(c, http.StatusOK, "Order already recorded", existing)
			return
		}
	}

	for _, line := range req.Items {
		if line.Price.IsNegative() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("line price must not be negative"))
			return
		}
	}

	// The terminal computed the totals; verify them before recording money.
	subtotal := decimal.Zero
	for _, line := range req.Items {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if !subtotal.Round(2).Equal(req.Subtotal.Round(2)) {
		utils.RespondError(c, http.StatusUnprocessableEntity,
			fmt.Errorf("subtotal mismatch: items sum to %s, payload says %s", subtotal.Round(2), req.Subtotal))
		return
	}
	expectedTotal := req.Subtotal.Add(req.Tax).Sub(req.Discount)
	if !expectedTotal.Round(2).Equal(req.Total.Round(2)) {
		utils.RespondError(c, http.StatusUnprocessableEntity,
			fmt.Errorf("total mismatch: subtotal+tax-discount is %s, payload says %s", expectedTotal.Round(2), req.Total))
		return
	}

	order := models.Order{
		OrderNumber: generateOrderNumber(),
		UserID:      userID,
		PaymentType: req.PaymentType,
		Subtotal:    req.Subtotal.Round(2),
		Tax:         req.Tax.Round(2),
		Discount:    req.Discount.Round(2),
		Total:       req.Total.Round(2),
		Notes:       req.Notes,
		Status:      models.OrderStatusCompleted,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		order.IdempotencyKey = &key
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, line := range req.Items {
			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ItemID:    line.ItemID,
				Quantity:  line.Quantity,
				Price:     line.Price,
				Subtotal:  line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			order.OrderItems = append(order.OrderItems, orderItem)
		}
		return nil
	})
	if err != nil {
		// Lost the unique-index race to a concurrent submission carrying the
		// same key: the pre-check above missed it, the insert collided. Hand
		// back the order that won, same as a straight replay.
		if req.IdempotencyKey != "" {
			var existing models.Order
			lookupErr := oc.DB.Preload("OrderItems").Where("idempotency_key = ?", req.IdempotencyKey).First(&existing).Error
			if lookupErr == nil {
				utils.RespondJSON(c, http.StatusOK, "Order already recorded", existing)
				return
			}
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %s created by user %d, total %s", order.OrderNumber, userID, order.Total)

	oc.Hub.BroadcastOrderCreated(order, userID)

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders -> list orders with their lines, newest first
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("OrderItems").Order("created_at desc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Preload("OrderItems").Preload("OrderItems.Item").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// generateOrderNumber builds a unique, human-readable order number like
// ORD-20250114-3F2A9C.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}
