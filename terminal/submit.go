package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cafepos/pos-app/cart"
	"github.com/cafepos/pos-app/models"
	"github.com/cafepos/pos-app/pricing"
	"github.com/cafepos/pos-app/utils"
)

// User is the authenticated operator of this terminal, as handed over by the
// login flow. Only ID is read here, for order ownership.
type User struct {
	ID   uint
	Name string
	Role string
}

type OrderLineRequest struct {
	ItemID   uint            `json:"item_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	Items          []OrderLineRequest `json:"items"`
	PaymentType    string             `json:"payment_type"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Tax            decimal.Decimal    `json:"tax"`
	Discount       decimal.Decimal    `json:"discount"`
	Total          decimal.Decimal    `json:"total"`
	Notes          string             `json:"notes,omitempty"`
	IdempotencyKey string             `json:"idempotency_key"`
}

// Submitter turns a cart snapshot into a persisted order via the
// order-creation endpoint.
type Submitter struct {
	BaseURL string
	Token   string
	User    *User
	HTTP    *http.Client

	// pendingKey survives failed attempts so a retry after a timeout dedupes
	// against an order the server may have already committed.
	pendingKey string
}

func NewSubmitter(baseURL, token string, user *User) *Submitter {
	return &Submitter{
		BaseURL: baseURL,
		Token:   token,
		User:    user,
		HTTP:    http.DefaultClient,
	}
}

// Submit snapshots the cart, posts it, and clears the cart only after the
// server confirms the order. On any failure the cart is untouched so the
// operator can retry. The snapshot is taken before the network call, so cart
// edits made while the request is in flight do not leak into the order.
func (s *Submitter) Submit(ctx context.Context, crt *cart.Cart, paymentType string, notes string) (*models.Order, error) {
	if s.User == nil || s.User.ID == 0 {
		return nil, ErrUnauthenticated
	}
	if crt.IsEmpty() {
		return nil, ErrEmptyCart
	}

	snap := crt.Snapshot()
	if s.pendingKey == "" {
		s.pendingKey = uuid.NewString()
	}
	req := buildRequest(snap, paymentType, notes, s.pendingKey)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &SubmissionFailedError{Message: "could not encode order", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, &SubmissionFailedError{Message: "could not build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.HTTP.Do(httpReq)
	if err != nil {
		return nil, &SubmissionFailedError{Message: "network error, order not confirmed", Err: err}
	}
	defer resp.Body.Close()

	var envelope struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg := "order submission failed"
		if decodeErr == nil && envelope.Message != "" {
			msg = envelope.Message
		}
		return nil, &SubmissionFailedError{StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return nil, &SubmissionFailedError{StatusCode: resp.StatusCode, Message: "could not decode order response", Err: decodeErr}
	}

	var order models.Order
	if err := json.Unmarshal(envelope.Data, &order); err != nil {
		return nil, &SubmissionFailedError{StatusCode: resp.StatusCode, Message: "could not decode order response", Err: err}
	}

	utils.InfoLogger.Printf("Order %s confirmed, total %s", order.OrderNumber, order.Total)

	s.pendingKey = ""
	crt.Clear()
	return &order, nil
}

// buildRequest converts a snapshot into the wire payload. Money is rounded to
// two places here, at the persistence boundary. The total is rebuilt from the
// rounded components so total = subtotal + tax - discount holds exactly on
// the wire.
func buildRequest(snap cart.Snapshot, paymentType, notes, idempotencyKey string) CreateOrderRequest {
	items := make([]OrderLineRequest, len(snap.Lines))
	for i, line := range snap.Lines {
		items[i] = OrderLineRequest{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		}
	}

	subtotal := pricing.Round2(snap.Totals.Subtotal)
	tax := pricing.Round2(snap.Totals.Tax)
	discount := pricing.Round2(snap.Totals.Discount)

	return CreateOrderRequest{
		Items:          items,
		PaymentType:    paymentType,
		Subtotal:       subtotal,
		Tax:            tax,
		Discount:       discount,
		Total:          subtotal.Add(tax).Sub(discount),
		Notes:          notes,
		IdempotencyKey: idempotencyKey,
	}
}
