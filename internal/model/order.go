package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Order statuses. Cancelled is reachable from any non-terminal status; the
// status-update operation only validates membership in this set.
const (
	OrderStatusPending    = "pending"
	OrderStatusPreparing  = "preparing"
	OrderStatusDelivering = "delivering"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Order represents a placed customer order. The order number is the
// public, human-readable identifier, distinct from the internal ID.
type Order struct {
	ID              uuid.UUID `json:"id" db:"id"`
	OrderNumber     string    `json:"orderNumber" db:"order_number"`
	UserID          string    `json:"userId" db:"user_id"`
	DeliveryAddress string    `json:"deliveryAddress" db:"delivery_address"`
	TotalAmount     float64   `json:"totalAmount" db:"total_amount"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. Price and subtotal are
// captured at order time and never recomputed from the live catalogue.
type OrderItem struct {
	ID          uuid.UUID `json:"-" db:"id"`
	OrderID     uuid.UUID `json:"-" db:"order_id"`
	ProductID   string    `json:"productId" db:"product_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	PriceAtTime float64   `json:"priceAtTime" db:"price_at_time"`
	Subtotal    float64   `json:"subtotal" db:"subtotal"`
}

// Payment represents the payment record created alongside an order. It is
// 1:1 with its order.
type Payment struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrderID        uuid.UUID  `json:"orderId" db:"order_id"`
	UserID         string     `json:"userId" db:"user_id"`
	Amount         float64    `json:"amount" db:"amount"`
	Method         string     `json:"method" db:"method"`
	Status         string     `json:"status" db:"status"`
	TransactionRef string     `json:"transactionRef" db:"transaction_ref"`
	PaidAt         *time.Time `json:"paidAt,omitempty" db:"paid_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
}

// PlaceOrderRequest represents the request payload for checkout.
type PlaceOrderRequest struct {
	DeliveryAddress string `json:"deliveryAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}

// OrderConfirmation represents the response payload for a successful
// checkout.
type OrderConfirmation struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	TotalAmount float64   `json:"totalAmount"`
}

// OrderDetail represents an order with its line items and payment record.
type OrderDetail struct {
	Order   Order       `json:"order"`
	Items   []OrderItem `json:"items"`
	Payment *Payment    `json:"payment,omitempty"`
}

// UpdateOrderStatusRequest represents the request payload for an admin
// status transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// SalesReportRow represents one day in the admin sales report.
type SalesReportRow struct {
	Day        time.Time `json:"day" db:"day"`
	OrderCount int       `json:"orderCount" db:"order_count"`
	Revenue    float64   `json:"revenue" db:"revenue"`
}

// ValidOrderStatus reports whether s is a member of the allowed order
// status set.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusDelivering,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI:
		return true
	}
	return false
}

// Round2 rounds a monetary amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
