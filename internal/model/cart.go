package model

import (
	"time"

	"github.com/google/uuid"
)

// CartLine represents one (user, product) pairing in the cart. The unit
// price is captured when the product is first added and is not refreshed
// from the catalogue afterwards.
type CartLine struct {
	ID        uuid.UUID `json:"-" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`

	// Joined from the catalogue for read paths.
	ProductName string `json:"productName" db:"product_name"`
	Available   bool   `json:"available" db:"available"`
}

// Subtotal returns the line total at the captured unit price.
func (l CartLine) Subtotal() float64 {
	return Round2(float64(l.Quantity) * l.UnitPrice)
}

// AddCartItemRequest represents the request payload for adding a product
// to the cart.
type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest represents the request payload for changing a cart
// line's quantity. Quantity zero removes the line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse represents the response payload for the cart read path.
type CartResponse struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}
