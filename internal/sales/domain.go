package sales

import (
	"errors"
	"time"
)

// ErrEmptyCart rejects a sale without any line items.
var ErrEmptyCart = errors.New("panier vide")

// ErrRetryExhausted surfaces after repeated transaction conflicts,
// receipt number collisions included.
var ErrRetryExhausted = errors.New("checkout retries exhausted")

// Sale is one committed checkout.
type Sale struct {
	ID             int64     `json:"id"`
	ReceiptNumber  string    `json:"receiptNumber"`
	CashierID      int64     `json:"cashierId"`
	ClientID       *int64    `json:"clientId,omitempty"`
	TotalAmount    float64   `json:"totalAmount"`
	DiscountAmount float64   `json:"discountAmount"`
	FinalAmount    float64   `json:"finalAmount"`
	PaymentMethod  string    `json:"paymentMethod"`
	SaleDate       time.Time `json:"saleDate"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SaleItem is one slice of a sale drawn from a single lot. A cart line
// spanning several lots yields several items.
type SaleItem struct {
	ID        int64   `json:"id"`
	SaleID    int64   `json:"saleId"`
	LotID     int64   `json:"lotId"`
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

// CartLine is one product request in a checkout.
type CartLine struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CompleteSaleRequest is the checkout payload submitted by a cashier.
type CompleteSaleRequest struct {
	Items         []CartLine `json:"items" validate:"required,min=1,dive"`
	ClientID      *int64     `json:"clientId" validate:"omitempty,gt=0"`
	PaymentMethod string     `json:"paymentMethod" validate:"required,oneof=cash card mobile"`
}

// ProductInfo is the catalog slice the orchestrator needs inside a
// transaction.
type ProductInfo struct {
	ID                  int64
	Name                string
	StockAlertThreshold int
}
