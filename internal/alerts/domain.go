package alerts

import "time"

// Type discriminates stock alerts.
type Type string

const (
	TypeLowStock Type = "low_stock"
	TypeExpired  Type = "expired_product"
)

// Status tracks whether an alert still needs attention.
type Status string

const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
)

// Alert flags a lot needing stock manager attention.
type Alert struct {
	ID         int64      `json:"id"`
	AlertType  Type       `json:"alertType"`
	ProductID  int64      `json:"productId"`
	LotID      int64      `json:"lotId"`
	Message    string     `json:"message"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}
