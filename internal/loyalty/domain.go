package loyalty

import "time"

// Loyalty program constants. A purchase of at least the qualifying
// threshold counts toward the milestone; every completed milestone of
// ten qualifying purchases grants a batch of five 5% discounts, but
// only once the previous batch is fully used up.
const (
	QualifyingThreshold = 5000.0
	DiscountRate        = 0.05
	DiscountBatch       = 5
	MilestoneInterval   = 10
	PointsDivisor       = 1000
)

// Client is a loyalty profile attached to a user account.
type Client struct {
	ID                         int64     `json:"id"`
	UserID                     int64     `json:"userId"`
	QRCode                     string    `json:"qrCode"`
	LoyaltyPoints              int       `json:"loyaltyPoints"`
	TotalPurchases             int       `json:"totalPurchases"`
	EligibleDiscountsRemaining int       `json:"eligibleDiscountsRemaining"`
	CreatedAt                  time.Time `json:"createdAt"`
}

// Purchase is one append-only loyalty history row.
type Purchase struct {
	ID                 int64     `json:"id"`
	ClientID           int64     `json:"clientId"`
	Amount             float64   `json:"amount"`
	DiscountApplied    bool      `json:"discountApplied"`
	DiscountPercentage float64   `json:"discountPercentage"`
	FinalAmount        float64   `json:"finalAmount"`
	PurchaseDate       time.Time `json:"purchaseDate"`
}
