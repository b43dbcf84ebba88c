package catalog

import "time"

// Product is an item sold by the store. Stock lives in lots, not here.
type Product struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Category            string    `json:"category"`
	Description         string    `json:"description"`
	StockAlertThreshold int       `json:"stockAlertThreshold"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Supplier provides lots to the store.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}
