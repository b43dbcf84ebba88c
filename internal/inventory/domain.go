package inventory

import (
	"fmt"
	"time"
)

// LotStatus tracks the lifecycle of a stock lot.
type LotStatus string

const (
	LotActive   LotStatus = "active"
	LotExpired  LotStatus = "expired"
	LotDepleted LotStatus = "depleted"
)

// Lot is a batch of a product received from a supplier.
// Stock is always drawn from lots, oldest expiration first.
type Lot struct {
	ID                int64     `json:"id"`
	MatriculeID       string    `json:"matriculeId"`
	ProductID         int64     `json:"productId"`
	SupplierID        int64     `json:"supplierId"`
	UnitPrice         float64   `json:"unitPrice"`
	InitialQuantity   int       `json:"initialQuantity"`
	RemainingQuantity int       `json:"remainingQuantity"`
	EntryDate         time.Time `json:"entryDate"`
	ExpirationDate    time.Time `json:"expirationDate"`
	Status            LotStatus `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Draw records one slice taken from a lot during allocation.
type Draw struct {
	LotID        int64
	Matricule    string
	ProductID    int64
	UnitPrice    float64
	Quantity     int
	NewRemaining int
	Depleted     bool
}

// InsufficientStockError reports that active lots cannot cover a request.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuffisant pour le produit %d: demandé %d, disponible %d", e.ProductID, e.Requested, e.Available)
}
