package inventory

import (
	"context"
	"fmt"
)

// AllocationTx is the slice of a transaction the allocator needs.
// LockActiveLots must return lots ordered by expiration date then id,
// locked for the remainder of the transaction. DeductLot must refuse
// a deduction larger than the lot's current remaining quantity.
type AllocationTx interface {
	LockActiveLots(ctx context.Context, productID int64) ([]Lot, error)
	DeductLot(ctx context.Context, lotID int64, qty int) (newRemaining int, err error)
}

// Allocate draws qty units of a product from active lots, oldest
// expiration first, spanning lots when one cannot cover the request.
// Nothing is deducted unless the full quantity is available.
func Allocate(ctx context.Context, tx AllocationTx, productID int64, qty int) ([]Draw, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("allocate: quantity must be positive, got %d", qty)
	}

	lots, err := tx.LockActiveLots(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("lock lots for product %d: %w", productID, err)
	}

	available := 0
	for _, lot := range lots {
		available += lot.RemainingQuantity
	}
	if available < qty {
		return nil, &InsufficientStockError{ProductID: productID, Requested: qty, Available: available}
	}

	var draws []Draw
	needed := qty
	for _, lot := range lots {
		if needed == 0 {
			break
		}
		take := lot.RemainingQuantity
		if take > needed {
			take = needed
		}
		if take == 0 {
			continue
		}
		newRemaining, err := tx.DeductLot(ctx, lot.ID, take)
		if err != nil {
			return nil, fmt.Errorf("deduct lot %d: %w", lot.ID, err)
		}
		draws = append(draws, Draw{
			LotID:        lot.ID,
			Matricule:    lot.MatriculeID,
			ProductID:    lot.ProductID,
			UnitPrice:    lot.UnitPrice,
			Quantity:     take,
			NewRemaining: newRemaining,
			Depleted:     newRemaining == 0,
		})
		needed -= take
	}

	if needed != 0 {
		return nil, fmt.Errorf("allocate product %d: %d units unassigned after scan", productID, needed)
	}
	return draws, nil
}
