package loyalty

import (
	"context"
	"fmt"
	"math"
)

// PurchaseTx is the slice of a transaction the loyalty engine needs.
// LockClient must hold the client row until the transaction ends.
type PurchaseTx interface {
	LockClient(ctx context.Context, clientID int64) (Client, error)
	UpdateClient(ctx context.Context, clientID int64, eligibleRemaining, totalPurchases, loyaltyPoints int) error
	InsertPurchase(ctx context.Context, p Purchase) (Purchase, error)
	CountQualifying(ctx context.Context, clientID int64) (int, error)
	GrantDiscounts(ctx context.Context, clientID int64, batch int) error
}

// Result reports what Apply did to a client for one gross amount.
type Result struct {
	ClientID        int64
	DiscountApplied bool
	DiscountAmount  float64
	FinalAmount     float64
	PointsEarned    int
	BatchGranted    bool
}

// Apply runs the loyalty state machine for one sale:
//
//  1. consume a discount when any remain, 5% off the gross;
//  2. bump purchase count and add one point per thousand of gross;
//  3. append the purchase history row;
//  4. recount qualifying purchases, the new row included;
//  5. grant a fresh batch when the count lands exactly on a milestone
//     and the client had no discounts left before step 1.
//
// The pre-step-1 balance gates the grant: a client consuming their last
// discount in the same sale does not immediately receive a new batch.
func Apply(ctx context.Context, tx PurchaseTx, clientID int64, gross float64) (Result, error) {
	if gross < 0 {
		return Result{}, fmt.Errorf("apply loyalty: negative gross %v", gross)
	}

	client, err := tx.LockClient(ctx, clientID)
	if err != nil {
		return Result{}, fmt.Errorf("lock client %d: %w", clientID, err)
	}

	remainingBefore := client.EligibleDiscountsRemaining

	res := Result{ClientID: clientID, FinalAmount: gross}
	eligible := remainingBefore
	if eligible > 0 {
		res.DiscountApplied = true
		res.DiscountAmount = gross * DiscountRate
		res.FinalAmount = gross - res.DiscountAmount
		eligible--
	}

	res.PointsEarned = int(math.Floor(gross / PointsDivisor))
	totalPurchases := client.TotalPurchases + 1
	points := client.LoyaltyPoints + res.PointsEarned

	if err := tx.UpdateClient(ctx, clientID, eligible, totalPurchases, points); err != nil {
		return Result{}, fmt.Errorf("update client %d: %w", clientID, err)
	}

	pct := 0.0
	if res.DiscountApplied {
		pct = DiscountRate * 100
	}
	if _, err := tx.InsertPurchase(ctx, Purchase{
		ClientID:           clientID,
		Amount:             gross,
		DiscountApplied:    res.DiscountApplied,
		DiscountPercentage: pct,
		FinalAmount:        res.FinalAmount,
	}); err != nil {
		return Result{}, fmt.Errorf("insert purchase: %w", err)
	}

	qualifying, err := tx.CountQualifying(ctx, clientID)
	if err != nil {
		return Result{}, fmt.Errorf("count qualifying purchases: %w", err)
	}

	if qualifying >= MilestoneInterval && qualifying%MilestoneInterval == 0 && remainingBefore == 0 {
		if err := tx.GrantDiscounts(ctx, clientID, DiscountBatch); err != nil {
			return Result{}, fmt.Errorf("grant discount batch: %w", err)
		}
		res.BatchGranted = true
	}

	return res, nil
}
