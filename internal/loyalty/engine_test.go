package loyalty_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/caddie-pos/caddie-pos/internal/loyalty"
	"github.com/caddie-pos/caddie-pos/internal/shared"
	_ "github.com/caddie-pos/caddie-pos/testing"
)

// memTx is an in-memory PurchaseTx with one client.
type memTx struct {
	client    loyalty.Client
	purchases []loyalty.Purchase
	nextID    int64
}

func newMemTx(client loyalty.Client) *memTx {
	return &memTx{client: client, nextID: 1}
}

func (m *memTx) LockClient(ctx context.Context, clientID int64) (loyalty.Client, error) {
	if m.client.ID != clientID {
		return loyalty.Client{}, shared.ErrNotFound
	}
	return m.client, nil
}

func (m *memTx) UpdateClient(ctx context.Context, clientID int64, eligibleRemaining, totalPurchases, loyaltyPoints int) error {
	if m.client.ID != clientID {
		return shared.ErrNotFound
	}
	m.client.EligibleDiscountsRemaining = eligibleRemaining
	m.client.TotalPurchases = totalPurchases
	m.client.LoyaltyPoints = loyaltyPoints
	return nil
}

func (m *memTx) InsertPurchase(ctx context.Context, p loyalty.Purchase) (loyalty.Purchase, error) {
	p.ID = m.nextID
	m.nextID++
	p.PurchaseDate = time.Now()
	m.purchases = append(m.purchases, p)
	return p, nil
}

func (m *memTx) CountQualifying(ctx context.Context, clientID int64) (int, error) {
	count := 0
	for _, p := range m.purchases {
		if p.ClientID == clientID && p.Amount >= loyalty.QualifyingThreshold {
			count++
		}
	}
	return count, nil
}

func (m *memTx) GrantDiscounts(ctx context.Context, clientID int64, batch int) error {
	if m.client.ID != clientID {
		return shared.ErrNotFound
	}
	m.client.EligibleDiscountsRemaining += batch
	return nil
}

func seedQualifying(tx *memTx, n int) {
	for i := 0; i < n; i++ {
		tx.purchases = append(tx.purchases, loyalty.Purchase{
			ID:          tx.nextID,
			ClientID:    tx.client.ID,
			Amount:      loyalty.QualifyingThreshold,
			FinalAmount: loyalty.QualifyingThreshold,
		})
		tx.nextID++
	}
}

func TestApplyNoDiscountAvailable(t *testing.T) {
	tx := newMemTx(loyalty.Client{ID: 1})

	res, err := loyalty.Apply(context.Background(), tx, 1, 3200)
	require.NoError(t, err)
	require.False(t, res.DiscountApplied)
	require.Equal(t, 0.0, res.DiscountAmount)
	require.Equal(t, 3200.0, res.FinalAmount)
	require.Equal(t, 3, res.PointsEarned)
	require.Equal(t, 1, tx.client.TotalPurchases)
	require.Equal(t, 3, tx.client.LoyaltyPoints)
	require.Len(t, tx.purchases, 1)
	require.Equal(t, 0.0, tx.purchases[0].DiscountPercentage)
}

func TestApplyConsumesDiscount(t *testing.T) {
	tx := newMemTx(loyalty.Client{ID: 1, EligibleDiscountsRemaining: 3})

	res, err := loyalty.Apply(context.Background(), tx, 1, 10000)
	require.NoError(t, err)
	require.True(t, res.DiscountApplied)
	require.Equal(t, 500.0, res.DiscountAmount)
	require.Equal(t, 9500.0, res.FinalAmount)
	require.Equal(t, 2, tx.client.EligibleDiscountsRemaining)

	require.Len(t, tx.purchases, 1)
	require.True(t, tx.purchases[0].DiscountApplied)
	require.Equal(t, 5.0, tx.purchases[0].DiscountPercentage)
	require.Equal(t, 10000.0, tx.purchases[0].Amount)
	require.Equal(t, 9500.0, tx.purchases[0].FinalAmount)
}

func TestApplyPointsFromGrossNotNet(t *testing.T) {
	tx := newMemTx(loyalty.Client{ID: 1, EligibleDiscountsRemaining: 1})

	res, err := loyalty.Apply(context.Background(), tx, 1, 1999)
	require.NoError(t, err)
	require.True(t, res.DiscountApplied)
	// floor(1999/1000), not floor(1899.05/1000)
	require.Equal(t, 1, res.PointsEarned)
}

func TestApplyGrantsBatchOnTenthQualifying(t *testing.T) {
	tx := newMemTx(loyalty.Client{ID: 1, TotalPurchases: 9})
	seedQualifying(tx, 9)

	res, err := loyalty.Apply(context.Background(), tx, 1, 6000)
	require.NoError(t, err)
	require.True(t, res.BatchGranted)
	require.Equal(t, loyalty.DiscountBatch, tx.client.EligibleDiscountsRemaining)
}

func TestApplyNoGrantWhenDiscountsRemain(t *testing.T) {
	tx := newMemTx(loyalty.Client{ID: 1, EligibleDiscountsRemaining: 2})
	seedQualifying(tx, 9)

	res, err := loyalty.Apply(context.Background(), tx, 1, 6000)
	require.NoError(t, err)
	require.False(t, res.BatchGranted)
	require.Equal(t, 1, tx.client.EligibleDiscountsRemaining)
}

func TestApplyNoGrantWhenLastDiscountConsumedSameSale(t *testing.T) {
	// Balance before the sale gates the grant: spending the final
	// discount in the milestone purchase itself does not re-arm.
	tx := newMemTx(loyalty.Client{ID: 1, EligibleDiscountsRemaining: 1})
	seedQualifying(tx, 9)

	res, err := loyalty.Apply(context.Background(), tx, 1, 6000)
	require.NoError(t, err)
	require.True(t, res.DiscountApplied)
	require.False(t, res.BatchGranted)
	require.Equal(t, 0, tx.client.EligibleDiscountsRemaining)
}

func TestApplyNoGrantBetweenMilestones(t *testing.T) {
	tx := newMemTx(loyalty.Client{ID: 1})
	seedQualifying(tx, 10)

	res, err := loyalty.Apply(context.Background(), tx, 1, 6000)
	require.NoError(t, err)
	require.False(t, res.BatchGranted)
	require.Equal(t, 0, tx.client.EligibleDiscountsRemaining)
}

func TestApplyGrantAgainAtTwentieth(t *testing.T) {
	tx := newMemTx(loyalty.Client{ID: 1})
	seedQualifying(tx, 19)

	res, err := loyalty.Apply(context.Background(), tx, 1, loyalty.QualifyingThreshold)
	require.NoError(t, err)
	require.True(t, res.BatchGranted)
	require.Equal(t, loyalty.DiscountBatch, tx.client.EligibleDiscountsRemaining)
}

func TestApplyNonQualifyingPurchaseDoesNotAdvanceMilestone(t *testing.T) {
	tx := newMemTx(loyalty.Client{ID: 1})
	seedQualifying(tx, 9)

	res, err := loyalty.Apply(context.Background(), tx, 1, loyalty.QualifyingThreshold-1)
	require.NoError(t, err)
	require.False(t, res.BatchGranted)

	// The next qualifying purchase completes the milestone.
	res, err = loyalty.Apply(context.Background(), tx, 1, loyalty.QualifyingThreshold)
	require.NoError(t, err)
	require.True(t, res.BatchGranted)
}

func TestApplyAlwaysAppendsPurchaseRow(t *testing.T) {
	tx := newMemTx(loyalty.Client{ID: 1})

	for i := 0; i < 3; i++ {
		_, err := loyalty.Apply(context.Background(), tx, 1, 100)
		require.NoError(t, err)
	}
	require.Len(t, tx.purchases, 3)
	require.Equal(t, 3, tx.client.TotalPurchases)
	require.Equal(t, 0, tx.client.LoyaltyPoints)
}

func TestApplyRejectsNegativeGross(t *testing.T) {
	tx := newMemTx(loyalty.Client{ID: 1})

	_, err := loyalty.Apply(context.Background(), tx, 1, -5)
	require.Error(t, err)
	require.Empty(t, tx.purchases)
}

func TestApplyUnknownClient(t *testing.T) {
	tx := newMemTx(loyalty.Client{ID: 1})

	_, err := loyalty.Apply(context.Background(), tx, 2, 100)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
