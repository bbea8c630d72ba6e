package ticketing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPurchaseCreatesHolding(t *testing.T) {
	next := ApplyPurchase(Holding{}, 3)
	assert.Equal(t, Holding{Exists: true, TicketCount: 3}, next)
}

func TestApplyPurchaseAccumulates(t *testing.T) {
	cur := Holding{Exists: true, TicketCount: 2}
	next := ApplyPurchase(cur, 3)
	assert.Equal(t, Holding{Exists: true, TicketCount: 5}, next)
}

func TestApplyPurchaseAfterRedemptionStartsOver(t *testing.T) {
	// The redeemed units were already burned; the new holding carries only
	// the new purchase and is redeemable again.
	cur := Holding{Exists: true, TicketCount: 4, Consumed: true}
	next := ApplyPurchase(cur, 1)
	assert.Equal(t, Holding{Exists: true, TicketCount: 1}, next)
}

func TestRedeemConsumesFullCount(t *testing.T) {
	next, count, err := Redeem(Holding{Exists: true, TicketCount: 5})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), count)
	assert.True(t, next.Consumed)
	assert.Equal(t, uint64(5), next.TicketCount)
}

func TestRedeemWithoutHolding(t *testing.T) {
	_, _, err := Redeem(Holding{})
	assert.ErrorIs(t, err, ErrNoTickets)

	_, _, err = Redeem(Holding{Exists: true, TicketCount: 0})
	assert.ErrorIs(t, err, ErrNoTickets)
}

func TestRedeemTwiceRejected(t *testing.T) {
	next, _, err := Redeem(Holding{Exists: true, TicketCount: 2})
	require.NoError(t, err)

	_, _, err = Redeem(next)
	assert.ErrorIs(t, err, ErrAlreadyConsumed)
}

func TestHoldingLifecycle(t *testing.T) {
	// buy, buy again, redeem, buy again, redeem again
	h := ApplyPurchase(Holding{}, 2)
	h = ApplyPurchase(h, 1)

	h, count, err := Redeem(h)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	h = ApplyPurchase(h, 4)
	assert.False(t, h.Consumed)

	h, count, err = Redeem(h)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
	assert.True(t, h.Consumed)
}
