package ticketing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPriceOrderWithChange(t *testing.T) {
	// Paying 2.2 at a price of 1 buys two tickets and returns 0.2.
	order, err := PriceOrder(dec("2.2"), dec("1"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), order.Tickets)
	assert.True(t, order.Cost.Equal(dec("2")), "cost = %s", order.Cost)
	assert.True(t, order.Refund.Equal(dec("0.2")), "refund = %s", order.Refund)
}

func TestPriceOrderExactPayment(t *testing.T) {
	order, err := PriceOrder(dec("3"), dec("1"))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), order.Tickets)
	assert.True(t, order.Refund.IsZero())
	assert.True(t, order.Cost.Equal(dec("3")))
}

func TestPriceOrderFractionalPrice(t *testing.T) {
	order, err := PriceOrder(dec("5"), dec("1.5"))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), order.Tickets)
	assert.True(t, order.Cost.Equal(dec("4.5")), "cost = %s", order.Cost)
	assert.True(t, order.Refund.Equal(dec("0.5")), "refund = %s", order.Refund)
}

func TestPriceOrderConservesValue(t *testing.T) {
	cases := []struct{ paid, price string }{
		{"2.2", "1"},
		{"10", "3"},
		{"7.77", "1.23"},
		{"0.000000000000000002", "0.000000000000000001"},
	}
	for _, tc := range cases {
		order, err := PriceOrder(dec(tc.paid), dec(tc.price))
		require.NoError(t, err, "paid=%s price=%s", tc.paid, tc.price)
		sum := order.Cost.Add(order.Refund)
		assert.True(t, sum.Equal(dec(tc.paid)), "paid=%s cost+refund=%s", tc.paid, sum)
	}
}

func TestPriceOrderRejectsOversizedOrder(t *testing.T) {
	// At the smallest-unit price, 100 would buy 1e20 tickets, past the
	// range of the ticket counter; the quotient must not be truncated
	// into a smaller order.
	_, err := PriceOrder(dec("100"), dec("0.000000000000000001"))
	assert.ErrorIs(t, err, ErrOrderTooLarge)
}

func TestPriceOrderLargeButRepresentable(t *testing.T) {
	order, err := PriceOrder(dec("1"), dec("0.000000000000000001"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000_000_000_000), order.Tickets)
	assert.True(t, order.Refund.IsZero())
}

func TestPriceOrderInsufficientPayment(t *testing.T) {
	_, err := PriceOrder(dec("0.5"), dec("1"))
	assert.ErrorIs(t, err, ErrInsufficientPayment)
}

func TestPriceOrderInvalidInputs(t *testing.T) {
	_, err := PriceOrder(dec("1"), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = PriceOrder(dec("-1"), dec("1"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = PriceOrder(decimal.Zero, dec("1"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(dec("1")))
	assert.NoError(t, ValidateAmount(dec("0.000000000000000001"))) // smallest unit

	assert.ErrorIs(t, ValidateAmount(decimal.Zero), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateAmount(dec("-3")), ErrInvalidAmount)
	// finer than the smallest representable unit
	assert.ErrorIs(t, ValidateAmount(decimal.New(1, -19)), ErrInvalidAmount)
}
