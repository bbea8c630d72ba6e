// Package ticketing holds the pure pricing and validation rules of the
// ticket sale. Keeping them free of HTTP and SQL makes the money math
// directly testable: handlers validate and compute here first, then apply
// the result inside a single database transaction.
package ticketing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Errors returned by the validation and pricing functions. Handlers map
// them to the rejection reasons of the public API.
var (
	// ErrInsufficientPayment means the attached payment does not cover a
	// single ticket at the current price.
	ErrInsufficientPayment = errors.New("insufficient value to buy tickets")
	// ErrInvalidAmount means an amount is not positive or carries more
	// than eighteen fractional digits.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidPrice means a ticket price is not a positive amount.
	ErrInvalidPrice = errors.New("invalid ticket price")
	// ErrOrderTooLarge means the payment would buy more tickets than a
	// single order may carry.
	ErrOrderTooLarge = errors.New("order too large")
)

// maxScale is the number of fractional digits of the smallest currency
// unit. Amounts finer than this cannot be represented on the ledger.
const maxScale = 18

// ValidateAmount checks that an amount is strictly positive and
// representable in smallest units.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.Exponent() < -maxScale {
		return ErrInvalidAmount
	}
	return nil
}

// Order is the outcome of pricing a purchase: the number of tickets the
// payment buys, what they cost, and the change owed back to the buyer.
// Cost plus Refund always equals the paid amount.
type Order struct {
	Tickets uint64
	Cost    decimal.Decimal
	Refund  decimal.Decimal
}

// PriceOrder computes floor(paid/price) tickets and the exact remainder.
// It returns ErrInsufficientPayment when the payment buys no ticket at
// all. Both inputs must be valid amounts; the price must be positive.
func PriceOrder(paid, price decimal.Decimal) (Order, error) {
	if !price.IsPositive() {
		return Order{}, ErrInvalidPrice
	}
	if err := ValidateAmount(paid); err != nil {
		return Order{}, err
	}
	// QuoRem with precision 0 yields the integer quotient and the exact
	// remainder: paid = q*price + r with 0 <= r < price.
	q, r := paid.QuoRem(price, 0)
	if !q.IsPositive() {
		return Order{}, ErrInsufficientPayment
	}
	// The quotient can exceed the ticket counter's range (a smallest-unit
	// price makes it as large as paid/1e-18). Conversions past that range
	// truncate silently, so reject the order instead.
	bi := q.BigInt()
	if !bi.IsInt64() {
		return Order{}, ErrOrderTooLarge
	}
	tickets := uint64(bi.Int64())
	return Order{
		Tickets: tickets,
		Cost:    paid.Sub(r),
		Refund:  r,
	}, nil
}
