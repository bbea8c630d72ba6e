package ticketing

import "errors"

// Errors returned by the holding transitions.
var (
	// ErrNoTickets means a redemption was attempted with no live holding.
	ErrNoTickets = errors.New("no tickets for this show")
	// ErrAlreadyConsumed means the holding was already redeemed.
	ErrAlreadyConsumed = errors.New("tickets already consumed")
)

// Holding is the per-(account, show) ticket record as the transition rules
// see it. A pair with no record is the zero value (Exists false). The state
// machine per pair is: absent -> holding -> consumed, with a repeat purchase
// after redemption starting a fresh holding.
type Holding struct {
	Exists      bool
	TicketCount uint64
	Consumed    bool
}

// ApplyPurchase returns the holding after buying `count` more tickets.
// A first purchase creates the holding; a purchase on a live holding
// accumulates; a purchase after redemption starts over, clearing the
// consumed flag, since the previously redeemed units were already burned
// and accumulating would double-count them.
func ApplyPurchase(cur Holding, count uint64) Holding {
	if !cur.Exists || cur.Consumed {
		return Holding{Exists: true, TicketCount: count}
	}
	return Holding{Exists: true, TicketCount: cur.TicketCount + count}
}

// Redeem consumes the full holding and returns the count to burn.
// Redemption is all-or-nothing and once-only: a pair with no live holding
// fails with ErrNoTickets and a second redemption with ErrAlreadyConsumed.
func Redeem(cur Holding) (Holding, uint64, error) {
	if !cur.Exists || cur.TicketCount == 0 {
		return Holding{}, 0, ErrNoTickets
	}
	if cur.Consumed {
		return Holding{}, 0, ErrAlreadyConsumed
	}
	next := cur
	next.Consumed = true
	return next, cur.TicketCount, nil
}
