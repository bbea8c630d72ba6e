// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to the rejection reason returned to the caller. Every mutating
// operation runs inside a transaction, so any of these errors means the
// whole call was rolled back with no partial state change.
package repository

import (
	"errors"

	"github.com/showtix/showtix/internal/ticketing"
)

// ErrUnauthorized is returned when the acting account lacks the issuer
// role required for a supply change (mint or burn). Handlers should
// translate this into an HTTP 403 response.
var ErrUnauthorized = errors.New("user without permission")

// ErrInsufficientBalance is returned when a burn, transfer or wallet
// debit would push a balance below zero.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrShowNotFound indicates that a show id was never assigned. Show ids
// start at 1, so a lookup for id 0 always fails with this error.
var ErrShowNotFound = errors.New("show not found")

// ErrNoTickets is returned when a redemption is attempted for a show
// the account never bought tickets for. The value comes from the holding
// transition rules so both layers report the same sentinel.
var ErrNoTickets = ticketing.ErrNoTickets

// ErrAlreadyConsumed is returned when the tickets for a (account, show)
// pair were already redeemed.
var ErrAlreadyConsumed = ticketing.ErrAlreadyConsumed

// ErrAccountNotFound indicates the referenced account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// ErrEmailExists is returned on registration with a duplicate email.
var ErrEmailExists = errors.New("email already exists")
