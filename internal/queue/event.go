// Package queue defines message payloads exchanged over the message broker.
// Domain events are the only externally observable log of the ledger: every
// state-changing operation publishes exactly one event after its database
// transaction commits.
package queue

// Queue names, one durable queue per event type.
const (
    ShowCreatedQueue    = "show.created"
    TicketSoldQueue     = "ticket.sold"
    TicketConsumedQueue = "ticket.consumed"
    TransferQueue       = "ledger.transfer"
    RoleQueue           = "ledger.role"
)

// EventQueues lists every queue the consumer subscribes to.
var EventQueues = []string{
    ShowCreatedQueue,
    TicketSoldQueue,
    TicketConsumedQueue,
    TransferQueue,
    RoleQueue,
}

// ShowCreatedEvent is published when the owner schedules a new show.
// It carries the full record so downstream consumers never query the
// primary database.
type ShowCreatedEvent struct {
    ShowID          uint64 `json:"show_id"`
    Name            string `json:"name"`
    StartsAt        string `json:"starts_at"`
    DurationMinutes uint32 `json:"duration_minutes"`
}

// TicketSoldEvent is published when a purchase succeeds. Paid, Cost and
// Refund are decimal strings in whole currency units; Paid = Cost + Refund.
type TicketSoldEvent struct {
    ShowID      uint64 `json:"show_id"`
    TicketCount uint64 `json:"ticket_count"`
    AccountID   uint64 `json:"account_id"`
    Paid        string `json:"paid"`
    Cost        string `json:"cost"`
    Refund      string `json:"refund"`
    SoldAt      string `json:"sold_at"`
}

// TicketConsumedEvent is published when a holding is redeemed and its
// full ticket count burned.
type TicketConsumedEvent struct {
    ShowID      uint64 `json:"show_id"`
    TicketCount uint64 `json:"ticket_count"`
    AccountID   uint64 `json:"account_id"`
    ConsumedAt  string `json:"consumed_at"`
}

// TransferEvent is published on every balance movement. Mints carry a zero
// From and burns a zero To, mirroring the zero-address convention of token
// ledgers; plain transfers carry both accounts.
type TransferEvent struct {
    From   uint64 `json:"from"`
    To     uint64 `json:"to"`
    Amount string `json:"amount"`
    Kind   string `json:"kind"` // "mint", "burn" or "transfer"
    At     string `json:"at"`
}

// RoleEvent is published when the owner grants or revokes the issuer role.
type RoleEvent struct {
    AccountID uint64 `json:"account_id"`
    ActorID   uint64 `json:"actor_id"`
    Action    string `json:"action"` // "granted" or "revoked"
    At        string `json:"at"`
}
