// This file contains the per-show ticket bookkeeping. The token ledger
// holds a single fungible balance per account; holdings record how many of
// those units belong to each show and whether they were already redeemed.
// Mint and burn paths update both structures in the same transaction, so
// the two stay consistent by construction. The transition rules live in
// the ticketing package; this repository only loads the current row under
// lock and persists the decided state.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/showtix/showtix/internal/ticketing"
)

// Holding mirrors the 'holdings' table.
type Holding struct {
	AccountID   uint64
	ShowID      uint64
	TicketCount uint64
	Consumed    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HoldingDetail is a holding joined with its show for listing endpoints.
type HoldingDetail struct {
	ShowID      uint64    `json:"show_id"`
	ShowName    string    `json:"show_name"`
	StartsAt    time.Time `json:"starts_at"`
	TicketCount uint64    `json:"ticket_count"`
	Consumed    bool      `json:"consumed"`
}

// HoldingRepo manages persistence for ticket holdings.
type HoldingRepo struct {
	db *sql.DB
}

// NewHoldingRepo constructs a HoldingRepo with the given DB handle.
func NewHoldingRepo(db *sql.DB) *HoldingRepo {
	return &HoldingRepo{db: db}
}

// GetForUpdateTx loads a holding with a row lock, returning nil when the
// pair has no record yet. The lock serializes concurrent purchases and
// redemptions for the same (account, show) pair.
func (r *HoldingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, accountID, showID uint64) (*Holding, error) {
	const q = `SELECT account_id, show_id, ticket_count, consumed, created_at, updated_at
	           FROM holdings WHERE account_id = ? AND show_id = ? FOR UPDATE`
	var h Holding
	err := tx.QueryRowContext(ctx, q, accountID, showID).Scan(
		&h.AccountID, &h.ShowID, &h.TicketCount, &h.Consumed, &h.CreatedAt, &h.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// transitionState maps a loaded row (nil when absent) to the holding the
// transition rules operate on.
func transitionState(h *Holding) ticketing.Holding {
	if h == nil {
		return ticketing.Holding{}
	}
	return ticketing.Holding{Exists: true, TicketCount: h.TicketCount, Consumed: h.Consumed}
}

// RecordPurchaseTx adds purchased tickets to a holding, applying
// ticketing.ApplyPurchase to the row loaded under lock: first purchases
// insert, live holdings accumulate, redeemed holdings start over.
func (r *HoldingRepo) RecordPurchaseTx(ctx context.Context, tx *sql.Tx, accountID, showID, count uint64) error {
	cur, err := r.GetForUpdateTx(ctx, tx, accountID, showID)
	if err != nil {
		return err
	}
	next := ticketing.ApplyPurchase(transitionState(cur), count)
	if cur == nil {
		const ins = `INSERT INTO holdings (account_id, show_id, ticket_count, consumed) VALUES (?, ?, ?, 0)`
		_, err := tx.ExecContext(ctx, ins, accountID, showID, next.TicketCount)
		return err
	}
	const upd = `UPDATE holdings SET ticket_count = ?, consumed = ? WHERE account_id = ? AND show_id = ?`
	_, err = tx.ExecContext(ctx, upd, next.TicketCount, next.Consumed, accountID, showID)
	return err
}

// ConsumeTx marks a holding consumed and returns the redeemed count so the
// caller can burn the matching ledger units. The decision is
// ticketing.Redeem on the row loaded under lock; ErrNoTickets and
// ErrAlreadyConsumed pass through unchanged.
func (r *HoldingRepo) ConsumeTx(ctx context.Context, tx *sql.Tx, accountID, showID uint64) (uint64, error) {
	cur, err := r.GetForUpdateTx(ctx, tx, accountID, showID)
	if err != nil {
		return 0, err
	}
	_, count, err := ticketing.Redeem(transitionState(cur))
	if err != nil {
		return 0, err
	}
	const upd = `UPDATE holdings SET consumed = 1 WHERE account_id = ? AND show_id = ?`
	if _, err := tx.ExecContext(ctx, upd, accountID, showID); err != nil {
		return 0, err
	}
	return count, nil
}

// ListByAccount returns all holdings of an account joined with show details,
// ordered by show start time. An account with no purchases gets an empty
// slice and nil error.
func (r *HoldingRepo) ListByAccount(ctx context.Context, accountID uint64) ([]HoldingDetail, error) {
	const q = `SELECT h.show_id, s.name, s.starts_at, h.ticket_count, h.consumed
	           FROM holdings h
	           JOIN shows s ON s.id = h.show_id
	           WHERE h.account_id = ?
	           ORDER BY s.starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []HoldingDetail
	for rows.Next() {
		var d HoldingDetail
		if err := rows.Scan(&d.ShowID, &d.ShowName, &d.StartsAt, &d.TicketCount, &d.Consumed); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
